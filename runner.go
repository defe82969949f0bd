// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package micro

import "sync"

// Future is the minimal done-channel-and-once completion primitive
// RunPromise hands back, modeled on
// other_examples/avila-r-ego-promise's Promise[T]: a single done channel
// closed exactly once, guarding a value/err pair read after the channel
// closes. Unlike that Promise, Future exposes no combinators of its own —
// composition stays in Effect-land; Future only marks the run/boundary.
type Future[A any] struct {
	done  chan struct{}
	once  sync.Once
	value A
	err   error
}

func newFuture[A any]() *Future[A] {
	return &Future[A]{done: make(chan struct{})}
}

func (f *Future[A]) complete(a A, err error) {
	f.once.Do(func() {
		f.value = a
		f.err = err
		close(f.done)
	})
}

// Await blocks until the Future settles and returns its value and error.
func (f *Future[A]) Await() (A, error) {
	<-f.done
	return f.value, f.err
}

// Done returns a channel closed once the Future settles, for use in a
// select alongside other channels.
func (f *Future[A]) Done() <-chan struct{} { return f.done }

// RunFork starts self running immediately against a fresh root Env and
// returns a live Handle, the lowest-level of the four runners (spec.md
// §7): every other runner is built on top of it.
func RunFork[A, E any](self Effect[A, E]) *Handle[A, E] {
	env := NewEnv()
	return forkWith(env, self, false)
}

// RunPromise runs self to completion and returns a Future resolving with
// self's success value, or with a plain Go error obtained by squashing
// the Failure (spec.md §7's "user-visible boundary: typed failures
// disappear into a single error channel").
func RunPromise[A, E any](self Effect[A, E]) *Future[A] {
	future := newFuture[A]()
	h := RunFork(self)
	h.AddObserver(func(r Result[A, E]) {
		if failure, failed := r.Failure(); failed {
			var zero A
			future.complete(zero, squash(failure))
			return
		}
		value, _ := r.Value()
		future.complete(value, nil)
	})
	return future
}

// RunSync runs self assuming it never suspends (spec.md §7): if self
// completes synchronously, RunSync returns its success value or panics
// with the Failure value itself (a Failure is an error, and callers can
// inspect its Tag); if self has not settled by the time
// RunEffect's call returns, RunSync panics instead of blocking, since
// blocking would silently turn a programmer error (running an
// asynchronous Effect through the synchronous runner) into a hang.
func RunSync[A, E any](self Effect[A, E]) A {
	r, ok := RunSyncResult(self)
	if !ok {
		panic("micro: RunSync: effect did not complete synchronously")
	}
	if failure, failed := r.Failure(); failed {
		panic(failure)
	}
	value, _ := r.Value()
	return value
}

// RunSyncResult is RunSync's non-panicking counterpart: it reports the
// Result and true if self settled synchronously, or the zero Result and
// false if it did not settle by the time RunEffect's call returned.
func RunSyncResult[A, E any](self Effect[A, E]) (Result[A, E], bool) {
	env := NewEnv()
	var result Result[A, E]
	var settled bool
	RunEffect(self, env, func(r Result[A, E]) {
		result = r
		settled = true
	})
	return result, settled
}
