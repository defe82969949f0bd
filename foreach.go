// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package micro

import (
	"sync"

	"github.com/bits-and-blooms/bitset"
)

// ForEach maps f over items, honoring the Env's RefConcurrency setting
// (spec.md §5.2): Sequential runs items one at a time via an explicit
// loop rather than recursion, so a very long slice doesn't grow the Go
// stack the way a naive recursive FlatMap chain would; any other
// concurrency setting dispatches to forEachConcurrent.
func ForEach[A, E, B any](items []A, f func(A) Effect[B, E]) Effect[[]B, E] {
	return Make(func(env *Env, k func(Result[[]B, E])) {
		conc := GetRef(env, RefConcurrency)
		if conc.Mode == ConcurrencyFixed && conc.N == 1 {
			forEachSequential(env, items, f, k)
			return
		}
		forEachConcurrent(env, items, f, conc, k)
	})
}

// forEachSequential walks items with an explicit loop, not recursion: the
// running flag below detects whether f(items[idx])'s RunEffect call
// settled synchronously (in which case the result is parked in
// syncResult for the for loop itself to pick up) or asynchronously (in
// which case the callback drives the next step itself, since the loop
// that started it has already returned). Because ForEach's own body
// already runs on effect.go's runLoop trampoline, RunEffect queues each
// item's Effect instead of running it inline, so in practice every item
// settles after RunEffect returns and takes the callback path; the Go
// call stack still stays flat, because runLoop drains that queued work
// iteratively rather than by recursion.
func forEachSequential[A, E, B any](env *Env, items []A, f func(A) Effect[B, E], k func(Result[[]B, E])) {
	out := make([]B, len(items))
	n := len(items)
	i := 0

	running := false
	settledSync := false
	var syncResult Result[B, E]

	var advance func()
	advance = func() {
		for {
			if i == n {
				k(Ok[E](out))
				return
			}
			idx := i
			running = true
			settledSync = false
			RunEffect(f(items[idx]), env, func(r Result[B, E]) {
				if running {
					settledSync = true
					syncResult = r
					return
				}
				if failure, failed := r.Failure(); failed {
					k(Err[[]B](failure))
					return
				}
				value, _ := r.Value()
				out[idx] = value
				i++
				advance()
			})
			running = false
			if !settledSync {
				return
			}
			if failure, failed := syncResult.Failure(); failed {
				k(Err[[]B](failure))
				return
			}
			value, _ := syncResult.Value()
			out[idx] = value
			i++
		}
	}
	advance()
}

// forEachConcurrent starts up to conc's limit of mappers at once, tracks
// which indices are still in flight with a bitset (the real bitset
// dependency the pack's failsafe-go stack pulls in, repurposed here as
// compact in-flight bookkeeping instead of a plain []bool), and aborts
// the remaining in-flight work the first time any mapper fails. After a
// failure no further items are started; once every started mapper has
// reported, the first failure is emitted.
func forEachConcurrent[A, E, B any](env *Env, items []A, f func(A) Effect[B, E], conc Concurrency, k func(Result[[]B, E])) {
	n := len(items)
	if n == 0 {
		k(Ok[E]([]B{}))
		return
	}
	limit := n
	if conc.Mode == ConcurrencyFixed && conc.N > 0 && conc.N < n {
		limit = conc.N
	}

	childController := NewAbortController()
	parentSignal := CurrentAbortSignal(env)
	var parentListener ListenerID
	if IsInterruptible(env) {
		parentListener = parentSignal.AddEventListener(func(reason any) {
			childController.Abort(reason)
		})
	}
	childEnv := WithRef(WithRef(env, RefAbortController, childController), RefAbortSignal, childController.Signal())

	var mu sync.Mutex
	out := make([]B, n)
	inFlight := bitset.New(uint(n))
	var firstFailure Failure[E]
	failed := false
	remaining := n
	next := limit // index of the next item to dispatch once a slot frees up
	done := false

	var settle func()
	settle = func() {
		if done {
			return
		}
		done = true
		if IsInterruptible(env) {
			parentSignal.RemoveEventListener(parentListener)
		}
		if failed {
			k(Err[[]B](firstFailure))
			return
		}
		k(Ok[E](out))
	}

	var dispatch func(i int)
	dispatch = func(i int) {
		mu.Lock()
		inFlight.Set(uint(i))
		mu.Unlock()
		// Each item gets its own trampoline (refTrampoline reset to nil):
		// items genuinely race on separate goroutines once f forks or
		// uses Async, so sharing one trampoline across them would let
		// concurrent completions fight over the same running/pending
		// fields for unrelated chains.
		itemEnv := WithRef(childEnv, refTrampoline, nil)
		RunEffect(f(items[i]), itemEnv, func(r Result[B, E]) {
			mu.Lock()
			inFlight.Clear(uint(i))
			remaining--
			if failure, isFailed := r.Failure(); isFailed {
				if !failed {
					failed = true
					firstFailure = failure
					childController.Abort(abortedSentinel{})
				}
			} else {
				value, _ := r.Value()
				out[i] = value
			}
			var dispatchNext = -1
			if !failed && next < n {
				dispatchNext = next
				next++
			}
			doneNow := remaining == 0 || (failed && inFlight.None())
			mu.Unlock()

			if dispatchNext >= 0 {
				dispatch(dispatchNext)
			}
			if doneNow {
				settle()
			}
		})
	}

	for i := 0; i < limit; i++ {
		mu.Lock()
		stop := failed
		mu.Unlock()
		if stop {
			break
		}
		dispatch(i)
	}
}
