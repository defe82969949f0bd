// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package micro

import "sync"

// Handle is the live control object Fork returns: a forked computation's
// result, once it settles, is delivered to every observer registered
// before or after settlement — the same "adding after settlement invokes
// immediately" discipline AbortSignal.AddEventListener documents, applied
// here to a result instead of an abort reason (spec.md §5.3).
type Handle[A, E any] struct {
	mu         sync.Mutex
	settled    bool
	result     Result[A, E]
	observers  []func(Result[A, E])
	controller *AbortController
	daemon     bool
}

// Fork starts self running on its own goroutine immediately, returning a
// Handle that can be awaited, observed, or aborted independently of the
// forking computation's own lifecycle. self runs under a child
// AbortController linked one-way to the parent's signal: aborting the
// parent aborts the fork, but aborting (or awaiting) the fork never
// affects the parent.
func Fork[A, E any](self Effect[A, E]) Effect[*Handle[A, E], E] {
	return Make(func(env *Env, k func(Result[*Handle[A, E], E])) {
		k(Ok[E](forkWith(env, self, false)))
	})
}

// ForkDaemon is Fork without the parent-to-child abort link: a daemon
// fork outlives the scope that created it and keeps running even after
// its parent is aborted, until it settles or is aborted directly via its
// own Handle.
func ForkDaemon[A, E any](self Effect[A, E]) Effect[*Handle[A, E], E] {
	return Make(func(env *Env, k func(Result[*Handle[A, E], E])) {
		k(Ok[E](forkWith(env, self, true)))
	})
}

func forkWith[A, E any](env *Env, self Effect[A, E], daemon bool) *Handle[A, E] {
	childController := NewAbortController()
	h := &Handle[A, E]{controller: childController, daemon: daemon}

	var parentListener ListenerID
	if !daemon && IsInterruptible(env) {
		parentSignal := CurrentAbortSignal(env)
		parentListener = parentSignal.AddEventListener(func(reason any) {
			childController.Abort(reason)
		})
	}

	// refTrampoline resets to nil: the fork runs on its own goroutine, so
	// it must not share a trampoline instance with whatever chain is
	// forking it (that chain may itself still be mid-flight concurrently).
	childEnv := WithRef(WithRef(WithRef(env, RefAbortController, childController), RefAbortSignal, childController.Signal()), refTrampoline, nil)

	logFork(daemon)
	scheduleTick(func() {
		RunEffect(self, childEnv, func(r Result[A, E]) {
			if !daemon && IsInterruptible(env) {
				CurrentAbortSignal(env).RemoveEventListener(parentListener)
			}
			_, failed := r.Failure()
			logHandleSettled(failed, childController.Signal().Aborted())
			h.settle(r)
		})
	})
	return h
}

func (h *Handle[A, E]) settle(r Result[A, E]) {
	h.mu.Lock()
	if h.settled {
		h.mu.Unlock()
		return
	}
	h.settled = true
	h.result = r
	observers := h.observers
	h.observers = nil
	h.mu.Unlock()
	for _, o := range observers {
		o(r)
	}
}

// UnsafePoll returns the fork's result and true if it has already
// settled, or the zero Result and false otherwise. Named UnsafePoll
// because, like spec.md's own unsafe peek, it offers no synchronization
// guarantee about when the fork will settle relative to this call.
func (h *Handle[A, E]) UnsafePoll() (Result[A, E], bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result, h.settled
}

// AddObserver registers fn to run with the fork's result once it
// settles, or immediately if it already has.
func (h *Handle[A, E]) AddObserver(fn func(Result[A, E])) {
	h.mu.Lock()
	if h.settled {
		r := h.result
		h.mu.Unlock()
		fn(r)
		return
	}
	h.observers = append(h.observers, fn)
	h.mu.Unlock()
}

// Abort interrupts the forked computation. Idempotent; a no-op once the
// fork has already settled.
func (h *Handle[A, E]) Abort(reason any) {
	h.controller.Abort(reason)
}

// Await returns an Effect that resolves with the fork's Result once it
// settles, as data rather than as a propagated failure — the Handle
// analogue of AsResult.
func (h *Handle[A, E]) Await() Effect[Result[A, E], E] {
	return MakeNoAbort(func(_ *Env, k func(Result[Result[A, E], E])) {
		h.AddObserver(func(r Result[A, E]) {
			k(Ok[E](r))
		})
	})
}

// Join returns an Effect that resolves with the fork's success or
// propagates its failure, the same short-circuiting semantics any other
// sequenced Effect has.
func (h *Handle[A, E]) Join() Effect[A, E] {
	return MakeNoAbort(func(_ *Env, k func(Result[A, E])) {
		h.AddObserver(k)
	})
}
