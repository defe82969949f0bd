// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package micro

import "sync"

// Effect is the opaque continuation-passing computation value of
// spec.md §3: given an Env it eventually delivers exactly one
// Result[A, E] to a continuation. It is the Go-shaped analogue of kont's
// Cont[Resumed, A] func(func(A) Resumed) Resumed, generalized with an
// explicit Env parameter (standing in for kont's implicit dynamic scope)
// and a typed failure channel in place of kont's untyped Resumed.
//
// Effect is a pure value: running it twice with the same Env is
// independent (no shared mutable state lives inside the closure itself).
type Effect[A, E any] struct {
	run func(env *Env, k func(Result[A, E]))
}

// microEffectMarker is a private marker method on Effect, the same
// private-marker-method technique kont's Frame interface uses to
// distinguish frame kinds (frame.go's unexported frame() method). AndThen
// does not call it: it detects an Effect argument with a type switch on
// the concrete Effect[B, E] type.
func (Effect[A, E]) microEffectMarker() {}

// Make is the single low-level builder every public constructor and
// combinator in this module funnels through. It installs the two
// mandatory guards of spec.md §4.1:
//
//  1. If the Env is interruptible and its AbortSignal is already aborted,
//     k is invoked with Err(AbortedFailure) without running body.
//  2. Any panic raised synchronously by body is recovered and converted
//     to Err(Unexpected(recovered)).
func Make[A, E any](body func(env *Env, k func(Result[A, E]))) Effect[A, E] {
	return Effect[A, E]{run: func(env *Env, k func(Result[A, E])) {
		if IsInterruptible(env) && CurrentAbortSignal(env).Aborted() {
			k(Err[A](AbortedFailure[E]()))
			return
		}
		runGuarded(env, k, body)
	}}
}

// MakeNoAbort omits the pre-abort check Make installs, keeping only the
// panic-to-Unexpected conversion. Used by AsResult and by Handle's Await
// and Join, which must deliver their outcome even when the Env's signal
// has already fired. Uninterruptible and UninterruptibleMask are built on
// Make, not on MakeNoAbort, and install no fresh signal.
func MakeNoAbort[A, E any](body func(env *Env, k func(Result[A, E]))) Effect[A, E] {
	return Effect[A, E]{run: func(env *Env, k func(Result[A, E])) {
		runGuarded(env, k, body)
	}}
}

// runGuarded invokes body, converting a synchronous panic into
// Err(Unexpected(recovered)) delivered to k instead of propagating. Only
// panics raised directly by body, before it hands off to k, are treated
// as defects; a panic from code that runs after k was already called
// (e.g. inside a caller's continuation) is that caller's bug and
// propagates normally rather than being swallowed here.
func runGuarded[A, E any](env *Env, k func(Result[A, E]), body func(env *Env, k func(Result[A, E]))) {
	called := false
	defer func() {
		if r := recover(); r != nil {
			if !called {
				k(Err[A](Unexpected[E](r)))
				return
			}
			panic(r)
		}
	}()
	body(env, func(r Result[A, E]) {
		called = true
		k(r)
	})
}

// refTrampoline holds the per-chain trampoline runLoop installs the first
// time RunEffect sees an Env that doesn't carry one yet. It is unexported:
// nothing outside this file ever reads or writes it directly, it only
// ever flows along with whatever Env a combinator already threads through
// its nested RunEffect calls.
var refTrampoline = NewRef[*trampoline]("micro/trampoline", nil)

// trampoline is runLoop's re-entrancy guard, one per independent
// synchronous execution chain (a root RunSync/RunPromise call, one fork's
// goroutine, or one forEachConcurrent dispatch). Combinators like FlatMap
// and ZipRight call RunEffect directly from inside another Effect's own
// synchronous continuation; without this, a long chain that keeps
// resolving synchronously (spec.md §5, §9) recurses one Go stack frame
// per link. running marks "a runLoop call for this chain is already on
// the stack"; pending is the next link's work, queued instead of invoked
// so the outermost runLoop's own loop can drive it at its own stack
// depth.
type trampoline struct {
	mu      sync.Mutex
	running bool
	pending func()
}

// RunEffect is the single entry point for executing an Effect, named
// after spec.md §1's "single entry point for running". It routes through
// runLoop so chains of synchronously-settling Effects iterate instead of
// recursing.
func RunEffect[A, E any](e Effect[A, E], env *Env, k func(Result[A, E])) {
	tr := GetRef(env, refTrampoline)
	if tr == nil {
		tr = &trampoline{}
		env = WithRef(env, refTrampoline, tr)
	}
	runLoop(tr, env, e, k)
}

// runLoop is the trampoline every RunEffect call drives. If tr is already
// running (this call is happening reentrantly, synchronously, from
// within e2.run for some outer e2 still on the stack), the work is
// stashed as tr.pending and handed back to the loop below instead of
// being executed here — that's what keeps the Go call stack flat. The
// outermost (non-reentrant) call runs e.run directly, then drains
// whatever pending work synchronous continuations queued up, one link at
// a time, until nothing remains.
func runLoop[A, E any](tr *trampoline, env *Env, e Effect[A, E], k func(Result[A, E])) {
	tr.mu.Lock()
	if tr.running {
		prev := tr.pending
		tr.pending = func() {
			e.run(env, k)
			if prev != nil {
				prev()
			}
		}
		tr.mu.Unlock()
		return
	}
	tr.running = true
	tr.mu.Unlock()

	e.run(env, k)

	for {
		tr.mu.Lock()
		next := tr.pending
		tr.pending = nil
		if next == nil {
			tr.running = false
			tr.mu.Unlock()
			return
		}
		tr.mu.Unlock()
		next()
	}
}
