// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package micro

import "sync/atomic"

// Async bridges a callback-based operation into an Effect (spec.md §4.2).
// register is called at most once per run with a resume function that
// settles the Effect the first time it's invoked; subsequent calls are
// ignored. The settle-once guard is an atomic CAS, the same one-shot
// discipline kont's Affine.Resume enforces with its used atomic.Uintptr.
//
// register may optionally return a cleanup Effect, run if the surrounding
// scope aborts before resume is called. A nil cleanup is fine for
// operations that self-cancel or can't be cancelled.
func Async[A, E any](register func(env *Env, resume func(Result[A, E])) (cleanup Effect[struct{}, E])) Effect[A, E] {
	return Make(func(env *Env, k func(Result[A, E])) {
		var settled atomic.Bool
		var cleanupCh = make(chan Effect[struct{}, E], 1)
		signal := CurrentAbortSignal(env)
		interruptible := IsInterruptible(env)

		var listenerID ListenerID
		resume := func(r Result[A, E]) {
			if !settled.CompareAndSwap(false, true) {
				return
			}
			if interruptible {
				signal.RemoveEventListener(listenerID)
			}
			k(r)
		}

		// runCleanup forces RefInterruptible false on a derived Env
		// directly rather than wrapping cleanup in the Uninterruptible
		// combinator: Uninterruptible is itself built on Make, so its own
		// pre-flight guard would check IsInterruptible/Aborted against
		// this same already-aborted env before ever getting a chance to
		// flip the ref, and short-circuit to Aborted without running
		// cleanup's real body. Deriving the env here means cleanup's own
		// Make guard reads RefInterruptible=false up front and never
		// consults the signal at all (spec.md §4.2 step 4: "calls
		// resume(uninterruptible(cleanup >> failWith(Aborted)))" —
		// cleanup must actually run).
		runCleanup := func(cleanup Effect[struct{}, E]) {
			if cleanup.IsSet() {
				RunEffect(cleanup, WithRef(env, RefInterruptible, false), func(Result[struct{}, E]) {})
			}
		}

		if interruptible {
			listenerID = signal.AddEventListener(func(any) {
				if !settled.CompareAndSwap(false, true) {
					return
				}
				select {
				case cleanup := <-cleanupCh:
					runCleanup(cleanup)
				default:
				}
				k(Err[A](AbortedFailure[E]()))
			})
		}

		cleanup := register(env, resume)
		if settled.Load() {
			// resume or the abort listener already settled this Effect
			// while register was still running; cleanupCh was never
			// drained for us, so run cleanup ourselves.
			runCleanup(cleanup)
			return
		}
		cleanupCh <- cleanup
	})
}

// IsSet reports whether e carries a real run function, as opposed to the
// zero Effect value an unset cleanup slot holds.
func (e Effect[A, E]) IsSet() bool { return e.run != nil }
