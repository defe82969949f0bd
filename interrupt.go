// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package micro

// Interruptible marks self's region as interruptible again after an
// enclosing Uninterruptible/UninterruptibleMask, restoring observation of
// the ambient AbortSignal (spec.md §4.3).
func Interruptible[A, E any](self Effect[A, E]) Effect[A, E] {
	return Make(func(env *Env, k func(Result[A, E])) {
		RunEffect(self, WithRef(env, RefInterruptible, true), k)
	})
}

// Uninterruptible runs self in a region that does not observe the
// ambient AbortSignal: an abort arriving while self is running does not
// cut it short. self still runs against the same signal value (so a
// nested async bridge could choose to watch it directly), but Make's
// own pre-flight abort check and Async's own listener registration are
// both suppressed by RefInterruptible being false.
func Uninterruptible[A, E any](self Effect[A, E]) Effect[A, E] {
	return Make(func(env *Env, k func(Result[A, E])) {
		RunEffect(self, WithRef(env, RefInterruptible, false), k)
	})
}

// UninterruptibleMask runs f's result in an uninterruptible region,
// passing f a restore function that reinstates the Env's interruptible
// setting as it was at the point UninterruptibleMask was entered
// (spec.md §4.3's "mask/restore" pair, allowing a finalizer to carve out
// an interruptible window inside an otherwise masked region).
func UninterruptibleMask[A, E any](f func(restore func(Effect[A, E]) Effect[A, E]) Effect[A, E]) Effect[A, E] {
	return Make(func(env *Env, k func(Result[A, E])) {
		outer := IsInterruptible(env)
		restore := func(inner Effect[A, E]) Effect[A, E] {
			return Make(func(env2 *Env, k2 func(Result[A, E])) {
				RunEffect(inner, WithRef(env2, RefInterruptible, outer), k2)
			})
		}
		RunEffect(f(restore), WithRef(env, RefInterruptible, false), k)
	})
}
