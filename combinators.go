// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package micro

import "time"

// Combinators sequencing Effect values.
//
// Minimal definition: FlatMap and Succeed are necessary and sufficient.
// Map, Tap, AndThen, ZipRight, As and AsVoid are derived operations kept
// as optimizations avoiding intermediate closure allocations, the same
// tradeoff monad.go documents for Bind/Map/Then.

// Map applies a pure function to a successful result of self, short-
// circuiting on failure.
//
// Allocation note: Map is equivalent to FlatMap(self, compose(Succeed, f))
// but avoids the intermediate Succeed closure.
func Map[A, E, B any](self Effect[A, E], f func(A) B) Effect[B, E] {
	return Make(func(env *Env, k func(Result[B, E])) {
		RunEffect(self, env, func(r Result[A, E]) {
			if failure, failed := r.Failure(); failed {
				k(Err[B](failure))
				return
			}
			value, _ := r.Value()
			k(Ok[E](f(value)))
		})
	})
}

// FlatMap sequences self into f, running the Effect f produces with
// self's successful value. A failure from self propagates without
// invoking f.
//
// The RunEffect(f(value), env, k) call below is this combinator's resume
// path: chaining FlatMap many levels deep and having every level resolve
// synchronously would otherwise recurse one Go stack frame per level.
// That can't be fixed locally — the recursion spans separate FlatMap
// closures, not a loop inside this one — so the re-entrancy guard lives
// once, centrally, in effect.go's runLoop, and every RunEffect call
// (this one included) goes through it.
func FlatMap[A, E, B any](self Effect[A, E], f func(A) Effect[B, E]) Effect[B, E] {
	return Make(func(env *Env, k func(Result[B, E])) {
		RunEffect(self, env, func(r Result[A, E]) {
			if failure, failed := r.Failure(); failed {
				k(Err[B](failure))
				return
			}
			value, _ := r.Value()
			RunEffect(f(value), env, k)
		})
	})
}

// AndThen sequences self into next using a single dispatch point whose
// shape is decided at call time by the concrete type of next, the same
// type-tag technique kont's Frame interface uses to distinguish frame
// kinds by an unexported marker method rather than reflection.
//
// next may be:
//   - Effect[B, E]: run unconditionally after self succeeds, discarding
//     self's value (equivalent to ZipRight).
//   - func(A) Effect[B, E]: equivalent to FlatMap.
//   - func(A) B: equivalent to Map.
//   - B: a constant value, equivalent to As.
func AndThen[A, E, B any](self Effect[A, E], next any) Effect[B, E] {
	switch n := next.(type) {
	case Effect[B, E]:
		return ZipRight(self, n)
	case func(A) Effect[B, E]:
		return FlatMap(self, n)
	case func(A) B:
		return Map(self, n)
	default:
		return As[A, E, B](self, next.(B))
	}
}

// Tap runs f for its effect only, discarding f's result and propagating
// self's own value onward. Failures from either self or f propagate.
func Tap[A, E any](self Effect[A, E], f func(A) Effect[any, E]) Effect[A, E] {
	return Make(func(env *Env, k func(Result[A, E])) {
		RunEffect(self, env, func(r Result[A, E]) {
			if _, failed := r.Failure(); failed {
				k(r)
				return
			}
			a, _ := r.Value()
			RunEffect(f(a), env, func(r2 Result[any, E]) {
				if failure, failed := r2.Failure(); failed {
					k(Err[A](failure))
					return
				}
				k(Ok[E](a))
			})
		})
	})
}

// ZipRight runs self then next, discarding self's result and returning
// next's. Both must succeed.
func ZipRight[A, E, B any](self Effect[A, E], next Effect[B, E]) Effect[B, E] {
	return Make(func(env *Env, k func(Result[B, E])) {
		RunEffect(self, env, func(r Result[A, E]) {
			if failure, failed := r.Failure(); failed {
				k(Err[B](failure))
				return
			}
			RunEffect(next, env, k)
		})
	})
}

// As replaces a successful result of self with the constant b.
func As[A, E, B any](self Effect[A, E], b B) Effect[B, E] {
	return Map(self, func(A) B { return b })
}

// AsVoid discards a successful result of self.
func AsVoid[A, E any](self Effect[A, E]) Effect[struct{}, E] {
	return As[A, E, struct{}](self, struct{}{})
}

// Delay runs self only after d has elapsed (spec.md §4.2:
// delay(self,d) = zipRight(sleep(d), self)).
func Delay[A, E any](self Effect[A, E], d time.Duration) Effect[A, E] {
	return ZipRight(Sleep[E](d), self)
}

// AsResult reifies self's outcome as a value, never failing itself:
// both self's success and its failure become an Ok(Result[A,E]) of the
// returned Effect (spec.md §4's "catch everything as data" combinator).
func AsResult[A, E any](self Effect[A, E]) Effect[Result[A, E], E] {
	return MakeNoAbort(func(env *Env, k func(Result[Result[A, E], E])) {
		RunEffect(self, env, func(r Result[A, E]) {
			k(Ok[E](r))
		})
	})
}
