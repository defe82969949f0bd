// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package micro

import "sync"

// Race runs both effects concurrently and resolves with whichever
// settles first, successfully or not; the loser is aborted and its
// eventual result discarded.
func Race[A, E any](left, right Effect[A, E]) Effect[A, E] {
	return Make(func(env *Env, k func(Result[A, E])) {
		lh := forkWith(env, left, false)
		rh := forkWith(env, right, false)

		var once sync.Once
		lh.AddObserver(func(r Result[A, E]) {
			once.Do(func() {
				rh.Abort(abortedSentinel{})
				k(r)
			})
		})
		rh.AddObserver(func(r Result[A, E]) {
			once.Do(func() {
				lh.Abort(abortedSentinel{})
				k(r)
			})
		})
	})
}

// RaceFirst is Race specialized for a slice of same-typed effects: the
// first to settle wins, every other contender is aborted.
func RaceFirst[A, E any](effects []Effect[A, E]) Effect[A, E] {
	return Make(func(env *Env, k func(Result[A, E])) {
		if len(effects) == 0 {
			k(Err[A](AbortedFailure[E]()))
			return
		}
		handles := make([]*Handle[A, E], len(effects))
		for i, eff := range effects {
			handles[i] = forkWith(env, eff, false)
		}
		var once sync.Once
		for _, h := range handles {
			h := h
			h.AddObserver(func(r Result[A, E]) {
				once.Do(func() {
					for _, other := range handles {
						if other != h {
							other.Abort(abortedSentinel{})
						}
					}
					k(r)
				})
			})
		}
	})
}
