// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package micro

import (
	"sync"
	"time"
)

// ErrTimedOut is the defect Timeout fails with, as Unexpected(ErrTimedOut{});
// at a Go-error boundary squash wraps it in a *DefectError.
type ErrTimedOut struct{}

func (ErrTimedOut) Error() string { return "micro: timed out" }

// Timeout races self against a d-long Sleep: if self doesn't settle
// first, self is aborted and the returned Effect fails with
// Unexpected(ErrTimedOut{}); if self settles first, the race's loser
// (the sleep) is aborted instead and its result discarded.
func Timeout[A, E any](self Effect[A, E], d time.Duration) Effect[A, E] {
	return Make(func(env *Env, k func(Result[A, E])) {
		work := Fork(self)
		RunEffect(work, env, func(hr Result[*Handle[A, E], E]) {
			h, _ := hr.Value()
			clock := Fork(Sleep[E](d))
			RunEffect(clock, env, func(cr Result[*Handle[struct{}, E], E]) {
				timer, _ := cr.Value()

				var once sync.Once
				finish := func(f func()) { once.Do(f) }

				h.AddObserver(func(r Result[A, E]) {
					finish(func() {
						timer.Abort(abortedSentinel{})
						k(r)
					})
				})
				timer.AddObserver(func(Result[struct{}, E]) {
					finish(func() {
						h.Abort(abortedSentinel{})
						k(Err[A](Unexpected[E](ErrTimedOut{})))
					})
				})
			})
		})
	})
}
