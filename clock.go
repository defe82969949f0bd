// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package micro

import "time"

// sleepTimer is the subset of *time.Timer Sleep depends on, narrowed to
// an interface so tests can substitute a fake that records whether Stop
// was actually called (e.g. to verify abort cleanup runs).
type sleepTimer interface {
	C() <-chan time.Time
	Stop() bool
}

type realSleepTimer struct{ *time.Timer }

func (t realSleepTimer) C() <-chan time.Time { return t.Timer.C }

// newSleepTimer is a seam Sleep calls through instead of time.NewTimer
// directly, swapped out in tests.
var newSleepTimer = func(d time.Duration) sleepTimer {
	return realSleepTimer{time.NewTimer(d)}
}

// Sleep suspends for d, succeeding with struct{}{} once it elapses.
// Interruption during the sleep resolves the Effect as Aborted instead,
// and stops the underlying timer.
func Sleep[E any](d time.Duration) Effect[struct{}, E] {
	return Async(func(env *Env, resume func(Result[struct{}, E])) Effect[struct{}, E] {
		timer := newSleepTimer(d)
		go func() {
			<-timer.C()
			resume(Ok[E](struct{}{}))
		}()
		return Sync[E](func() struct{} {
			timer.Stop()
			return struct{}{}
		})
	})
}

// Never returns an Effect that never settles on its own; it can only be
// observed to complete via interruption (spec.md §4.2's "never" constant).
func Never[A, E any]() Effect[A, E] {
	return Async(func(env *Env, resume func(Result[A, E])) Effect[struct{}, E] {
		return Effect[struct{}, E]{}
	})
}
