// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package micro

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunForkJoinReturnsValue(t *testing.T) {
	h := RunFork(Succeed[string](7))
	v, err := RunPromise(h.Join()).Await()
	require.NoError(t, err)
	require.Equal(t, 7, v)
}

// fakeSleepTimer never actually fires; it only records whether Stop was
// called, so TestRunForkAbortPropagatesToSleeper can prove the abort-time
// cleanup effect really ran rather than short-circuiting.
type fakeSleepTimer struct {
	c       chan time.Time
	stopped *atomic.Bool
}

func (t fakeSleepTimer) C() <-chan time.Time { return t.c }
func (t fakeSleepTimer) Stop() bool {
	t.stopped.Store(true)
	return true
}

func TestRunForkAbortPropagatesToSleeper(t *testing.T) {
	var stopped atomic.Bool
	started := make(chan struct{})
	prev := newSleepTimer
	newSleepTimer = func(time.Duration) sleepTimer {
		close(started)
		return fakeSleepTimer{c: make(chan time.Time), stopped: &stopped}
	}
	defer func() { newSleepTimer = prev }()

	h := RunFork(Sleep[string](time.Hour))
	// Abort only once the sleeper has created its timer: an abort that
	// lands before the fork starts is caught by Make's pre-abort guard,
	// Sleep's body never runs, and there is no timer to stop.
	<-started
	h.Abort("cancel")
	r, err := RunPromise(h.Join()).Await()
	require.Error(t, err)
	require.Zero(t, r)
	require.ErrorIs(t, err, ErrAborted)
	require.True(t, stopped.Load(), "abort cleanup must run timer.Stop() under Uninterruptible, not short-circuit to Aborted")
}

func TestAddObserverAfterSettleFiresImmediately(t *testing.T) {
	h := RunFork(Succeed[string](1))
	_, err := RunPromise(h.Join()).Await() // block until the fork has settled
	require.NoError(t, err)

	_, settled := h.UnsafePoll()
	require.True(t, settled)

	var got int
	done := make(chan struct{})
	h.AddObserver(func(r Result[int, string]) {
		v, _ := r.Value()
		got = v
		close(done)
	})
	<-done
	require.Equal(t, 1, got)
}
