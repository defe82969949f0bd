// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package micro

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMapTransformsSuccess(t *testing.T) {
	e := Map(Succeed[string](2), func(n int) int { return n * 10 })
	v := RunSync(e)
	require.Equal(t, 20, v)
}

func TestMapShortCircuitsOnFailure(t *testing.T) {
	e := Map(Fail[int]("bad"), func(n int) int { return n * 10 })
	r, _ := RunSyncResult(e)
	require.True(t, r.IsErr())
}

func TestFlatMapSequences(t *testing.T) {
	e := FlatMap(Succeed[string](2), func(n int) Effect[int, string] {
		return Succeed[string](n + 1)
	})
	require.Equal(t, 3, RunSync(e))
}

func TestAndThenDispatchesByShape(t *testing.T) {
	asEffect := AndThen[int, string, int](Succeed[string](1), Succeed[string](9))
	require.Equal(t, 9, RunSync(asEffect))

	asFlatMap := AndThen[int, string, int](Succeed[string](1), func(n int) Effect[int, string] {
		return Succeed[string](n + 1)
	})
	require.Equal(t, 2, RunSync(asFlatMap))

	asMap := AndThen[int, string, int](Succeed[string](1), func(n int) int { return n + 100 })
	require.Equal(t, 101, RunSync(asMap))

	asConst := AndThen[int, string, int](Succeed[string](1), 7)
	require.Equal(t, 7, RunSync(asConst))
}

func TestTapRunsForEffectAndKeepsValue(t *testing.T) {
	var seen int
	e := Tap(Succeed[string](5), func(n int) Effect[any, string] {
		seen = n
		return Succeed[string](any(nil))
	})
	require.Equal(t, 5, RunSync(e))
	require.Equal(t, 5, seen)
}

func TestAsResultNeverFails(t *testing.T) {
	e := AsResult(Fail[int]("nope"))
	r := RunSync(e)
	require.True(t, r.IsErr())
}

func TestDelayRunsSelfAfterSleepElapses(t *testing.T) {
	e := Delay(Succeed[string](9), time.Millisecond)
	v, err := RunPromise(e).Await()
	require.NoError(t, err)
	require.Equal(t, 9, v)
}

func TestFlatMapChainOfSynchronousEffectsDoesNotGrowStack(t *testing.T) {
	const n = 100_000
	e := Succeed[string](0)
	for i := 0; i < n; i++ {
		e = FlatMap(e, func(v int) Effect[int, string] {
			return Succeed[string](v + 1)
		})
	}
	require.Equal(t, n, RunSync(e))
}
