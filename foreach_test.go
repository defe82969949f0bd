// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package micro

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestForEachSequentialPreservesOrder(t *testing.T) {
	items := []int{1, 2, 3, 4}
	e := ForEach(items, func(n int) Effect[int, string] {
		return Succeed[string](n * n)
	})
	out := RunSync(e)
	require.Equal(t, []int{1, 4, 9, 16}, out)
}

func TestForEachSequentialStopsOnFirstFailure(t *testing.T) {
	items := []int{1, 2, 3}
	var ran []int
	e := ForEach(items, func(n int) Effect[int, string] {
		ran = append(ran, n)
		if n == 2 {
			return Fail[int]("bad")
		}
		return Succeed[string](n)
	})
	r, _ := RunSyncResult(e)
	require.True(t, r.IsErr())
	require.Equal(t, []int{1, 2}, ran)
}

func TestForEachSequentialLongSynchronousChainDoesNotGrowStack(t *testing.T) {
	const n = 100_000
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	e := ForEach(items, func(n int) Effect[int, string] {
		return Succeed[string](n * 2)
	})
	out := RunSync(e)
	require.Equal(t, n, len(out))
	require.Equal(t, 0, out[0])
	require.Equal(t, (n-1)*2, out[n-1])
}

func TestForEachConcurrentCollectsAllResults(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	e := ProvideConcurrency(ForEach(items, func(n int) Effect[int, string] {
		return Succeed[string](n * 2)
	}), Unbounded)
	v, err := RunPromise(e).Await()
	require.NoError(t, err)
	require.Equal(t, []int{2, 4, 6, 8, 10}, v)
}

func TestForEachConcurrentPropagatesFirstFailure(t *testing.T) {
	items := []int{1, 2, 3}
	e := ProvideConcurrency(ForEach(items, func(n int) Effect[int, string] {
		if n == 2 {
			return Fail[int]("bad")
		}
		return Succeed[string](n)
	}), Unbounded)
	_, err := RunPromise(e).Await()
	require.Error(t, err)
}
