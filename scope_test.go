// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package micro

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAcquireUseReleaseRunsReleaseInLIFOOrder(t *testing.T) {
	var order []string
	acquireLog := func(name string) Effect[string, string] {
		return Sync[string](func() string {
			order = append(order, "acquire:"+name)
			return name
		})
	}
	releaseLog := func(name string) func(string, any) Effect[struct{}, any] {
		return func(string, any) Effect[struct{}, any] {
			return Sync[any](func() struct{} {
				order = append(order, "release:"+name)
				return struct{}{}
			})
		}
	}

	e := AcquireUseRelease(acquireLog("a"), func(string) Effect[string, string] {
		return AcquireUseRelease(acquireLog("b"), func(string) Effect[string, string] {
			return Succeed[string]("b")
		}, releaseLog("b"))
	}, releaseLog("a"))

	v := RunSync(e)
	require.Equal(t, "b", v)
	require.Equal(t, []string{"acquire:a", "acquire:b", "release:b", "release:a"}, order)
}

func TestAcquireUseReleaseRunsReleaseOnceWithUseFailure(t *testing.T) {
	var touched Result[string, string]
	var calls int

	acquire := Succeed[string]("conn")
	use := func(string) Effect[string, string] {
		return Fail[string]("boom")
	}
	release := func(_ string, closeResult any) Effect[struct{}, any] {
		calls++
		touched = closeResult.(Result[string, string])
		return Sync[any](func() struct{} { return struct{}{} })
	}

	_, err := RunPromise(AcquireUseRelease(acquire, use, release)).Await()
	require.Error(t, err)
	require.Equal(t, 1, calls)
	require.True(t, touched.IsErr())
	failure, failed := touched.Failure()
	require.True(t, failed)
	expected, ok := failure.AsExpected()
	require.True(t, ok)
	require.Equal(t, "boom", expected)
}

func TestScopeCloseIsIdempotent(t *testing.T) {
	s := NewScope()
	env := NewEnv()
	calls := 0
	s.AddFinalizer(env, func(*Env, any) Effect[struct{}, any] {
		return Sync[any](func() struct{} {
			calls++
			return struct{}{}
		})
	})
	RunSync(s.Close(env, nil))
	RunSync(s.Close(env, nil))
	require.Equal(t, 1, calls)
}

func TestAddFinalizerAfterCloseRunsImmediatelyWithStoredResult(t *testing.T) {
	s := NewScope()
	env := NewEnv()
	RunSync(s.Close(env, "closed-value"))

	var got any
	s.AddFinalizer(env, func(_ *Env, closeResult any) Effect[struct{}, any] {
		got = closeResult
		return Sync[any](func() struct{} { return struct{}{} })
	})
	require.Equal(t, "closed-value", got)
}
