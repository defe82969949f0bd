// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package micro

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSucceedResolvesSynchronously(t *testing.T) {
	env := NewEnv()
	var got Result[int, string]
	RunEffect(Succeed[string](42), env, func(r Result[int, string]) {
		got = r
	})
	require.True(t, got.IsOk())
	v, ok := got.Value()
	require.True(t, ok)
	require.Equal(t, 42, v)
}

func TestFailPropagatesExpected(t *testing.T) {
	env := NewEnv()
	var got Result[int, string]
	RunEffect(Fail[int]("boom"), env, func(r Result[int, string]) {
		got = r
	})
	require.True(t, got.IsErr())
	f, failed := got.Failure()
	require.True(t, failed)
	require.Equal(t, FailureExpected, f.Tag())
	e, ok := f.AsExpected()
	require.True(t, ok)
	require.Equal(t, "boom", e)
}

func TestMakeRecoversPanicAsUnexpected(t *testing.T) {
	boom := Make(func(_ *Env, k func(Result[int, string])) {
		panic("kaboom")
	})
	r, settled := RunSyncResult(boom)
	require.True(t, settled)
	f, failed := r.Failure()
	require.True(t, failed)
	require.Equal(t, FailureUnexpected, f.Tag())
	defect, ok := f.Defect()
	require.True(t, ok)
	require.Equal(t, "kaboom", defect)
}

func TestMakeShortCircuitsOnPreAbortedSignal(t *testing.T) {
	controller := NewAbortController()
	controller.Abort("cancelled")
	env := WithRef(WithRef(NewEnv(), RefAbortController, controller), RefAbortSignal, controller.Signal())

	ran := false
	e := Make(func(_ *Env, k func(Result[int, string])) {
		ran = true
		k(Ok[string](1))
	})
	r, _ := RunSyncResult(RunEffectWithEnv(e, env))
	require.False(t, ran)
	f, failed := r.Failure()
	require.True(t, failed)
	require.True(t, f.IsAborted())
}

// RunEffectWithEnv is a tiny test helper lifting an already-built
// Effect/Env pair into an Effect that ignores the Env RunSyncResult
// would otherwise construct fresh, so the pre-aborted signal installed
// above is actually observed.
func RunEffectWithEnv[A, E any](e Effect[A, E], env *Env) Effect[A, E] {
	return Make(func(_ *Env, k func(Result[A, E])) {
		RunEffect(e, env, k)
	})
}
