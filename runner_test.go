// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package micro

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunSyncPanicsOnAsyncEffect(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
	}()
	RunSync(Sleep[string](0))
}

func TestRunSyncPanicsWithFailure(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		require.True(t, ok)
		require.EqualError(t, err, "micro: expected failure: boom")
	}()
	RunSync(Fail[int]("boom"))
}

func TestRunPromiseSquashesExpectedFailure(t *testing.T) {
	_, err := RunPromise(Fail[int]("boom")).Await()
	require.EqualError(t, err, "micro: boom")
}

func TestRunPromiseSquashesUnexpectedDefect(t *testing.T) {
	_, err := RunPromise(Die[int, string]("defect")).Await()
	var de *DefectError
	require.ErrorAs(t, err, &de)
	require.Equal(t, "defect", de.Defect)
}
