// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package micro

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRaceReturnsFasterWinner(t *testing.T) {
	fast := Succeed[string](1)
	slow := ZipRight(Sleep[string](time.Hour), Succeed[string](2))
	v, err := RunPromise(Race(fast, slow)).Await()
	require.NoError(t, err)
	require.Equal(t, 1, v)
}

func TestTimeoutFailsSlowEffect(t *testing.T) {
	slow := ZipRight(Sleep[string](time.Hour), Succeed[string](1))
	_, err := RunPromise(Timeout(slow, time.Millisecond)).Await()
	require.Error(t, err)
	var te *DefectError
	require.ErrorAs(t, err, &te)
	require.Equal(t, ErrTimedOut{}, te.Defect)
}

func TestTimeoutLetsFastEffectThrough(t *testing.T) {
	fast := Succeed[string](5)
	v, err := RunPromise(Timeout(fast, time.Hour)).Await()
	require.NoError(t, err)
	require.Equal(t, 5, v)
}
