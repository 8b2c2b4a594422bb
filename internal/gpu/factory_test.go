package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewBackend(t *testing.T) {
	testCases := []struct {
		kind Kind
		want Kind
	}{
		{KindAuto, KindCPU},
		{"", KindCPU},
		{KindCPU, KindCPU},
		{KindSerial, KindSerial},
	}

	for _, tc := range testCases {
		t.Run(string(tc.kind), func(t *testing.T) {
			backend, err := NewBackend(zap.NewNop(), tc.kind, testOptions())
			require.NoError(t, err)
			assert.NotNil(t, backend)
			assert.Equal(t, tc.want, backend.GetDeviceInfo().Kind)

			require.NoError(t, backend.Initialize())
			assert.NoError(t, backend.Cleanup())
		})
	}

	_, err := NewBackend(zap.NewNop(), "cuda", testOptions())
	assert.Error(t, err)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("serial")
	require.NoError(t, err)
	assert.Equal(t, KindSerial, k)

	k, err = ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, KindAuto, k)

	_, err = ParseKind("metal")
	assert.Error(t, err)
}
