package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortMetrics(t *testing.T) {
	t.Run("SortDurationMs", func(t *testing.T) {
		SortDurationMs.WithLabelValues("naive").Observe(1.5)
		SortDurationMs.WithLabelValues("local").Observe(0.7)

		assert.NotPanics(t, func() {
			SortDurationMs.WithLabelValues("simd").Observe(3)
		})
		assert.GreaterOrEqual(t, testutil.CollectAndCount(SortDurationMs), 3)
	})

	t.Run("SortPassesTotal", func(t *testing.T) {
		counter := SortPassesTotal.WithLabelValues("test-variant", "global")
		before := testutil.ToFloat64(counter)
		counter.Add(78)
		assert.Equal(t, before+78, testutil.ToFloat64(counter))
	})

	t.Run("SortElements", func(t *testing.T) {
		SortElements.Set(4096)
		assert.Equal(t, float64(4096), testutil.ToFloat64(SortElements))
	})
}

func TestDeviceMetrics(t *testing.T) {
	t.Run("DispatchTotal", func(t *testing.T) {
		counter := DispatchTotal.WithLabelValues("test-backend", "flat")
		before := testutil.ToFloat64(counter)
		counter.Inc()
		counter.Inc()
		assert.Equal(t, before+2, testutil.ToFloat64(counter))
	})

	t.Run("DeviceMemoryUsedBytes", func(t *testing.T) {
		DeviceMemoryUsedBytes.Set(1 << 20)
		assert.Equal(t, float64(1<<20), testutil.ToFloat64(DeviceMemoryUsedBytes))
	})
}

func TestVerificationMetrics(t *testing.T) {
	counter := VerificationMismatchesTotal.WithLabelValues("test-candidate")
	before := testutil.ToFloat64(counter)
	counter.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestWriteTextfile(t *testing.T) {
	SortElements.Set(128)
	path := filepath.Join(t.TempDir(), "bitonic.prom")

	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "bitonic_sort_elements 128")
}

func BenchmarkMetricsObservation(b *testing.B) {
	b.Run("ObserveDuration", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			SortDurationMs.WithLabelValues("naive").Observe(float64(i % 1000))
		}
	})

	b.Run("IncCounter", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			DispatchTotal.WithLabelValues("cpu", "flat").Inc()
		}
	})
}
