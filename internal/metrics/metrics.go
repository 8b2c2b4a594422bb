package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Sort Metrics
	SortDurationMs = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bitonic_sort_duration_ms",
		Help:    "Duration of one sort call in milliseconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 20), // 10us to ~5s
	}, []string{"variant"})

	SortPassesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bitonic_sort_passes_total",
		Help: "Total number of compare-exchange passes dispatched",
	}, []string{"variant", "scope"})

	SortElements = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bitonic_sort_elements",
		Help: "Length of the sequence used in the last sort",
	})

	// Verification Metrics
	VerificationMismatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bitonic_verification_mismatches_total",
		Help: "Total number of candidate results that disagreed with the reference sort",
	}, []string{"candidate"})

	// Device Metrics
	DispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "device_dispatch_total",
		Help: "Total number of kernel dispatches by backend and launch kind",
	}, []string{"backend", "kind"})

	DeviceMemoryUsedBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "device_memory_used_bytes",
		Help: "Device memory currently held by buffers in bytes",
	})
)

// WriteTextfile writes every metric of the default registry to path in the
// text exposition format read by the node exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
