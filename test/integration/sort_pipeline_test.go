//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/fxnlabs/bitonic/internal/bench"
	"github.com/fxnlabs/bitonic/internal/bitonic"
	"github.com/fxnlabs/bitonic/internal/config"
	"github.com/fxnlabs/bitonic/internal/gpu"
	"github.com/fxnlabs/bitonic/internal/logger"
	"github.com/fxnlabs/bitonic/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func newPipeline(t *testing.T, backend string) (*gpu.Manager, *bench.Harness) {
	var manager *gpu.Manager
	var harness *bench.Harness

	app := fxtest.New(t,
		fx.Provide(
			func() *config.Config {
				cfg := config.Default()
				cfg.Logger.Verbosity = "error"
				cfg.Device.Backend = backend
				cfg.Bench.Runs = 2
				return cfg
			},
			func(cfg *config.Config) (*zap.Logger, error) {
				return logger.New(cfg.Logger.Verbosity)
			},
			func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*gpu.Manager, error) {
				kind, err := cfg.DeviceKind()
				if err != nil {
					return nil, err
				}
				m, err := gpu.NewManager(log, kind, cfg.DeviceOptions())
				if err != nil {
					return nil, err
				}
				lc.Append(fx.Hook{OnStop: func(context.Context) error { return m.Cleanup() }})
				return m, nil
			},
			func(cfg *config.Config, m *gpu.Manager, log *zap.Logger) *bench.Harness {
				return bench.NewHarness(m.GetBackend(), cfg.Bench.Runs, log)
			},
		),
		fx.Populate(&manager, &harness),
	)
	app.RequireStart()
	t.Cleanup(app.RequireStop)
	return manager, harness
}

func TestSortPipeline_EndToEnd(t *testing.T) {
	for _, backend := range []string{"cpu", "serial"} {
		t.Run(backend, func(t *testing.T) {
			manager, harness := newPipeline(t, backend)
			require.NoError(t, harness.WarmUp())

			testCases := []struct {
				name string
				pow  int
				opts bitonic.Options
			}{
				{"single tile", 8, bitonic.Options{}},
				{"many tiles", 16, bitonic.Options{ElementsPerItem: 2}},
				{"tiles sized from local memory", 18, bitonic.Options{}},
			}

			for _, tc := range testCases {
				t.Run(tc.name, func(t *testing.T) {
					input := bench.RandomVector(1<<tc.pow, uint64(tc.pow))
					report, err := harness.Check(input, bench.Reference(), harness.Candidates(bitonic.Variants(), tc.opts)...)
					require.NoError(t, err)

					digest := report.Results[0].Digest
					for _, res := range report.Results[1:] {
						assert.True(t, res.Verified, res.Name)
						assert.Equal(t, digest, res.Digest, res.Name)
					}
				})
			}

			info := manager.GetDeviceInfo()
			assert.Equal(t, info.TotalMemory, info.AvailableMemory, "every buffer must be released")
		})
	}
}

func TestSortPipeline_Metrics(t *testing.T) {
	_, harness := newPipeline(t, "serial")

	before := testutil.ToFloat64(metrics.SortPassesTotal.WithLabelValues("naive", "global"))
	_, err := harness.Check(bench.RandomVector(64, 1), bench.Reference(),
		harness.Candidates([]bitonic.Variant{bitonic.Naive}, bitonic.Options{})...)
	require.NoError(t, err)

	// 2 runs of the 21 passes of a 64 element network
	assert.Equal(t, before+42, testutil.ToFloat64(metrics.SortPassesTotal.WithLabelValues("naive", "global")))
	assert.Equal(t, float64(64), testutil.ToFloat64(metrics.SortElements))
}
