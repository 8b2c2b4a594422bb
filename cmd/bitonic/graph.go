package main

import (
	"context"
	"errors"

	"github.com/fxnlabs/bitonic/internal/bench"
	"github.com/fxnlabs/bitonic/internal/config"
	"github.com/fxnlabs/bitonic/internal/gpu"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// graph wires the device and the benchmark harness for one command run.
func graph(cfg *config.Config, log *zap.Logger) fx.Option {
	return fx.Options(
		fx.Supply(cfg, log),
		fx.Provide(
			newManager,
			newBackend,
			newHarness,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
	)
}

func newManager(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*gpu.Manager, error) {
	kind, err := cfg.DeviceKind()
	if err != nil {
		return nil, err
	}
	manager, err := gpu.NewManager(log.Named("gpu"), kind, cfg.DeviceOptions())
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return manager.Cleanup()
		},
	})
	return manager, nil
}

func newBackend(manager *gpu.Manager) (gpu.Backend, error) {
	backend := manager.GetBackend()
	if backend == nil {
		return nil, errors.New("no compute backend available")
	}
	return backend, nil
}

func newHarness(cfg *config.Config, backend gpu.Backend, log *zap.Logger) *bench.Harness {
	return bench.NewHarness(backend, cfg.Bench.Runs, log.Named("bench"))
}

// runGraph starts the graph, fills targets, calls fn and stops the graph.
func runGraph(ctx context.Context, cfg *config.Config, log *zap.Logger, fn func() error, targets ...interface{}) error {
	app := fx.New(graph(cfg, log), fx.Populate(targets...))
	if err := app.Err(); err != nil {
		return err
	}
	if err := app.Start(ctx); err != nil {
		return err
	}
	runErr := fn()
	if err := app.Stop(ctx); err != nil && runErr == nil {
		return err
	}
	return runErr
}
