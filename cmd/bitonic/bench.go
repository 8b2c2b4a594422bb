package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/fxnlabs/bitonic/internal/bench"
	"github.com/fxnlabs/bitonic/internal/gpu"
	"github.com/fxnlabs/bitonic/internal/metrics"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func benchCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "Sort a random sequence with every variant and check each against the host sort",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "pow", Usage: "Sort 2^pow elements (default from sort.pow)"},
			&cli.StringSliceFlag{Name: "variant", Usage: "Variant to run, repeatable (default every variant)"},
			&cli.IntFlag{Name: "runs", Usage: "Timed repetitions per variant"},
			&cli.Uint64Flag{Name: "seed", Usage: "Seed of the random input, 0 seeds from the clock"},
			&cli.StringFlag{Name: "backend", Usage: "Compute backend: auto, cpu or serial"},
			&cli.StringFlag{Name: "metrics-textfile", Usage: "Write metrics to this file after the run"},
		},
		Action: func(c *cli.Context) error {
			cfg := st.cfg
			if c.IsSet("pow") {
				cfg.Sort.Pow = c.Int("pow")
			}
			if c.IsSet("variant") {
				cfg.Bench.Variants = c.StringSlice("variant")
			}
			if c.IsSet("runs") {
				cfg.Bench.Runs = c.Int("runs")
			}
			if c.IsSet("seed") {
				cfg.Bench.Seed = c.Uint64("seed")
			}
			if c.IsSet("backend") {
				cfg.Device.Backend = c.String("backend")
			}
			if c.IsSet("metrics-textfile") {
				cfg.Metrics.Textfile = c.String("metrics-textfile")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log := st.rootLogger.Named("bench")
			variants, err := cfg.BenchVariants()
			if err != nil {
				return err
			}
			opts, err := cfg.SortOptions()
			if err != nil {
				return err
			}
			opts.Logger = st.rootLogger.Named("sort")

			seed := cfg.Bench.Seed
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}

			var manager *gpu.Manager
			var harness *bench.Harness
			err = runGraph(c.Context, cfg, st.rootLogger, func() error {
				out := c.App.Writer
				info := manager.GetDeviceInfo()
				fmt.Fprintf(out, "Device: %s (%s backend)\n", info.Name, manager.GetBackendType())
				fmt.Fprintf(out, "Sequence: %d elements, seed %d\n", 1<<cfg.Sort.Pow, seed)

				if err := harness.WarmUp(); err != nil {
					return err
				}
				input := bench.RandomVector(1<<cfg.Sort.Pow, seed)
				report, err := harness.Check(input, bench.Reference(), harness.Candidates(variants, opts)...)
				if err != nil {
					return err
				}
				return report.Print(out)
			}, &manager, &harness)

			if cfg.Metrics.Textfile != "" {
				if werr := metrics.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
					log.Warn("failed to write metrics textfile",
						zap.String("path", cfg.Metrics.Textfile),
						zap.Error(werr))
				}
			}

			var mismatch *bench.MismatchError
			if errors.As(err, &mismatch) {
				return cli.Exit(fmt.Sprintf("Verification failed: %v", mismatch), 2)
			}
			return err
		},
	}
}
