package main

import (
	"fmt"

	"github.com/common-nighthawk/go-figure"
	"github.com/fxnlabs/bitonic/internal/bitonic"
	"github.com/fxnlabs/bitonic/internal/gpu"
	"github.com/urfave/cli/v2"
)

func infoCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Show the compute device",
		Action: func(c *cli.Context) error {
			var manager *gpu.Manager
			return runGraph(c.Context, st.cfg, st.rootLogger, func() error {
				out := c.App.Writer
				fmt.Fprintln(out, figure.NewFigure("Bitonic", "", true).String())
				printDeviceInfo(c, manager.GetBackendType(), manager.GetDeviceInfo())
				return nil
			}, &manager)
		},
	}
}

func printDeviceInfo(c *cli.Context, backendType string, info gpu.DeviceInfo) {
	out := c.App.Writer
	fmt.Fprintf(out, "Backend:          %s\n", backendType)
	fmt.Fprintf(out, "Device:           %s\n", info.Name)
	fmt.Fprintf(out, "Compute units:    %d\n", info.ComputeUnits)
	fmt.Fprintf(out, "Work-group size:  %d\n", info.MaxWorkGroupSize)
	fmt.Fprintf(out, "Local memory:     %d bytes\n", info.LocalMemSize)
	fmt.Fprintf(out, "Global memory:    %d of %d bytes available\n", info.AvailableMemory, info.TotalMemory)
	fmt.Fprintf(out, "SIMD:             %d lanes (%s)\n", info.SIMDWidth, info.SIMDLevel)
	fmt.Fprintf(out, "Runtime:          %s\n", info.DriverVersion)
}

func planCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Print the launches a sort would issue on the device",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "pow", Usage: "Sort 2^pow elements (default from sort.pow)"},
			&cli.StringFlag{Name: "variant", Usage: "Variant to describe (default from sort.variant)"},
		},
		Action: func(c *cli.Context) error {
			cfg := st.cfg
			if c.IsSet("pow") {
				cfg.Sort.Pow = c.Int("pow")
			}
			if c.IsSet("variant") {
				cfg.Sort.Variant = c.String("variant")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			opts, err := cfg.SortOptions()
			if err != nil {
				return err
			}

			var manager *gpu.Manager
			return runGraph(c.Context, cfg, st.rootLogger, func() error {
				tree, err := bitonic.Describe(1<<cfg.Sort.Pow, manager.GetDeviceInfo(), gpu.SizeOf[int32](), opts)
				if err != nil {
					return err
				}
				fmt.Fprint(c.App.Writer, tree.String())
				return nil
			}, &manager)
		},
	}
}
