package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fxnlabs/bitonic/fixtures"
	"github.com/urfave/cli/v2"
)

func configCommands() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage the config file",
		Subcommands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "Write the default config file",
				ArgsUsage: "<path>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Usage: "Overwrite an existing file"},
				},
				Action: func(c *cli.Context) error {
					path := c.Args().First()
					if path == "" {
						return fmt.Errorf("config path is required")
					}
					if _, err := os.Stat(path); err == nil && !c.Bool("force") {
						return fmt.Errorf("%s already exists, use --force to overwrite", path)
					}
					if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
						return err
					}
					if err := os.WriteFile(path, fixtures.ConfigTemplate, 0o644); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Config written to %s\n", path)
					return nil
				},
			},
		},
	}
}
