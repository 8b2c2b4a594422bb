package main

import (
	"fmt"
	"os"

	"github.com/fxnlabs/bitonic/internal/config"
	"github.com/fxnlabs/bitonic/internal/logger"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// state is filled by the app's Before hook and shared by every command.
type state struct {
	cfg        *config.Config
	rootLogger *zap.Logger
}

func newApp() (*cli.App, *state) {
	st := &state{}
	var configPath, verbosity string

	app := &cli.App{
		Name:  "bitonic",
		Usage: "Bitonic sorting network kernels on an emulated compute device",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Usage:       "Path to a yaml config file",
				EnvVars:     []string{"BITONIC_CONFIG"},
				Destination: &configPath,
			},
			&cli.StringFlag{
				Name:        "verbosity",
				Usage:       "Log level, overrides logger.verbosity",
				Destination: &verbosity,
			},
		},
		Before: func(c *cli.Context) error {
			var err error
			st.cfg, err = config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if verbosity != "" {
				st.cfg.Logger.Verbosity = verbosity
			}
			zapLogger, err := logger.NewWithEncoding(st.cfg.Logger.Verbosity, st.cfg.Logger.Encoding)
			if err != nil {
				return err
			}
			st.rootLogger = zapLogger.Named("cli")
			return nil
		},
		After: func(c *cli.Context) error {
			if st.rootLogger != nil {
				_ = st.rootLogger.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			benchCommand(st),
			infoCommand(st),
			planCommand(st),
			configCommands(),
		},
	}
	return app, st
}

func main() {
	app, st := newApp()
	if err := app.Run(os.Args); err != nil {
		if st.rootLogger != nil {
			st.rootLogger.Error("failed to run app", zap.Error(err))
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
