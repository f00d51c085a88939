package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/codecbench/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	app := &appContext{}

	appl := &cli.Command{
		Name:    version.Name(),
		Usage:   "Build and score audio codec evaluation datasets",
		Version: version.Version() + " " + version.Commit(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Configuration file (default: ~/.config/codecbench/config.toml, then ./codecbench.toml)",
				Destination: &app.configPath,
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error (overrides the configuration)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format: text, json (overrides the configuration)",
			},
		},
		Before: app.setup,
		Commands: []*cli.Command{
			buildCommand(app),
			encodeCommand(app),
			anchorsCommand(app),
			scoreCommand(app),
			metadataCommand(app),
			infoCommand(),
			codecsCommand(app),
			digestCommand(),
		},
	}

	err := appl.Run(ctx, os.Args)

	stop()

	if err != nil {
		slog.Error("failed to run", "error", err)
		os.Exit(1)
	}
}
