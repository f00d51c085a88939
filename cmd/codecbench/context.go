package main

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/codecbench"
	"github.com/farcloser/codecbench/internal/config"
	"github.com/farcloser/codecbench/internal/logging"
	"github.com/farcloser/codecbench/internal/progress"
)

// appContext carries state shared by all commands. The configuration is loaded once, on first use.
type appContext struct {
	configPath string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func (a *appContext) ensureConfig() (*config.Config, error) {
	a.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(a.configPath)
		if err != nil {
			a.configErr = err

			return
		}

		slog.Debug("configuration loaded", "path", path, "exists", exists)

		a.config = cfg
	})

	return a.config, a.configErr
}

// setup installs the default logger. Logging settings come from the flags, then from the configuration when it
// loads. A broken configuration is reported by the commands that need it.
func (a *appContext) setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	opts := logging.Options{Output: os.Stderr}

	if cfg, err := a.ensureConfig(); err == nil {
		opts.Level = cfg.Logging.Level
		opts.Format = cfg.Logging.Format
	}

	if cmd.IsSet("log-level") {
		opts.Level = cmd.String("log-level")
	}

	if cmd.IsSet("log-format") {
		opts.Format = cmd.String("log-format")
	}

	logger, err := logging.New(opts)
	if err != nil {
		return ctx, err
	}

	slog.SetDefault(logger)

	return ctx, nil
}

// tracker reports stage progress on stderr.
func tracker(stage string, total int, label func(idx int) string) codecbench.Tracker {
	return progress.New(os.Stderr, stage, total, label)
}
