//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/codecbench"
	"github.com/farcloser/codecbench/internal/codec"
	"github.com/farcloser/codecbench/internal/config"
	"github.com/farcloser/codecbench/internal/types"
)

var (
	errUnknownCodec  = errors.New("codec is not configured")
	errDisabledCodec = errors.New("codec is disabled")
)

func buildCommand(app *appContext) *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Build a dataset: references, one decoded file per codec, and the pair table",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "bitrate",
				Aliases: []string{"b"},
				Usage:   "Bitrate in bits per second (overrides dataset.bitrate)",
			},
			&cli.StringSliceFlag{
				Name:  "codec",
				Usage: "Restrict the build to these configured codecs (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "test-run",
				Usage: "Limit the corpus to dataset.test_run_limit files",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"j"},
				Usage:   "Number of concurrent workers (overrides dataset.workers)",
			},
			&cli.BoolFlag{
				Name:  "fail-fast",
				Usage: "Stop at the first failing item",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := app.ensureConfig()
			if err != nil {
				return err
			}

			opts, err := buildOptions(cfg, cmd)
			if err != nil {
				return err
			}

			result, err := codecbench.Build(ctx, opts)
			if result != nil {
				fmt.Fprintf(os.Stderr, "Wrote %d pairs to %s (%d failures)\n",
					len(result.Pairs), result.PairsFile, len(result.Failures))
			}

			return err
		},
	}
}

func buildOptions(cfg *config.Config, cmd *cli.Command) (codecbench.BuildOptions, error) {
	opts := codecbench.BuildOptions{
		OriginalDir:      cfg.Paths.OriginalDir,
		ProcessedDir:     cfg.Paths.ProcessedDir,
		CodecSet:         cfg.Dataset.CodecSet,
		Subset:           cfg.Dataset.Subset.Name,
		SampleRates:      cfg.Dataset.Subset.SampleRates,
		Extensions:       cfg.Dataset.Extensions,
		Bitrate:          cfg.Dataset.Bitrate,
		TestRun:          cfg.Dataset.TestRun || cmd.Bool("test-run"),
		TestRunLimit:     cfg.Dataset.TestRunLimit,
		ResampleFullband: cfg.Reference.ResampleFullband,
		Downmix:          cfg.Reference.Downmix,
		BitDepth:         types.BitDepth(cfg.Reference.BitDepth), //nolint:gosec // validated by the configuration
		Workers:          cfg.Dataset.Workers,
		FailFast:         cfg.Dataset.FailFast || cmd.Bool("fail-fast"),
		Progress:         tracker,
	}

	if cmd.IsSet("bitrate") {
		opts.Bitrate = cmd.Int("bitrate")
	}

	if cmd.IsSet("workers") {
		opts.Workers = max(cmd.Int("workers"), 1)
	}

	codecs, err := selectCodecs(cfg, cmd.StringSlice("codec"))
	if err != nil {
		return opts, err
	}

	opts.Codecs = codecs

	return opts, nil
}

// selectCodecs instantiates the enabled codecs, or only the named ones when names is not empty.
func selectCodecs(cfg *config.Config, names []string) ([]codec.Codec, error) {
	for _, name := range names {
		if _, ok := cfg.CodecByName(name); !ok {
			return nil, fmt.Errorf("%w: %q", errUnknownCodec, name)
		}

		if cfg.Codecs[name].Disabled {
			return nil, fmt.Errorf("%w: %q", errDisabledCodec, name)
		}
	}

	var codecs []codec.Codec

	for _, opts := range cfg.CodecOptions() {
		if len(names) > 0 && !slices.Contains(names, opts.Name) {
			continue
		}

		cdc, err := codec.New(opts)
		if err != nil {
			return nil, fmt.Errorf("codec %s: %w", opts.Name, err)
		}

		codecs = append(codecs, cdc)
	}

	return codecs, nil
}
