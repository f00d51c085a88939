//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/codecbench"
	"github.com/farcloser/codecbench/internal/integration/visqol"
)

var errPairsArg = errors.New("expected exactly one argument: path to a pair table")

func workersFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "workers",
		Aliases: []string{"j"},
		Usage:   "Number of concurrent workers (overrides dataset.workers)",
	}
}

func workers(cmd *cli.Command, configured int) int {
	if cmd.IsSet("workers") {
		return max(cmd.Int("workers"), 1)
	}

	return configured
}

func anchorsCommand(app *appContext) *cli.Command {
	return &cli.Command{
		Name:      "anchors",
		Usage:     "Write low-pass anchors beside every reference of a pair table",
		ArgsUsage: "<metadata_bitrate=N.csv>",
		Flags:     []cli.Flag{workersFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errPairsArg, cmd.NArg())
			}

			cfg, err := app.ensureConfig()
			if err != nil {
				return err
			}

			written, err := codecbench.Anchors(ctx, cmd.Args().First(), codecbench.AnchorOptions{
				Bands:    cfg.AnchorBands(),
				Workers:  workers(cmd, cfg.Dataset.Workers),
				FailFast: cfg.Dataset.FailFast,
				Progress: tracker,
			})

			fmt.Fprintf(os.Stderr, "Wrote %d anchors\n", len(written))

			return err
		},
	}
}

func scoreCommand(app *appContext) *cli.Command {
	return &cli.Command{
		Name:      "score",
		Usage:     "Score every pair of a pair table with VISQOL",
		ArgsUsage: "<metadata_bitrate=N.csv>",
		Flags: []cli.Flag{
			workersFlag(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Score table location (default: visqol_scores.csv beside the pair table)",
			},
			&cli.BoolFlag{
				Name:  "speech-mode",
				Usage: "Score in speech mode at 16 kHz (overrides visqol.speech_mode)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errPairsArg, cmd.NArg())
			}

			cfg, err := app.ensureConfig()
			if err != nil {
				return err
			}

			result, err := codecbench.Score(ctx, cmd.Args().First(), codecbench.ScoreOptions{
				Visqol: visqol.Options{
					Binary:     cfg.Visqol.Binary,
					Model:      cfg.Visqol.Model,
					SpeechMode: cfg.Visqol.SpeechMode || cmd.Bool("speech-mode"),
					Timeout:    cfg.VisqolTimeout(),
				},
				Output:   cmd.String("output"),
				Workers:  workers(cmd, cfg.Dataset.Workers),
				FailFast: cfg.Dataset.FailFast,
				Progress: tracker,
			})
			if result != nil {
				fmt.Fprintf(os.Stderr, "Wrote %d scores to %s (%d failures)\n",
					len(result.Scored), result.Path, len(result.Failed))
			}

			return err
		},
	}
}

func metadataCommand(app *appContext) *cli.Command {
	return &cli.Command{
		Name:      "metadata",
		Usage:     "Write the metadata inventory of every audio file under a directory",
		ArgsUsage: "<folder>",
		Flags: []cli.Flag{
			workersFlag(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Inventory location (default: metadata.csv inside the folder)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("expected exactly one argument: folder path, got %d", cmd.NArg())
			}

			cfg, err := app.ensureConfig()
			if err != nil {
				return err
			}

			output, entries, err := codecbench.Inventory(ctx, cmd.Args().First(), codecbench.InventoryOptions{
				Extensions: cfg.Dataset.Extensions,
				Output:     cmd.String("output"),
				Workers:    workers(cmd, cfg.Dataset.Workers),
				Progress:   tracker,
			})
			if output != "" {
				fmt.Fprintf(os.Stderr, "Wrote %d entries to %s\n", len(entries), output)
			}

			return err
		},
	}
}
