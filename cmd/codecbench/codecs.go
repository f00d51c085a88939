//nolint:wrapcheck
package main

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/codecbench/internal/codec"
	"github.com/farcloser/codecbench/internal/config"
)

func codecsCommand(app *appContext) *cli.Command {
	return &cli.Command{
		Name:  "codecs",
		Usage: "List the configured codecs and whether their tools are installed",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "sample-config",
				Usage: "Print an annotated configuration file and exit",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Bool("sample-config") {
				fmt.Print(config.SampleConfig())

				return nil
			}

			cfg, err := app.ensureConfig()
			if err != nil {
				return err
			}

			rows, err := codecRows(cfg)
			if err != nil {
				return err
			}

			fmt.Println(renderTable(
				[]string{"Codec", "Type", "Enabled", "Binary", "Found", "Location"},
				rows,
				nil,
			))

			return nil
		},
	}
}

func codecRows(cfg *config.Config) ([][]string, error) {
	var rows [][]string

	for _, name := range sortedCodecNames(cfg) {
		opts, _ := cfg.CodecByName(name)

		reqs, err := codec.Requirements(opts)
		if err != nil {
			return nil, fmt.Errorf("codec %s: %w", name, err)
		}

		enabled := strconv.FormatBool(!cfg.Codecs[name].Disabled)

		for _, req := range reqs {
			found := "no"
			if req.Found {
				found = "yes"
			}

			rows = append(rows, []string{name, opts.Type, enabled, req.Binary, found, req.Resolved})
		}
	}

	return rows, nil
}

func sortedCodecNames(cfg *config.Config) []string {
	return slices.Sorted(maps.Keys(cfg.Codecs))
}
