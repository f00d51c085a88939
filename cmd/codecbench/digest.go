//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/farcloser/primordium/format"
	"github.com/urfave/cli/v3"

	"github.com/farcloser/codecbench"
	"github.com/farcloser/codecbench/internal/metadata"
	"github.com/farcloser/codecbench/internal/output"
)

var errScoresArg = errors.New("expected exactly one argument: path to visqol_scores.csv")

func digestCommand() *cli.Command {
	return &cli.Command{
		Name:      "digest",
		Usage:     "Summarize a score table per encoder",
		ArgsUsage: "<visqol_scores.csv>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "encoder",
				Usage: "Also list the scores of one encoder, lowest first",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: table, console, json, markdown",
				Value:   "table",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errScoresArg, cmd.NArg())
			}

			scored, err := metadata.ReadScores(cmd.Args().First())
			if err != nil {
				return err
			}

			digest := codecbench.Digest(scored)

			if formatName := cmd.String("format"); formatName != "table" {
				return printDigestFormatted(digest, formatName)
			}

			printDigest(len(scored), digest)

			if encoder := cmd.String("encoder"); encoder != "" {
				printEncoderDetail(scored, encoder)
			}

			return nil
		},
	}
}

func printDigest(total int, digest []codecbench.EncoderStats) {
	fmt.Println("=== Codecbench Score Digest ===")
	fmt.Println()
	fmt.Printf("Scored pairs:  %d\n", total)
	fmt.Printf("Encoders:      %d\n", len(digest))
	fmt.Println()

	rows := make([][]string, 0, len(digest))
	for _, stats := range digest {
		rows = append(rows, []string{
			stats.Encoder,
			strconv.Itoa(stats.Count),
			score(stats.Mean),
			score(stats.StdDev),
			score(stats.Min),
			score(stats.Median),
			score(stats.Max),
		})
	}

	fmt.Println(renderTable(
		[]string{"Encoder", "Pairs", "Mean", "Std dev", "Min", "Median", "Max"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
	))
}

func printEncoderDetail(scored []metadata.Scored, encoder string) {
	var rows [][]string

	for _, item := range lowestFirst(scored, encoder) {
		rows = append(rows, []string{score(item.Score), item.RefPath})
	}

	fmt.Println()
	fmt.Printf("--- %s (%d pairs) ---\n", encoder, len(rows))

	if len(rows) == 0 {
		return
	}

	fmt.Println(renderTable([]string{"Score", "Reference"}, rows, []columnAlignment{alignRight, alignLeft}))
}

func printDigestFormatted(digest []codecbench.EncoderStats, formatName string) error {
	formatter, err := format.GetFormatter(formatName)
	if err != nil {
		return err
	}

	data := make([]*format.Data, 0, len(digest))
	for _, stats := range digest {
		data = append(data, &format.Data{
			Object: stats.Encoder,
			Meta:   output.StatsToMap(stats),
		})
	}

	return formatter.PrintAll(data, os.Stdout)
}

func score(value float64) string {
	return strconv.FormatFloat(value, 'f', 3, 64)
}
