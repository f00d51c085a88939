//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/farcloser/primordium/format"
	"github.com/urfave/cli/v3"

	"github.com/farcloser/codecbench/internal/audiofile"
	"github.com/farcloser/codecbench/internal/levels"
	"github.com/farcloser/codecbench/internal/metadata"
	"github.com/farcloser/codecbench/internal/output"
	"github.com/farcloser/codecbench/internal/types"
)

var errInfoArg = errors.New("expected exactly one argument: audio file path")

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Show the metadata of an audio file",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: console, json, markdown",
				Value:   "console",
			},
			&cli.BoolFlag{
				Name:    "levels",
				Aliases: []string{"l"},
				Usage:   "Decode the file and report peak, RMS, DC offset and clipping",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errInfoArg, cmd.NArg())
			}

			path := cmd.Args().First()

			info, err := metadata.Extract(ctx, path)
			if err != nil {
				return err
			}

			formatter, err := format.GetFormatter(cmd.String("format"))
			if err != nil {
				return err
			}

			meta := output.InfoToMap(info)

			if cmd.Bool("levels") {
				buf, err := decode(ctx, path)
				if err != nil {
					return err
				}

				meta["levels"] = output.LevelsToMap(levels.Measure(buf))
			}

			data := &format.Data{
				Object: path,
				Meta:   meta,
			}

			return formatter.PrintAll([]*format.Data{data}, os.Stdout)
		},
	}
}

// decode reads WAV files natively and everything else through ffmpeg.
func decode(ctx context.Context, path string) (*audiofile.Buffer, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		buf, err := audiofile.ReadWAV(path)
		if err == nil {
			return buf, nil
		}
	}

	return audiofile.Load(ctx, path, types.ExtractOptions{})
}
