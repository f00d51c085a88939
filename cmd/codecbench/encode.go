//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/codecbench/internal/codec"
)

var errEncodeArgs = errors.New("expected exactly three arguments: codec, input and output")

func encodeCommand(app *appContext) *cli.Command {
	return &cli.Command{
		Name:      "encode",
		Usage:     "Encode then decode one mono WAV file through a configured codec",
		ArgsUsage: "<codec> <input.wav> <output.wav>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "bitrate",
				Aliases: []string{"b"},
				Usage:   "Bitrate in bits per second (overrides dataset.bitrate)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 3 {
				return fmt.Errorf("%w: got %d", errEncodeArgs, cmd.NArg())
			}

			cfg, err := app.ensureConfig()
			if err != nil {
				return err
			}

			name := cmd.Args().Get(0)

			opts, ok := cfg.CodecByName(name)
			if !ok {
				return fmt.Errorf("%w: %q", errUnknownCodec, name)
			}

			cdc, err := codec.New(opts)
			if err != nil {
				return err
			}

			bitrate := cfg.Dataset.Bitrate
			if cmd.IsSet("bitrate") {
				bitrate = cmd.Int("bitrate")
			}

			input, output := cmd.Args().Get(1), cmd.Args().Get(2)

			if err := cdc.EncodeDecode(ctx, input, output, bitrate); err != nil {
				return err
			}

			slog.Info("encoded", "codec", cdc.Name(), "input", input, "output", output, "bitrate", bitrate)

			return nil
		},
	}
}
