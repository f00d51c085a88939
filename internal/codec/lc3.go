package codec

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

//nolint:gochecknoglobals // tool constants
var lc3Rates = []int{8000, 16000, 24000, 32000, 44100, 48000}

// lc3 drives the liblc3 command line tools. elc3 writes the bitstream on stdout, which dlc3 decodes from stdin.
type lc3 struct {
	name    string
	libDir  string
	encoder string
	decoder string
	opts    Options
}

func lc3Requirements(opts Options) []Requirement {
	bin := filepath.Join(opts.Path, "bin")

	return []Requirement{requirement(bin, "elc3"), requirement(bin, "dlc3")}
}

func newLC3(opts Options) (Codec, error) {
	paths, err := require(lc3Requirements(opts))
	if err != nil {
		return nil, err
	}

	return &lc3{
		name:    opts.Name,
		libDir:  filepath.Join(opts.Path, "bin"),
		encoder: paths[0],
		decoder: paths[1],
		opts:    opts,
	}, nil
}

func (c *lc3) Name() string {
	return c.name
}

func (c *lc3) EncodeDecode(ctx context.Context, input, output string, bitrate int) (err error) {
	if _, err = precheck(c.name, input, bitrate, lc3Rates); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	out, err := os.Create(output) //nolint:gosec // output location is derived from the dataset tree
	if err != nil {
		return err
	}

	defer discard(output, &err)

	reader, writer, err := os.Pipe()
	if err != nil {
		_ = out.Close()

		return fmt.Errorf("creating pipe: %w", err)
	}

	env := append(os.Environ(), "LD_LIBRARY_PATH="+c.libDir)

	var encErr, decErr bytes.Buffer

	//nolint:gosec // binaries are resolved from configuration
	enc := exec.CommandContext(ctx, c.encoder, input, "-b", strconv.Itoa(bitrate))
	enc.Env = env
	enc.Stdout = writer
	enc.Stderr = &encErr

	dec := exec.CommandContext(ctx, c.decoder) //nolint:gosec // binaries are resolved from configuration
	dec.Env = env
	dec.Stdin = reader
	dec.Stdout = out
	dec.Stderr = &decErr

	startErr := enc.Start()
	if startErr == nil {
		if startErr = dec.Start(); startErr != nil {
			_ = enc.Process.Kill()
			_ = enc.Wait()
		}
	}

	// The children hold their own copies of both ends. Closing ours lets dlc3 see EOF when elc3 exits,
	// and lets elc3 fail on a broken pipe when dlc3 dies.
	_ = reader.Close()
	_ = writer.Close()

	if startErr != nil {
		_ = out.Close()

		return failure(ctx, "elc3 | dlc3", &encErr, startErr)
	}

	decWait := dec.Wait()
	encWait := enc.Wait()

	if closeErr := out.Close(); closeErr != nil && decWait == nil {
		decWait = closeErr
	}

	if encWait != nil {
		return failure(ctx, "elc3", &encErr, encWait)
	}

	if decWait != nil {
		return failure(ctx, "dlc3", &decErr, decWait)
	}

	return nil
}
