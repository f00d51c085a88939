package codec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/codecbench/internal/audiofile"
	"github.com/farcloser/codecbench/internal/integration/binary"
)

// precheck validates bitrate and input before any subprocess is spawned. A nil rates accepts every sample rate.
func precheck(codecName, input string, bitrate int, rates []int) (*audiofile.Header, error) {
	if bitrate <= 0 {
		return nil, fmt.Errorf("%w: %s: %d", ErrInvalidBitrate, codecName, bitrate)
	}

	header, err := audiofile.Inspect(input)
	if err != nil {
		return nil, err
	}

	if !header.IntegerPCM() {
		return nil, fmt.Errorf("%w: %s has format tag %d", ErrNotPCM, input, header.Encoding)
	}

	if header.Format.Channels != 1 {
		return nil, fmt.Errorf("%w: %s has %d channels", ErrNotMono, input, header.Format.Channels)
	}

	if rates != nil && !slices.Contains(rates, header.Format.SampleRate) {
		return nil, fmt.Errorf("%w: %s does not support %d Hz", ErrUnsupportedSampleRate, codecName, header.Format.SampleRate)
	}

	return header, nil
}

// require resolves every binary, failing on the first one missing.
func require(reqs []Requirement) ([]string, error) {
	paths := make([]string, 0, len(reqs))

	for _, req := range reqs {
		if !req.Found {
			return nil, fmt.Errorf("%w: %s", fault.ErrMissingRequirements, req.Binary)
		}

		paths = append(paths, req.Resolved)
	}

	return paths, nil
}

func requirement(dir, name string) Requirement {
	resolved, found := binary.Within(dir, name)
	display := name

	if dir != "" {
		display = resolved
	}

	return Requirement{Binary: display, Resolved: resolved, Found: found}
}

// run executes cmd, capturing stderr and translating deadline and exit failures.
func run(ctx context.Context, step string, cmd *exec.Cmd) error {
	slog.Debug("codec.run", "step", step, "args", cmd.Args[1:], "stage", "start")

	var stderr bytes.Buffer

	if cmd.Stderr == nil {
		cmd.Stderr = &stderr
	}

	if err := cmd.Run(); err != nil {
		return failure(ctx, step, &stderr, err)
	}

	slog.Debug("codec.run", "step", step, "stage", "done")

	return nil
}

func failure(ctx context.Context, step string, stderr *bytes.Buffer, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		slog.Debug("codec.run", "step", step, "stage", "timeout")

		return fmt.Errorf("%w: %s", fault.ErrTimeout, step)
	}

	slog.Debug("codec.run", "step", step, "stage", "error")

	return fmt.Errorf("%w: %s: %s: %w", fault.ErrCommandFailure, step, strings.TrimSpace(stderr.String()), err)
}

// discard removes output when *err is set. Use as a deferred call.
func discard(output string, err *error) {
	if *err != nil {
		if rmErr := os.Remove(output); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			slog.Warn("could not remove partial output", "path", output, "error", rmErr)
		}
	}
}

// scratch creates a private temporary directory for intermediate files.
func scratch(codecName string) (string, func(), error) {
	dir, err := os.MkdirTemp("", "codecbench-"+codecName+"-*")
	if err != nil {
		return "", nil, fmt.Errorf("creating temporary directory: %w", err)
	}

	return dir, func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			slog.Warn("could not remove temporary directory", "path", dir, "error", rmErr)
		}
	}, nil
}
