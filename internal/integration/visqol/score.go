package visqol

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/codecbench/internal/audiofile"
	"github.com/farcloser/codecbench/internal/integration/binary"
	"github.com/farcloser/codecbench/internal/integration/ffmpeg"
	"github.com/farcloser/codecbench/internal/types"
)

// Score compares degraded against reference and returns the MOS-LQO.
// Inputs that are not mono at the mode's sample rate are first resampled and downmixed into temporary files.
func Score(ctx context.Context, reference, degraded string, opts Options) (float64, error) {
	slog.Debug("visqol.Score", "reference", reference, "degraded", degraded, "stage", "start")

	bin := opts.Binary
	if bin == "" {
		bin = name
	}

	visqolPath, found := binary.Resolve(bin)
	if !found {
		return 0, fmt.Errorf("%w: %s", fault.ErrMissingRequirements, bin)
	}

	refHeader, err := audiofile.Inspect(reference)
	if err != nil {
		return 0, err
	}

	degHeader, err := audiofile.Inspect(degraded)
	if err != nil {
		return 0, err
	}

	if refHeader.Format.SampleRate != degHeader.Format.SampleRate {
		return 0, fmt.Errorf("%w: %s (%d Hz) and %s (%d Hz)", ErrSampleRateMismatch,
			reference, refHeader.Format.SampleRate, degraded, degHeader.Format.SampleRate)
	}

	dir, err := os.MkdirTemp("", "codecbench-visqol-*")
	if err != nil {
		return 0, fmt.Errorf("creating temporary directory: %w", err)
	}
	defer os.RemoveAll(dir)

	reference, err = prepare(ctx, reference, refHeader, filepath.Join(dir, "reference.wav"), opts.rate())
	if err != nil {
		return 0, err
	}

	degraded, err = prepare(ctx, degraded, degHeader, filepath.Join(dir, "degraded.wav"), opts.rate())
	if err != nil {
		return 0, err
	}

	runTimeout := opts.Timeout
	if runTimeout <= 0 {
		runTimeout = timeout
	}

	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	//nolint:gosec // binary and files come from configuration and the dataset
	cmd := exec.CommandContext(ctx, visqolPath, args(reference, degraded, opts)...)

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return 0, fmt.Errorf("%w: after %v", fault.ErrTimeout, runTimeout)
		}

		slog.Debug("visqol.Score", "degraded", degraded, "stage", "error")

		return 0, fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	return parse(output)
}

func args(reference, degraded string, opts Options) []string {
	out := []string{"--reference_file", reference, "--degraded_file", degraded}

	if opts.Model != "" {
		out = append(out, "--similarity_to_quality_model", opts.Model)
	}

	if opts.SpeechMode {
		out = append(out, "--use_speech_mode")
	}

	return out
}

// prepare returns path unchanged when it already matches the scoring format, or a converted copy at target.
func prepare(ctx context.Context, path string, header *audiofile.Header, target string, rate int) (string, error) {
	if header.Format.SampleRate == rate && header.Format.Channels == 1 {
		return path, nil
	}

	err := ffmpeg.Convert(ctx, path, target, &types.ExtractOptions{
		SampleRate: rate,
		Channels:   1,
		BitDepth:   types.Depth24,
	})
	if err != nil {
		return "", fmt.Errorf("converting %s for scoring: %w", path, err)
	}

	return target, nil
}

// parse extracts the MOS-LQO line of the tool's report.
func parse(output []byte) (float64, error) {
	scanner := bufio.NewScanner(bytes.NewReader(output))

	for scanner.Scan() {
		label, value, found := strings.Cut(scanner.Text(), ":")
		if !found || strings.TrimSpace(label) != "MOS-LQO" {
			continue
		}

		score, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", errNoScore, value)
		}

		return score, nil
	}

	return 0, errNoScore
}
