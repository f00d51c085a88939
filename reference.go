package codecbench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/farcloser/codecbench/internal/audiofile"
	"github.com/farcloser/codecbench/internal/integration/ffmpeg"
	"github.com/farcloser/codecbench/internal/metadata"
	"github.com/farcloser/codecbench/internal/types"
)

const (
	// ReferenceName is the reference file of every dataset directory.
	ReferenceName = "reference.wav"
	// ResampledReferenceName marks references resampled from 44.1 kHz.
	ResampledReferenceName = "reference_re.wav"

	cdRate       = 44100
	fullbandRate = 48000
)

// errNeedsDecoder routes sources the native WAV path cannot handle to ffmpeg.
var errNeedsDecoder = errors.New("source needs ffmpeg")

// makeReference converts source into the reference WAV of dir and returns its path.
func makeReference(ctx context.Context, source, dir string, opts *BuildOptions) (string, error) {
	info, err := metadata.Extract(ctx, source)
	if err != nil {
		return "", err
	}

	resample := opts.ResampleFullband && info.SampleRate == cdRate

	target := filepath.Join(dir, ReferenceName)
	if resample {
		target = filepath.Join(dir, ResampledReferenceName)
	}

	if !resample {
		err = nativeReference(source, target, opts)
		if err == nil {
			return target, nil
		}

		if !errors.Is(err, errNeedsDecoder) {
			return "", err
		}
	}

	extract := &types.ExtractOptions{BitDepth: opts.BitDepth}

	if resample {
		extract.SampleRate = fullbandRate
	}

	if opts.Downmix {
		extract.Channels = 1
	}

	slog.Debug("codecbench.makeReference", "source", source, "resample", resample, "stage", "ffmpeg")

	if err = ffmpeg.Convert(ctx, source, target, extract); err != nil {
		return "", fmt.Errorf("converting %s: %w", source, err)
	}

	return target, nil
}

// nativeReference handles integer PCM WAV sources without spawning a decoder.
func nativeReference(source, target string, opts *BuildOptions) error {
	if !strings.EqualFold(filepath.Ext(source), ".wav") {
		return errNeedsDecoder
	}

	buf, err := audiofile.ReadWAV(source)
	if errors.Is(err, audiofile.ErrInvalidWAV) || errors.Is(err, audiofile.ErrUnsupportedBitDepth) {
		return errNeedsDecoder
	}

	if err != nil {
		return err
	}

	switch buf.Format.BitDepth {
	case types.Depth16, types.Depth24, types.Depth32:
	default:
		return errNeedsDecoder
	}

	if opts.Downmix {
		buf = buf.Downmix()
	}

	out, err := buf.Requantize(opts.BitDepth)
	if err != nil {
		return err
	}

	return audiofile.WriteWAV(target, out)
}
