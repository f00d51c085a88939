package audiofile

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/codecbench/internal/integration/ffmpeg"
	"github.com/farcloser/codecbench/internal/integration/ffprobe"
	"github.com/farcloser/codecbench/internal/types"
)

// Load decodes any audio file ffmpeg understands into 32-bit PCM, optionally resampled or remixed per opts.
// The returned buffer reports the format of the decoded stream.
func Load(ctx context.Context, path string, opts types.ExtractOptions) (*Buffer, error) {
	probe, err := ffprobe.Probe(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("probing %s: %w", path, err)
	}

	stream, err := probe.FirstAudio()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	format, err := SourceFormat(stream)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if opts.SampleRate > 0 {
		format.SampleRate = opts.SampleRate
	}

	if opts.Channels > 0 {
		format.Channels = opts.Channels
	}

	opts.BitDepth = types.Depth32
	format.BitDepth = types.Depth32

	file, err := os.Open(path) //nolint:gosec // dataset files are user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}
	defer file.Close()

	var pcm bytes.Buffer

	if err = ffmpeg.ExtractStream(ctx, file, &pcm, &opts); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	samples, err := DecodeLE(pcm.Bytes(), types.Depth32)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	slog.Debug("audiofile.Load", "path", path, "rate", format.SampleRate, "channels", format.Channels,
		"samples", len(samples))

	return &Buffer{Format: format, Data: samples}, nil
}

// SourceFormat builds the PCM format of a probed stream, at the stream's original bit depth when known.
func SourceFormat(stream *ffprobe.Stream) (types.PCMFormat, error) {
	sampleRate, err := stream.Rate()
	if err != nil {
		return types.PCMFormat{}, err
	}

	channels, err := stream.ChannelCount()
	if err != nil {
		return types.PCMFormat{}, err
	}

	depth := types.Depth32

	switch stream.Bits() {
	case 16:
		depth = types.Depth16
	case 24:
		depth = types.Depth24
	}

	return types.PCMFormat{SampleRate: sampleRate, BitDepth: depth, Channels: channels}, nil
}
