// Package metadata describes audio files and reads and writes the dataset CSV tables.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/farcloser/codecbench/internal/audiofile"
	"github.com/farcloser/codecbench/internal/integration/ffprobe"
)

// WAVE format tags.
const (
	tagPCM        = 1
	tagFloat      = 3
	tagExtensible = 0xFFFE
)

// Info holds the properties recorded for every audio file in a dataset table.
type Info struct {
	SampleRate int
	Channels   int
	// Duration in seconds.
	Duration float64
	// Format is the container, e.g. WAV or FLAC.
	Format string
	// Subtype is the sample encoding, e.g. PCM_16 or FLOAT.
	Subtype string
}

// Extract describes the audio file at path. WAV files are read natively, anything else goes through ffprobe.
func Extract(ctx context.Context, path string) (Info, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		info, err := fromWAV(path)
		if err == nil {
			return info, nil
		}

		// RF64 and other WAV variants go-audio cannot parse are left to ffprobe.
		if !errors.Is(err, audiofile.ErrInvalidWAV) {
			return Info{}, err
		}
	}

	return fromProbe(ctx, path)
}

// SampleRate is a convenience for filtering a corpus by rate.
func SampleRate(ctx context.Context, path string) (int, error) {
	info, err := Extract(ctx, path)
	if err != nil {
		return 0, err
	}

	return info.SampleRate, nil
}

func fromWAV(path string) (Info, error) {
	header, err := audiofile.Inspect(path)
	if err != nil {
		return Info{}, err
	}

	return Info{
		SampleRate: header.Format.SampleRate,
		Channels:   int(header.Format.Channels), //nolint:gosec // channel count is small
		Duration:   header.Duration.Seconds(),
		Format:     "WAV",
		Subtype:    wavSubtype(header.Encoding, int(header.Format.BitDepth)), //nolint:gosec // small constant
	}, nil
}

func wavSubtype(tag, bits int) string {
	switch tag {
	case tagFloat:
		if bits == 64 {
			return "DOUBLE"
		}

		return "FLOAT"
	case tagPCM, tagExtensible:
		if bits == 8 {
			return "PCM_U8"
		}

		return fmt.Sprintf("PCM_%d", bits)
	}

	return fmt.Sprintf("FORMAT_0x%04X", tag)
}

func fromProbe(ctx context.Context, path string) (Info, error) {
	probe, err := ffprobe.Probe(ctx, path)
	if err != nil {
		return Info{}, fmt.Errorf("probing %s: %w", path, err)
	}

	stream, err := probe.FirstAudio()
	if err != nil {
		return Info{}, fmt.Errorf("%s: %w", path, err)
	}

	rate, err := stream.Rate()
	if err != nil {
		return Info{}, fmt.Errorf("%s: %w", path, err)
	}

	channels, err := stream.ChannelCount()
	if err != nil {
		return Info{}, fmt.Errorf("%s: %w", path, err)
	}

	return Info{
		SampleRate: rate,
		Channels:   int(channels), //nolint:gosec // channel count is small
		Duration:   probe.Seconds(stream),
		Format:     containerName(probe.Format.FormatName),
		Subtype:    streamSubtype(stream),
	}, nil
}

// containerName maps ffprobe demuxer names (possibly a comma separated list) to a single upper case name.
func containerName(formatName string) string {
	first, _, _ := strings.Cut(formatName, ",")

	switch first {
	case "ogg":
		return "OGG"
	case "mov":
		return "MP4"
	case "":
		return "UNKNOWN"
	}

	return strings.ToUpper(first)
}

func streamSubtype(stream *ffprobe.Stream) string {
	switch strings.TrimSuffix(stream.SampleFmt, "p") {
	case "flt":
		return "FLOAT"
	case "dbl":
		return "DOUBLE"
	case "u8":
		return "PCM_U8"
	case "s16", "s32":
		if bits := stream.Bits(); bits > 0 {
			return fmt.Sprintf("PCM_%d", bits)
		}
	}

	if stream.CodecName != "" {
		return strings.ToUpper(stream.CodecName)
	}

	return "UNKNOWN"
}
