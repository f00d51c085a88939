//nolint:tagliatelle
package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/codecbench/internal/integration/binary"
)

var (
	errNoAudioStream     = errors.New("no audio streams found")
	errInvalidSampleRate = errors.New("invalid sample rate")
	errInvalidChannels   = errors.New("invalid channel count")
)

// Result contains the marshalled output of ffprobe.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream holds the stream properties relevant to dataset metadata.
type Stream struct {
	Index            int    `json:"index"`
	CodecName        string `json:"codec_name"`                    // flac, pcm_s16le
	CodecLongName    string `json:"codec_long_name"`               // FLAC (Free Lossless Audio Codec)
	CodecType        string `json:"codec_type"`                    // audio
	SampleFmt        string `json:"sample_fmt,omitempty"`          // s16
	SampleRate       string `json:"sample_rate,omitempty"`         // 44100
	Channels         int    `json:"channels,omitempty"`            // 2
	Duration         string `json:"duration,omitempty"`            // 310.666667
	BitsPerSample    int    `json:"bits_per_sample,omitempty"`     // authoritative for PCM containers
	BitsPerRawSample string `json:"bits_per_raw_sample,omitempty"` // authoritative for lossless codecs
}

// Format represents container-level information.
type Format struct {
	Filename       string `json:"filename"`
	FormatName     string `json:"format_name"`        // flac, wav
	FormatLongName string `json:"format_long_name"`   // raw FLAC, WAV / WAVE (Waveform Audio)
	Duration       string `json:"duration,omitempty"` // 310.666667
}

// Probe runs ffprobe on the given file path and returns parsed metadata.
// It requires ffprobe to be available in the system PATH.
func Probe(ctx context.Context, filePath string) (*Result, error) {
	slog.Debug("ffprobe.Probe", "file path", filePath)

	ffprobePath, found := binary.Available(name)
	if !found {
		return nil, fmt.Errorf("%w: %s", fault.ErrMissingRequirements, name)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	//nolint:gosec // filePath is intentionally user-provided input for probing media files
	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
		}

		return nil, fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	return parse(output)
}

func parse(output []byte) (*Result, error) {
	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrInvalidJSON, err)
	}

	return &result, nil
}

// FirstAudio returns the first audio stream of the result.
func (r *Result) FirstAudio() (*Stream, error) {
	for i := range r.Streams {
		if r.Streams[i].CodecType == "audio" {
			return &r.Streams[i], nil
		}
	}

	return nil, errNoAudioStream
}

// Rate returns the parsed, validated sample rate of the stream.
func (s *Stream) Rate() (int, error) {
	sampleRate, err := strconv.Atoi(s.SampleRate)
	if err != nil || sampleRate <= 0 {
		return 0, fmt.Errorf("%q: %w", s.SampleRate, errInvalidSampleRate)
	}

	return sampleRate, nil
}

// ChannelCount returns the validated channel count of the stream.
func (s *Stream) ChannelCount() (uint, error) {
	if s.Channels <= 0 {
		return 0, fmt.Errorf("%d: %w", s.Channels, errInvalidChannels)
	}

	return uint(s.Channels), nil //nolint:gosec // validated positive value
}

// Seconds returns the stream duration, falling back to the container duration.
func (r *Result) Seconds(stream *Stream) float64 {
	for _, candidate := range []string{stream.Duration, r.Format.Duration} {
		if candidate == "" {
			continue
		}

		if value, err := strconv.ParseFloat(candidate, 64); err == nil {
			return value
		}
	}

	return 0
}

// Bits resolves the original bit depth of the stream. For lossless codecs bits_per_raw_sample is most reliable,
// for PCM containers bits_per_sample is authoritative. Lossy codecs report 0.
func (s *Stream) Bits() int {
	if s.BitsPerRawSample != "" {
		if bits, err := strconv.Atoi(s.BitsPerRawSample); err == nil && bits > 0 {
			return bits
		}
	}

	return s.BitsPerSample
}
