package types

import "time"

type BitDepth uint

const (
	Depth16 BitDepth = 16
	Depth24 BitDepth = 24
	Depth32 BitDepth = 32
)

// Bytes returns the storage size of one sample.
func (b BitDepth) Bytes() int {
	return int(b / 8) //nolint:gosec // bit depth is a small constant
}

// FullScale returns the normalization divisor for signed PCM at this depth.
func (b BitDepth) FullScale() float64 {
	switch b {
	case Depth16:
		return 32768.0 // 2^15
	case Depth24:
		return 8388608.0 // 2^23
	case Depth32:
		return 2147483648.0 // 2^31
	}

	return 32768.0
}

// PCMFormat describes interleaved signed little-endian PCM.
type PCMFormat struct {
	SampleRate int
	BitDepth   BitDepth
	Channels   uint
}

// FrameSize is the number of bytes of one interleaved frame.
func (f PCMFormat) FrameSize() int {
	return f.BitDepth.Bytes() * int(f.Channels) //nolint:gosec // channel count is small
}

// Duration converts a sample count (all channels) to wall time.
func (f PCMFormat) Duration(samples int) time.Duration {
	if f.SampleRate <= 0 || f.Channels == 0 {
		return 0
	}

	frames := samples / int(f.Channels) //nolint:gosec // channel count is small

	return time.Duration(float64(frames) / float64(f.SampleRate) * float64(time.Second))
}

// ExtractOptions controls how a source is decoded to PCM.
type ExtractOptions struct {
	// StreamIndex selects the audio stream (0-based).
	StreamIndex int
	// SampleRate resamples to the given rate when non-zero.
	SampleRate int
	// Channels downmixes (or upmixes) to the given count when non-zero.
	Channels uint
	// BitDepth of the produced PCM (defaults to Depth32).
	BitDepth BitDepth
}
