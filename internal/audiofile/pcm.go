package audiofile

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/farcloser/codecbench/internal/types"
)

// DecodeLE converts interleaved signed little-endian PCM bytes into integer samples.
func DecodeLE(data []byte, depth types.BitDepth) ([]int, error) {
	if err := checkDepth(depth); err != nil {
		return nil, err
	}

	size := depth.Bytes()
	if len(data)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes at %d-bit", ErrMisalignedData, len(data), depth)
	}

	samples := make([]int, len(data)/size)

	for idx := range samples {
		chunk := data[idx*size : idx*size+size]

		switch depth {
		case types.Depth16:
			samples[idx] = int(int16(binary.LittleEndian.Uint16(chunk))) //nolint:gosec // reinterpretation
		case types.Depth24:
			value := int32(chunk[0]) | int32(chunk[1])<<8 | int32(chunk[2])<<16
			samples[idx] = int((value << 8) >> 8) // sign extend
		case types.Depth32:
			samples[idx] = int(int32(binary.LittleEndian.Uint32(chunk))) //nolint:gosec // reinterpretation
		}
	}

	return samples, nil
}

// EncodeLE converts integer samples into interleaved signed little-endian PCM bytes.
func EncodeLE(samples []int, depth types.BitDepth) ([]byte, error) {
	if err := checkDepth(depth); err != nil {
		return nil, err
	}

	size := depth.Bytes()
	data := make([]byte, len(samples)*size)

	for idx, sample := range samples {
		chunk := data[idx*size : idx*size+size]

		//nolint:gosec // samples are within range for their depth
		switch depth {
		case types.Depth16:
			binary.LittleEndian.PutUint16(chunk, uint16(int16(sample)))
		case types.Depth24:
			chunk[0] = byte(sample)
			chunk[1] = byte(sample >> 8)
			chunk[2] = byte(sample >> 16)
		case types.Depth32:
			binary.LittleEndian.PutUint32(chunk, uint32(int32(sample)))
		}
	}

	return data, nil
}

// Requantize returns a copy of the buffer at a different bit depth. Reducing depth rounds to nearest.
func (b *Buffer) Requantize(depth types.BitDepth) (*Buffer, error) {
	if err := checkDepth(depth); err != nil {
		return nil, err
	}

	if depth == b.Format.BitDepth {
		return b, nil
	}

	format := b.Format
	format.BitDepth = depth

	out := &Buffer{Format: format, Data: make([]int, len(b.Data))}

	if depth > b.Format.BitDepth {
		shift := uint(depth - b.Format.BitDepth)
		for idx, sample := range b.Data {
			out.Data[idx] = sample << shift
		}

		return out, nil
	}

	shift := uint(b.Format.BitDepth - depth)
	limit := int(depth.FullScale())
	half := 1 << (shift - 1)

	for idx, sample := range b.Data {
		out.Data[idx] = clamp((sample+half)>>shift, limit)
	}

	return out, nil
}

// Floats returns the samples normalized to [-1, 1).
func (b *Buffer) Floats() []float64 {
	scale := b.Format.BitDepth.FullScale()
	out := make([]float64, len(b.Data))

	for idx, sample := range b.Data {
		out[idx] = float64(sample) / scale
	}

	return out
}

// FromFloats quantizes normalized samples to the given format, clipping anything outside full scale.
func FromFloats(samples []float64, format types.PCMFormat) (*Buffer, error) {
	if err := checkDepth(format.BitDepth); err != nil {
		return nil, err
	}

	scale := format.BitDepth.FullScale()
	limit := int(scale)
	out := &Buffer{Format: format, Data: make([]int, len(samples))}

	for idx, sample := range samples {
		out.Data[idx] = clamp(int(math.Round(sample*scale)), limit)
	}

	return out, nil
}

// Channel returns the de-interleaved samples of one channel.
func (b *Buffer) Channel(channel int) []int {
	channels := int(b.Format.Channels) //nolint:gosec // channel count is small
	out := make([]int, 0, b.Frames())

	for idx := channel; idx < len(b.Data); idx += channels {
		out = append(out, b.Data[idx])
	}

	return out
}

// Downmix averages all channels into one, rounding to nearest.
func (b *Buffer) Downmix() *Buffer {
	channels := int(b.Format.Channels) //nolint:gosec // channel count is small
	if channels <= 1 {
		return b
	}

	format := b.Format
	format.Channels = 1

	frames := b.Frames()
	out := &Buffer{Format: format, Data: make([]int, frames)}

	for frame := range frames {
		sum := 0
		for _, sample := range b.Data[frame*channels : (frame+1)*channels] {
			sum += sample
		}

		out.Data[frame] = int(math.Round(float64(sum) / float64(channels)))
	}

	return out
}

func clamp(value, limit int) int {
	if value >= limit {
		return limit - 1
	}

	if value < -limit {
		return -limit
	}

	return value
}
