package audiofile

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/farcloser/primordium/fault"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/riff"
	"github.com/go-audio/wav"

	"github.com/farcloser/codecbench/internal/types"
)

// WAVE format tags.
const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

// A WAVE_FORMAT_EXTENSIBLE fmt chunk carries its sub format GUID at offset 24, the tag in its first two bytes.
const (
	extensibleSubFormat = 24
	extensibleFmtSize   = 40
)

// Header describes a WAV file without loading its samples.
type Header struct {
	Format types.PCMFormat
	// AudioFormat is the fmt chunk format tag.
	AudioFormat int
	// Encoding is AudioFormat, or the sub format tag for WAVE_FORMAT_EXTENSIBLE files.
	Encoding int
	Duration time.Duration
}

// IntegerPCM reports whether the samples are integer PCM.
func (h *Header) IntegerPCM() bool {
	return h.Encoding == wavFormatPCM
}

// Buffer holds interleaved PCM samples at the scale of Format.BitDepth.
type Buffer struct {
	Format types.PCMFormat
	Data   []int
}

// Frames returns the number of interleaved frames in the buffer.
func (b *Buffer) Frames() int {
	if b.Format.Channels == 0 {
		return 0
	}

	return len(b.Data) / int(b.Format.Channels) //nolint:gosec // channel count is small
}

// Inspect reads the header of a WAV file.
func Inspect(path string) (*Header, error) {
	file, err := os.Open(path) //nolint:gosec // dataset files are user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWAV, path)
	}

	// The data chunk size is exact, unlike the RIFF size the decoder derives its own duration from.
	if err = decoder.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", fault.ErrReadFailure, path, err)
	}

	format := types.PCMFormat{
		SampleRate: int(decoder.SampleRate),
		BitDepth:   types.BitDepth(decoder.BitDepth),
		Channels:   uint(decoder.NumChans),
	}

	var duration time.Duration

	if frameSize := format.FrameSize(); frameSize > 0 && format.SampleRate > 0 {
		frames := decoder.PCMLen() / int64(frameSize)
		duration = time.Duration(float64(frames) / float64(format.SampleRate) * float64(time.Second))
	}

	encoding, err := resolveEncoding(file, decoder.WavAudioFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidWAV, path, err)
	}

	return &Header{
		Format:      format,
		AudioFormat: int(decoder.WavAudioFormat),
		Encoding:    encoding,
		Duration:    duration,
	}, nil
}

// ReadWAV loads all samples of an integer PCM WAV file, plain or WAVE_FORMAT_EXTENSIBLE.
func ReadWAV(path string) (*Buffer, error) {
	file, err := os.Open(path) //nolint:gosec // dataset files are user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWAV, path)
	}

	if decoder.WavAudioFormat != wavFormatPCM && decoder.WavAudioFormat != wavFormatExtensible {
		return nil, fmt.Errorf("%w: %s: format tag %d", ErrInvalidWAV, path, decoder.WavAudioFormat)
	}

	pcm, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", fault.ErrReadFailure, path, err)
	}

	encoding, err := resolveEncoding(file, decoder.WavAudioFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidWAV, path, err)
	}

	if encoding != wavFormatPCM {
		return nil, fmt.Errorf("%w: %s: sub format tag %d", ErrInvalidWAV, path, encoding)
	}

	return &Buffer{
		Format: types.PCMFormat{
			SampleRate: int(decoder.SampleRate),
			BitDepth:   types.BitDepth(decoder.BitDepth),
			Channels:   uint(decoder.NumChans),
		},
		Data: pcm.Data,
	}, nil
}

// WriteWAV writes the buffer as a PCM WAV file at its own bit depth. A partially written file is removed.
func WriteWAV(path string, buf *Buffer) (err error) {
	if err = checkDepth(buf.Format.BitDepth); err != nil {
		return err
	}

	file, err := os.Create(path) //nolint:gosec // output location is derived from the dataset tree
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	channels := int(buf.Format.Channels) //nolint:gosec // channel count is small
	depth := int(buf.Format.BitDepth)    //nolint:gosec // bit depth is a small constant

	encoder := wav.NewEncoder(file, buf.Format.SampleRate, depth, channels, wavFormatPCM)

	err = encoder.Write(&goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  buf.Format.SampleRate,
		},
		Data:           buf.Data,
		SourceBitDepth: depth,
	})
	if err != nil {
		_ = file.Close()

		return fmt.Errorf("writing %s: %w", path, err)
	}

	if err = encoder.Close(); err != nil {
		_ = file.Close()

		return fmt.Errorf("finalizing %s: %w", path, err)
	}

	return file.Close()
}

// resolveEncoding returns tag, or for WAVE_FORMAT_EXTENSIBLE the tag of the sub format, reading the fmt chunk
// again from the start of file.
func resolveEncoding(file io.ReadSeeker, tag uint16) (int, error) {
	if tag != wavFormatExtensible {
		return int(tag), nil
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}

	parser := riff.New(file)
	if err := parser.ParseHeaders(); err != nil {
		return 0, err
	}

	for {
		chunk, err := parser.NextChunk()
		if err != nil {
			return 0, fmt.Errorf("looking for the fmt chunk: %w", err)
		}

		if chunk.ID != riff.FmtID {
			chunk.Drain()

			continue
		}

		if chunk.Size < extensibleFmtSize {
			return 0, fmt.Errorf("extensible fmt chunk of %d bytes", chunk.Size)
		}

		raw := make([]byte, chunk.Size)
		if _, err = io.ReadFull(chunk, raw); err != nil {
			return 0, err
		}

		return int(binary.LittleEndian.Uint16(raw[extensibleSubFormat:])), nil
	}
}

func checkDepth(depth types.BitDepth) error {
	switch depth {
	case types.Depth16, types.Depth24, types.Depth32:
		return nil
	}

	return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, depth)
}
