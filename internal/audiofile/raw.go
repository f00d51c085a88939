package audiofile

import (
	"fmt"
	"os"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/codecbench/internal/types"
)

// WriteRaw16 writes the buffer as headerless interleaved 16-bit little-endian PCM.
func WriteRaw16(path string, buf *Buffer) error {
	pcm, err := buf.Requantize(types.Depth16)
	if err != nil {
		return err
	}

	data, err := EncodeLE(pcm.Data, types.Depth16)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing raw PCM %s: %w", path, err)
	}

	return nil
}

// ReadRaw16 reads headerless interleaved 16-bit little-endian PCM. Sample rate and channel count come from format.
func ReadRaw16(path string, format types.PCMFormat) (*Buffer, error) {
	data, err := os.ReadFile(path) //nolint:gosec // temporary file created by the caller
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	format.BitDepth = types.Depth16
	if format.Channels > 1 && len(data)%format.FrameSize() != 0 {
		return nil, fmt.Errorf("%w: %d bytes for %d channels", ErrMisalignedData, len(data), format.Channels)
	}

	samples, err := DecodeLE(data, types.Depth16)
	if err != nil {
		return nil, err
	}

	return &Buffer{Format: format, Data: samples}, nil
}
