package audiofile

import "errors"

var (
	// ErrInvalidWAV is returned when a file is not a RIFF/WAVE PCM file.
	ErrInvalidWAV = errors.New("not a valid PCM WAV file")
	// ErrUnsupportedBitDepth is returned for bit depths other than 16, 24 and 32.
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")
	// ErrMisalignedData is returned when raw PCM does not contain a whole number of frames.
	ErrMisalignedData = errors.New("raw PCM is not frame aligned")
)
