package codec

import "errors"

var (
	// ErrNotMono is returned when the input has more than one channel.
	ErrNotMono = errors.New("input must be mono PCM")
	// ErrNotPCM is returned when the input samples are not integer PCM.
	ErrNotPCM = errors.New("input must be integer PCM")
	// ErrUnsupportedSampleRate is returned when the tool cannot process the input sample rate.
	ErrUnsupportedSampleRate = errors.New("unsupported sample rate")
	// ErrInvalidBitrate is returned for non-positive bitrates or bitrates the tool does not offer.
	ErrInvalidBitrate = errors.New("invalid bitrate")
	// ErrUnknownType is returned by New for an unregistered codec type.
	ErrUnknownType = errors.New("unknown codec type")
)
