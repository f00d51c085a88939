package codecbench

import (
	"errors"

	"github.com/farcloser/codecbench/internal/corpus"
)

var (
	// ErrOutputExists is returned when the dataset directory of a build already exists.
	ErrOutputExists = errors.New("output directory already exists")
	// ErrBuildLocked is returned when another build holds the processed directory.
	ErrBuildLocked = errors.New("another build is running")
	// ErrPartialFailure is returned, along with the result, when some items failed.
	ErrPartialFailure = errors.New("some items failed")
	ErrNoCodecs       = errors.New("no codec configured")
	ErrNoAudioFiles   = corpus.ErrNoAudioFiles
	// ErrStemCollision is recorded for a source sharing its dataset directory with an earlier source.
	ErrStemCollision  = corpus.ErrStemCollision
	ErrInvalidOptions = errors.New("invalid options")
)
