// Package visqol scores degraded audio against its reference with the ViSQOL command line tool.
package visqol

import (
	"errors"
	"time"
)

const (
	name    = "visqol"
	timeout = 5 * time.Minute

	// Audio mode compares full-band signals at 48 kHz, speech mode wide-band signals at 16 kHz.
	audioRate  = 48000
	speechRate = 16000
)

var (
	// ErrSampleRateMismatch is returned when reference and degraded files do not share a sample rate.
	ErrSampleRateMismatch = errors.New("sample rates of reference and degraded file mismatch")
	errNoScore            = errors.New("no MOS-LQO in visqol output")
)

// Options configures the tool.
type Options struct {
	// Binary is the visqol executable, a bare name is looked up in PATH.
	Binary string
	// Model is the SVR model file used to map similarity to quality. Empty uses the tool's default.
	Model string
	// SpeechMode selects the speech model, scored at 16 kHz.
	SpeechMode bool
	// Timeout bounds one comparison.
	Timeout time.Duration
}

func (o Options) rate() int {
	if o.SpeechMode {
		return speechRate
	}

	return audioRate
}
