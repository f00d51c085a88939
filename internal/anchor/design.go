// Package anchor generates low-pass filtered versions of reference signals, used as fixed low quality anchors
// when rating codec output.
//
// Filters are Chebyshev type I low-pass designs of the minimum order meeting the requested passband ripple and
// stopband attenuation, realized as a cascade of second-order sections.
package anchor

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"slices"
)

// ErrInvalidBand is returned for band edges or tolerances that cannot be realized.
var ErrInvalidBand = errors.New("invalid band")

// Section is one biquad: B are the numerator and A the denominator coefficients, A[0] is 1.
type Section struct {
	B [3]float64
	A [3]float64
}

// SOS is a cascade of second-order sections.
type SOS []Section

// Order returns the minimum Chebyshev type I order meeting the given edges (Hz) and tolerances (dB).
func Order(passband, stopband, gpass, gstop float64, sampleRate int) (int, error) {
	if err := validate(passband, stopband, gpass, gstop, sampleRate); err != nil {
		return 0, err
	}

	nyquist := float64(sampleRate) / 2

	// Pre-warped analog edges.
	passEdge := math.Tan(math.Pi * passband / nyquist / 2)
	stopEdge := math.Tan(math.Pi * stopband / nyquist / 2)

	gainStop := math.Pow(10, gstop/10)
	gainPass := math.Pow(10, gpass/10)

	order := math.Ceil(math.Acosh(math.Sqrt((gainStop-1)/(gainPass-1))) / math.Acosh(stopEdge/passEdge))

	return max(int(order), 1), nil
}

// Design returns the minimum order Chebyshev type I low-pass filter with the passband edge at passband Hz,
// at most gpass dB of passband ripple, and at least gstop dB of attenuation from stopband Hz.
func Design(passband, stopband, gpass, gstop float64, sampleRate int) (SOS, error) {
	order, err := Order(passband, stopband, gpass, gstop, sampleRate)
	if err != nil {
		return nil, err
	}

	return lowpass(order, gpass, passband/(float64(sampleRate)/2)), nil
}

func validate(passband, stopband, gpass, gstop float64, sampleRate int) error {
	nyquist := float64(sampleRate) / 2

	switch {
	case sampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidBand, sampleRate)
	case passband <= 0 || passband >= stopband:
		return fmt.Errorf("%w: passband %g must be positive and below stopband %g", ErrInvalidBand, passband, stopband)
	case stopband >= nyquist:
		return fmt.Errorf("%w: stopband %g must be below the Nyquist frequency %g", ErrInvalidBand, stopband, nyquist)
	case gpass <= 0:
		return fmt.Errorf("%w: passband ripple %g must be positive", ErrInvalidBand, gpass)
	case gstop <= 0:
		return fmt.Errorf("%w: stopband attenuation %g must be positive", ErrInvalidBand, gstop)
	}

	return nil
}

// lowpass designs an order N digital filter with ripple rp dB and normalized edge wn (1 is Nyquist).
func lowpass(order int, ripple, wn float64) SOS {
	// Analog prototype poles, unit cutoff.
	eps := math.Sqrt(math.Pow(10, ripple/10) - 1)
	mu := math.Asinh(1/eps) / float64(order)

	poles := make([]complex128, 0, order)
	for m := -order + 1; m < order; m += 2 {
		theta := math.Pi * float64(m) / float64(2*order)
		poles = append(poles, -cmplx.Sinh(complex(mu, theta)))
	}

	gain := complex(1, 0)
	for _, p := range poles {
		gain *= -p
	}

	if order%2 == 0 {
		gain /= complex(math.Sqrt(1+eps*eps), 0)
	}

	// Frequency scaling to the pre-warped edge, then bilinear transform (sampling rate normalized to 2).
	const fs2 = 4.0

	warped := fs2 * math.Tan(math.Pi*wn/2)

	digital := make([]complex128, order)
	denominator := complex(1, 0)

	for i, p := range poles {
		p *= complex(warped, 0)
		gain *= complex(warped, 0)
		denominator *= complex(fs2, 0) - p
		digital[i] = (complex(fs2, 0) + p) / (complex(fs2, 0) - p)
	}

	return sections(digital, real(gain/denominator))
}

// sections pairs conjugate poles into biquads. All zeros sit at z = -1. The overall gain goes to the first section.
func sections(poles []complex128, gain float64) SOS {
	var (
		upper []complex128
		reals []float64
	)

	const tolerance = 1e-12

	for _, p := range poles {
		switch {
		case math.Abs(imag(p)) < tolerance:
			reals = append(reals, real(p))
		case imag(p) > 0:
			upper = append(upper, p)
		}
	}

	// Poles far from the unit circle first.
	slices.SortFunc(upper, func(a, b complex128) int {
		return cmpFloat(cmplx.Abs(a), cmplx.Abs(b))
	})

	sos := make(SOS, 0, len(upper)+len(reals))

	for _, p := range reals {
		sos = append(sos, Section{B: [3]float64{1, 1, 0}, A: [3]float64{1, -p, 0}})
	}

	for _, p := range upper {
		sos = append(sos, Section{
			B: [3]float64{1, 2, 1},
			A: [3]float64{1, -2 * real(p), real(p)*real(p) + imag(p)*imag(p)},
		})
	}

	for i := range sos[0].B {
		sos[0].B[i] *= gain
	}

	return sos
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}

	return 0
}

// Response returns the magnitude of the cascade at freq Hz.
func (s SOS) Response(freq float64, sampleRate int) float64 {
	omega := 2 * math.Pi * freq / float64(sampleRate)
	z1 := cmplx.Exp(complex(0, -omega))
	z2 := z1 * z1

	response := complex(1, 0)

	for _, sec := range s {
		num := complex(sec.B[0], 0) + complex(sec.B[1], 0)*z1 + complex(sec.B[2], 0)*z2
		den := complex(sec.A[0], 0) + complex(sec.A[1], 0)*z1 + complex(sec.A[2], 0)*z2
		response *= num / den
	}

	return cmplx.Abs(response)
}
