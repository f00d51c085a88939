package anchor

// Filter runs one channel of samples through the cascade, starting from rest.
func (s SOS) Filter(samples []float64) []float64 {
	out := make([]float64, len(samples))
	copy(out, samples)

	for _, sec := range s {
		// Direct form II transposed.
		var z1, z2 float64

		for i, x := range out {
			y := sec.B[0]*x + z1
			z1 = sec.B[1]*x - sec.A[1]*y + z2
			z2 = sec.B[2]*x - sec.A[2]*y
			out[i] = y
		}
	}

	return out
}

// FilterInterleaved filters every channel of interleaved samples independently.
func (s SOS) FilterInterleaved(samples []float64, channels int) []float64 {
	if channels <= 1 {
		return s.Filter(samples)
	}

	frames := len(samples) / channels
	out := make([]float64, len(samples))
	channel := make([]float64, frames)

	for ch := range channels {
		for i := range frames {
			channel[i] = samples[i*channels+ch]
		}

		for i, y := range s.Filter(channel) {
			out[i*channels+ch] = y
		}
	}

	return out
}
