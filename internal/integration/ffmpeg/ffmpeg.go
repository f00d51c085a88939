package ffmpeg

import "time"

const (
	name = "ffmpeg"
	// Long reference recordings decoded from network storage can take a while.
	timeout = 10 * time.Minute
	// soxr at 28 bits of precision, matching a "very high quality" kaiser resampler.
	resampleFilter = "aresample=resampler=soxr:precision=28"
)
