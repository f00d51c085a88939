// Package ffprobe reads stream metadata of audio files through the ffprobe binary.
package ffprobe

import "time"

const (
	name = "ffprobe"
	// Corpora often live on network mounts. Probing only reads headers, but the first access may be slow.
	timeout = 60 * time.Second
)
