// Package levels measures decoded audio: peak and RMS level, DC offset, and runs of full-scale samples.
package levels

import (
	"math"

	"github.com/farcloser/codecbench/internal/audiofile"
)

const (
	// FloorDB is reported for silent signals.
	FloorDB = -120.0

	// A sample within one 16-bit step of full scale counts as clipped, whatever the storage depth.
	clipRatio = 32767.0 / 32768.0
	// Runs shorter than minRun are legitimate peaks.
	minRun = 2
)

// Channel holds the measurements of one channel.
type Channel struct {
	PeakDBFS       float64
	RMSDBFS        float64
	DCOffset       float64
	ClippedSamples uint64
	ClipEvents     uint64
	LongestRun     uint64
}

// Levels holds the measurements of a buffer. Aggregates cover all channels.
type Levels struct {
	PeakDBFS       float64
	RMSDBFS        float64
	DCOffset       float64
	ClippedSamples uint64
	ClipEvents     uint64
	LongestRun     uint64
	Channels       []Channel
}

type accumulator struct {
	sum, sumSquares, peak float64
	run                   uint64
	channel               Channel
}

func (a *accumulator) endRun() {
	if a.run >= minRun {
		a.channel.ClipEvents++
		a.channel.ClippedSamples += a.run
		a.channel.LongestRun = max(a.channel.LongestRun, a.run)
	}

	a.run = 0
}

// Measure scans buf once.
func Measure(buf *audiofile.Buffer) *Levels {
	channels := max(int(buf.Format.Channels), 1) //nolint:gosec // channel count is small
	fullScale := buf.Format.BitDepth.FullScale()
	acc := make([]accumulator, channels)

	for idx, sample := range buf.Data {
		chAcc := &acc[idx%channels]
		value := float64(sample) / fullScale

		chAcc.sum += value
		chAcc.sumSquares += value * value
		chAcc.peak = max(chAcc.peak, math.Abs(value))

		if math.Abs(value) >= clipRatio {
			chAcc.run++
		} else {
			chAcc.endRun()
		}
	}

	frames := float64(len(buf.Data) / channels)
	result := &Levels{Channels: make([]Channel, channels)}

	var peak, sumSquares float64

	for ch := range acc {
		chAcc := &acc[ch]
		chAcc.endRun()

		if frames > 0 {
			chAcc.channel.DCOffset = chAcc.sum / frames
			chAcc.channel.RMSDBFS = decibels(math.Sqrt(chAcc.sumSquares / frames))
		} else {
			chAcc.channel.RMSDBFS = FloorDB
		}

		chAcc.channel.PeakDBFS = decibels(chAcc.peak)

		peak = max(peak, chAcc.peak)
		sumSquares += chAcc.sumSquares

		result.DCOffset += math.Abs(chAcc.channel.DCOffset)
		result.ClippedSamples += chAcc.channel.ClippedSamples
		result.ClipEvents += chAcc.channel.ClipEvents
		result.LongestRun = max(result.LongestRun, chAcc.channel.LongestRun)
		result.Channels[ch] = chAcc.channel
	}

	result.DCOffset /= float64(channels)
	result.PeakDBFS = decibels(peak)
	result.RMSDBFS = FloorDB

	if len(buf.Data) > 0 {
		result.RMSDBFS = decibels(math.Sqrt(sumSquares / float64(len(buf.Data))))
	}

	return result
}

func decibels(ratio float64) float64 {
	db := 20 * math.Log10(ratio)
	if math.IsInf(db, -1) || db < FloorDB {
		return FloorDB
	}

	return db
}
