// Package output provides shared result serialization for codecbench structured output.
package output

import (
	"strconv"

	"github.com/farcloser/codecbench"
	"github.com/farcloser/codecbench/internal/levels"
	"github.com/farcloser/codecbench/internal/metadata"
)

// InfoToMap converts audio metadata into the map structure used by the formatters.
func InfoToMap(info metadata.Info) map[string]any {
	return map[string]any{
		"format":      info.Format,
		"subtype":     info.Subtype,
		"sample_rate": info.SampleRate,
		"channels":    info.Channels,
		"duration":    strconv.FormatFloat(info.Duration, 'f', 3, 64) + "s",
	}
}

// StatsToMap converts the score statistics of one encoder.
func StatsToMap(stats codecbench.EncoderStats) map[string]any {
	return map[string]any{
		"count":   stats.Count,
		"mean":    round(stats.Mean),
		"std_dev": round(stats.StdDev),
		"min":     round(stats.Min),
		"median":  round(stats.Median),
		"max":     round(stats.Max),
	}
}

// LevelsToMap converts level measurements, with one entry per channel.
func LevelsToMap(result *levels.Levels) map[string]any {
	channels := make([]any, 0, len(result.Channels))
	for _, ch := range result.Channels {
		channels = append(channels, map[string]any{
			"peak":            decibels(ch.PeakDBFS),
			"rms":             decibels(ch.RMSDBFS),
			"dc_offset":       strconv.FormatFloat(ch.DCOffset, 'f', 5, 64),
			"clipped_samples": ch.ClippedSamples,
			"clip_events":     ch.ClipEvents,
		})
	}

	return map[string]any{
		"peak":            decibels(result.PeakDBFS),
		"rms":             decibels(result.RMSDBFS),
		"dc_offset":       strconv.FormatFloat(result.DCOffset, 'f', 5, 64),
		"clipped_samples": result.ClippedSamples,
		"clip_events":     result.ClipEvents,
		"longest_clip":    result.LongestRun,
		"channels":        channels,
	}
}

func decibels(value float64) string {
	return strconv.FormatFloat(value, 'f', 1, 64) + " dBFS"
}

func round(value float64) string {
	return strconv.FormatFloat(value, 'f', 3, 64)
}
