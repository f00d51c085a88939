package codecbench

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/farcloser/codecbench/internal/metadata"
)

// EncoderStats summarizes the scores of one encoder.
type EncoderStats struct {
	Encoder string  `json:"encoder"`
	Count   int     `json:"count"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
	Min     float64 `json:"min"`
	Median  float64 `json:"median"`
	Max     float64 `json:"max"`
}

// Digest groups scores by encoder. Results are sorted by decreasing mean, then by name.
func Digest(scored []metadata.Scored) []EncoderStats {
	groups := map[string][]float64{}

	for _, item := range scored {
		groups[item.Encoder] = append(groups[item.Encoder], item.Score)
	}

	digest := make([]EncoderStats, 0, len(groups))

	for encoder, scores := range groups {
		slices.Sort(scores)

		stats := EncoderStats{
			Encoder: encoder,
			Count:   len(scores),
			Min:     floats.Min(scores),
			Max:     floats.Max(scores),
			Median:  median(scores),
		}

		if len(scores) > 1 {
			stats.Mean, stats.StdDev = stat.MeanStdDev(scores, nil)
		} else {
			stats.Mean = scores[0]
		}

		digest = append(digest, stats)
	}

	slices.SortFunc(digest, func(a, b EncoderStats) int {
		if c := cmp.Compare(b.Mean, a.Mean); c != 0 {
			return c
		}

		return cmp.Compare(a.Encoder, b.Encoder)
	})

	return digest
}

// median of a sorted sample. Even-sized samples average their two middle values.
func median(sorted []float64) float64 {
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}

	return (sorted[mid-1] + sorted[mid]) / 2
}
