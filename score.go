package codecbench

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/farcloser/codecbench/internal/integration/visqol"
	"github.com/farcloser/codecbench/internal/metadata"
	"github.com/farcloser/codecbench/internal/worker"
)

// ScoreOptions configures quality scoring.
type ScoreOptions struct {
	Visqol visqol.Options
	// Output defaults to visqol_scores.csv beside the pair table.
	Output   string
	Workers  int
	FailFast bool
	Progress TrackerFactory
}

// ScoreResult is the outcome of Score.
type ScoreResult struct {
	Path   string
	Scored []metadata.Scored
	// Failed lists the pairs that could not be scored.
	Failed []metadata.Pair
}

// Score runs VISQOL over every pair of the table at pairsFile and writes the score table.
// Pairs that fail are left out of the table. When any pair failed, the result comes with ErrPartialFailure.
func Score(ctx context.Context, pairsFile string, opts ScoreOptions) (*ScoreResult, error) {
	pairs, err := metadata.ReadPairs(pairsFile)
	if err != nil {
		return nil, err
	}

	result := &ScoreResult{Path: opts.Output}
	if result.Path == "" {
		result.Path = filepath.Join(filepath.Dir(pairsFile), metadata.ScoresFile)
	}

	mapOpts := worker.Options{Workers: opts.Workers, FailFast: opts.FailFast}

	if opts.Progress != nil {
		tracker := opts.Progress("score", len(pairs), func(idx int) string {
			return pairs[idx].EncPath
		})
		defer tracker.Finish()

		mapOpts.Progress = tracker.Update
	}

	results, mapErr := worker.Map(ctx, pairs, mapOpts, func(ctx context.Context, _ int, pair metadata.Pair) (float64, error) {
		return visqol.Score(ctx, pair.RefPath, pair.EncPath, opts.Visqol)
	})

	for idx, res := range results {
		if res.Err != nil {
			slog.Warn("scoring failed", "degraded", pairs[idx].EncPath, "error", res.Err)

			result.Failed = append(result.Failed, pairs[idx])

			continue
		}

		result.Scored = append(result.Scored, metadata.Scored{Pair: pairs[idx], Score: res.Value})
	}

	if err = metadata.WriteScores(result.Path, result.Scored); err != nil {
		return result, err
	}

	if mapErr != nil {
		return result, mapErr
	}

	if len(result.Failed) > 0 {
		return result, fmt.Errorf("%w: %d of %d pairs", ErrPartialFailure, len(result.Failed), len(pairs))
	}

	return result, nil
}
