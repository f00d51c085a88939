package codecbench

import (
	"context"

	"github.com/farcloser/codecbench/internal/anchor"
	"github.com/farcloser/codecbench/internal/metadata"
	"github.com/farcloser/codecbench/internal/worker"
)

// AnchorOptions configures anchor generation.
type AnchorOptions struct {
	// Bands defaults to anchor.DefaultBands.
	Bands    []anchor.Band
	Workers  int
	FailFast bool
	Progress TrackerFactory
}

// Anchors writes the low-pass anchors of every reference listed in the pair table at pairsFile.
// It returns the files written.
func Anchors(ctx context.Context, pairsFile string, opts AnchorOptions) ([]string, error) {
	pairs, err := metadata.ReadPairs(pairsFile)
	if err != nil {
		return nil, err
	}

	refs := uniqueReferences(pairs)

	bands := opts.Bands
	if len(bands) == 0 {
		bands = anchor.DefaultBands()
	}

	mapOpts := worker.Options{Workers: opts.Workers, FailFast: opts.FailFast}

	if opts.Progress != nil {
		tracker := opts.Progress("anchors", len(refs), func(idx int) string {
			return refs[idx]
		})
		defer tracker.Finish()

		mapOpts.Progress = tracker.Update
	}

	return anchor.Generate(ctx, refs, bands, mapOpts)
}

func uniqueReferences(pairs []metadata.Pair) []string {
	refs := make([]string, 0, len(pairs))
	seen := make(map[string]struct{}, len(pairs))

	for _, pair := range pairs {
		if _, ok := seen[pair.RefPath]; ok {
			continue
		}

		seen[pair.RefPath] = struct{}{}
		refs = append(refs, pair.RefPath)
	}

	return refs
}
