package main

import (
	"cmp"
	"slices"

	"github.com/farcloser/codecbench/internal/metadata"
)

// lowestFirst returns the scores of encoder, worst first.
func lowestFirst(scored []metadata.Scored, encoder string) []metadata.Scored {
	var picked []metadata.Scored

	for _, item := range scored {
		if item.Encoder == encoder {
			picked = append(picked, item)
		}
	}

	slices.SortStableFunc(picked, func(a, b metadata.Scored) int {
		return cmp.Compare(a.Score, b.Score)
	})

	return picked
}
