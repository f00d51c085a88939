package codecbench

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/farcloser/codecbench/internal/corpus"
	"github.com/farcloser/codecbench/internal/metadata"
	"github.com/farcloser/codecbench/internal/worker"
)

// InventoryOptions configures Inventory.
type InventoryOptions struct {
	// Extensions defaults to corpus.DefaultExtensions.
	Extensions []string
	// Output defaults to metadata.csv inside the scanned directory.
	Output   string
	Workers  int
	Progress TrackerFactory
}

// Inventory describes every audio file under dir and writes the inventory table.
// Files whose metadata cannot be read are left out, and reported through the joined error.
func Inventory(ctx context.Context, dir string, opts InventoryOptions) (string, []metadata.Entry, error) {
	files, err := corpus.Discover(dir, opts.Extensions)
	if err != nil {
		return "", nil, err
	}

	output := opts.Output
	if output == "" {
		output = filepath.Join(dir, metadata.InventoryFile)
	}

	mapOpts := worker.Options{Workers: opts.Workers}

	if opts.Progress != nil {
		tracker := opts.Progress("metadata", len(files), func(idx int) string {
			return files[idx].Rel
		})
		defer tracker.Finish()

		mapOpts.Progress = tracker.Update
	}

	results, mapErr := worker.Map(ctx, files, mapOpts, func(ctx context.Context, _ int, file corpus.File) (metadata.Info, error) {
		return metadata.Extract(ctx, file.Abs)
	})

	entries := make([]metadata.Entry, 0, len(files))

	for idx, res := range results {
		if res.Err == nil {
			entries = append(entries, metadata.Entry{AbsPath: files[idx].Abs, RelPath: files[idx].Rel, Info: res.Value})
		}
	}

	if err = metadata.WriteInventory(output, entries); err != nil {
		return output, entries, err
	}

	if mapErr != nil {
		return output, entries, mapErr
	}

	return output, entries, errors.Join(worker.Errors(results)...)
}
