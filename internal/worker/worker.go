// Package worker runs a function over a list of items with bounded concurrency.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// ErrSkipped marks items that never ran because the map was cancelled.
var ErrSkipped = errors.New("skipped")

// Options tune a Map call.
type Options struct {
	// Workers bounds concurrency. Defaults to the number of CPUs.
	Workers int
	// FailFast cancels outstanding items on the first error.
	FailFast bool
	// Progress, when set, is called after each item completes. Calls are serialized.
	Progress func(done, total, idx int, err error)
}

// Result is the outcome of one item.
type Result[O any] struct {
	Value O
	Err   error
}

// Map applies fn to every item and returns results in input order.
// Per-item failures are reported in the results. The returned error is the first item error in fail-fast mode,
// or the context error when ctx was cancelled.
func Map[I, O any](
	ctx context.Context,
	items []I,
	opts Options,
	fn func(ctx context.Context, idx int, item I) (O, error),
) ([]Result[O], error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Result[O], len(items))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	var (
		progress atomic.Int64
		report   = make(chan struct{}, 1)
	)

	report <- struct{}{}

	for idx, item := range items {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				results[idx].Err = fmt.Errorf("%w: %w", ErrSkipped, context.Cause(groupCtx))

				return nil
			}

			value, err := fn(groupCtx, idx, item)
			results[idx] = Result[O]{Value: value, Err: err}

			if opts.Progress != nil {
				<-report
				opts.Progress(int(progress.Add(1)), len(items), idx, err)
				report <- struct{}{}
			}

			if err != nil && opts.FailFast {
				return err
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return results, err
	}

	return results, ctx.Err()
}

// Errors collects the item errors of results, in input order.
func Errors[O any](results []Result[O]) []error {
	var errs []error

	for _, result := range results {
		if result.Err != nil {
			errs = append(errs, result.Err)
		}
	}

	return errs
}
