package codecbench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/farcloser/codecbench/internal/codec"
	"github.com/farcloser/codecbench/internal/corpus"
	"github.com/farcloser/codecbench/internal/metadata"
	"github.com/farcloser/codecbench/internal/types"
	"github.com/farcloser/codecbench/version"
)

const lockFile = ".codecbench.lock"

// DatasetName names the directory of a dataset built from codecSet and subset at bitrate (bits per second).
func DatasetName(codecSet, subset string, bitrate int, testRun bool) string {
	name := "codecs=" + codecSet + "-subset=" + subset + "-bitrate=" + strconv.Itoa(bitrate/1000)
	if testRun {
		name += "-test"
	}

	return name
}

type job struct {
	source    corpus.File
	dir       string
	reference string
	codec     codec.Codec
	output    string
}

// Build creates a dataset under opts.ProcessedDir: one reference per corpus file, one decoded file per codec beside
// it, and the pair table describing them.
// Item failures do not stop the build unless opts.FailFast is set. When any item failed, Build writes every output
// it can and returns the result along with ErrPartialFailure.
func Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	start := time.Now()

	if err := opts.validate(); err != nil {
		return nil, err
	}

	files, err := collect(ctx, &opts)
	if err != nil {
		return nil, err
	}

	root := filepath.Join(opts.ProcessedDir, DatasetName(opts.CodecSet, opts.Subset, opts.Bitrate, opts.TestRun))

	if err = os.MkdirAll(opts.ProcessedDir, 0o755); err != nil { //nolint:gosec // dataset directories are shared
		return nil, err
	}

	lock := flock.New(filepath.Join(opts.ProcessedDir, lockFile))

	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", opts.ProcessedDir, err)
	}

	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrBuildLocked, opts.ProcessedDir)
	}

	defer func() {
		_ = lock.Unlock()
	}()

	if err = os.Mkdir(root, 0o755); err != nil { //nolint:gosec // dataset directories are shared
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrOutputExists, root)
		}

		return nil, err
	}

	runID := uuid.NewString()
	logger := slog.With("run_id", runID)

	logger.Info("building dataset", "root", root, "files", len(files), "codecs", len(opts.Codecs), "bitrate", opts.Bitrate)

	dirs, collisions, err := corpus.Mirror(files, root)
	if err != nil {
		return nil, err
	}

	run := &builder{opts: &opts, logger: logger}

	manifest := &Manifest{
		RunID:       runID,
		Version:     version.Version(),
		CreatedAt:   start.UTC(),
		OriginalDir: opts.OriginalDir,
		Root:        root,
		PairsFile:   filepath.Join(root, metadata.PairFile(opts.Bitrate)),
		CodecSet:    opts.CodecSet,
		Subset:      opts.Subset,
		SampleRates: opts.SampleRates,
		Bitrate:     opts.Bitrate,
		TestRun:     opts.TestRun,
		Sources:     len(files),
	}

	for _, cdc := range opts.Codecs {
		manifest.Codecs = append(manifest.Codecs, cdc.Name())
	}

	result := &BuildResult{Root: root, PairsFile: manifest.PairsFile, Manifest: manifest}

	stageStart := time.Now()
	jobs, stageErr := run.references(ctx, files, dirs, collisions)
	manifest.Timing.ReferenceMs = durationMs(time.Since(stageStart))
	manifest.References = len(jobs)

	if stageErr == nil {
		stageStart = time.Now()
		jobs, stageErr = run.encode(ctx, jobs)
		manifest.Timing.EncodeMs = durationMs(time.Since(stageStart))
	}

	if stageErr == nil {
		stageStart = time.Now()
		result.Pairs, stageErr = run.describe(ctx, jobs)
		manifest.Timing.MetadataMs = durationMs(time.Since(stageStart))
	}

	if stageErr != nil {
		logger.Error("build aborted", "error", stageErr)
	}

	if err = metadata.WritePairs(result.PairsFile, result.Pairs); err != nil {
		return result, err
	}

	result.Failures = run.failures()
	manifest.Pairs = len(result.Pairs)
	manifest.Failures = len(result.Failures)
	manifest.Timing.TotalMs = durationMs(time.Since(start))

	if err = writeManifest(root, manifest); err != nil {
		return result, err
	}

	if err = writeReport(root, run.records); err != nil {
		return result, err
	}

	logger.Info("dataset built",
		"pairs", manifest.Pairs,
		"failures", manifest.Failures,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	if stageErr != nil {
		return result, stageErr
	}

	if len(result.Failures) > 0 {
		return result, fmt.Errorf("%w: %d of %d items", ErrPartialFailure, len(result.Failures), len(run.records))
	}

	return result, nil
}

func (opts *BuildOptions) validate() error {
	if opts.Bitrate <= 0 {
		return fmt.Errorf("%w: bitrate must be positive, got %d", ErrInvalidOptions, opts.Bitrate)
	}

	if len(opts.Codecs) == 0 {
		return ErrNoCodecs
	}

	if opts.BitDepth == 0 {
		opts.BitDepth = types.Depth16
	}

	if opts.BitDepth != types.Depth16 && opts.BitDepth != types.Depth24 {
		return fmt.Errorf("%w: reference bit depth must be 16 or 24, got %d", ErrInvalidOptions, opts.BitDepth)
	}

	if opts.OriginalDir == "" || opts.ProcessedDir == "" {
		return fmt.Errorf("%w: original and processed directories are required", ErrInvalidOptions)
	}

	seen := make(map[string]struct{}, len(opts.Codecs))

	for _, cdc := range opts.Codecs {
		if _, ok := seen[cdc.Name()]; ok {
			return fmt.Errorf("%w: duplicate codec %q", ErrInvalidOptions, cdc.Name())
		}

		seen[cdc.Name()] = struct{}{}
	}

	return nil
}

// collect discovers the corpus and applies the subset and test-run filters.
func collect(ctx context.Context, opts *BuildOptions) ([]corpus.File, error) {
	files, err := corpus.Discover(opts.OriginalDir, opts.Extensions)
	if err != nil {
		return nil, err
	}

	files, errs := corpus.FilterSampleRates(ctx, files, opts.SampleRates, metadata.SampleRate)
	for _, err := range errs {
		slog.Warn("skipping unreadable source", "error", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opts.TestRun {
		files = corpus.Limit(files, opts.TestRunLimit)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoAudioFiles, opts.OriginalDir)
	}

	return files, nil
}
