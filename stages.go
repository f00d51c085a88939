package codecbench

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/farcloser/codecbench/internal/corpus"
	"github.com/farcloser/codecbench/internal/metadata"
	"github.com/farcloser/codecbench/internal/worker"
)

// builder runs the stages of one build and accumulates their report records.
type builder struct {
	opts    *BuildOptions
	logger  *slog.Logger
	records []Record
}

// mapOptions returns the worker options of a stage, and the function closing its tracker.
func (b *builder) mapOptions(stage string, total int, label func(idx int) string) (worker.Options, func()) {
	opts := worker.Options{Workers: b.opts.Workers, FailFast: b.opts.FailFast}

	if b.opts.Progress == nil {
		return opts, func() {}
	}

	tracker := b.opts.Progress(stage, total, label)
	opts.Progress = tracker.Update

	return opts, func() {
		tracker.Finish()
	}
}

func (b *builder) record(record Record, err error) {
	if err != nil {
		record.Error = err.Error()

		if !errors.Is(err, worker.ErrSkipped) {
			b.logger.Warn("item failed", "stage", record.Stage, "source", record.Source, "codec", record.Codec, "error", err)
		}
	}

	b.records = append(b.records, record)
}

func (b *builder) failures() []Record {
	var failed []Record

	for _, record := range b.records {
		if record.Error != "" {
			failed = append(failed, record)
		}
	}

	return failed
}

// references converts every source into the reference of its mirrored directory. Sources that lost their directory
// to another source fail with their collision.
func (b *builder) references(ctx context.Context, files []corpus.File, dirs []string, collisions []error) ([]job, error) {
	opts, done := b.mapOptions(StageReference, len(files), func(idx int) string {
		return files[idx].Rel
	})

	elapsed := make([]time.Duration, len(files))

	results, err := worker.Map(ctx, files, opts, func(ctx context.Context, idx int, file corpus.File) (string, error) {
		start := time.Now()
		defer func() {
			elapsed[idx] = time.Since(start)
		}()

		if collisions != nil && collisions[idx] != nil {
			return "", collisions[idx]
		}

		return makeReference(ctx, file.Abs, dirs[idx], b.opts)
	})

	done()

	jobs := make([]job, 0, len(files))

	for idx, result := range results {
		b.record(Record{
			Stage:      StageReference,
			Source:     files[idx].Rel,
			Reference:  result.Value,
			DurationMs: durationMs(elapsed[idx]),
		}, result.Err)

		if result.Err == nil {
			jobs = append(jobs, job{source: files[idx], dir: dirs[idx], reference: result.Value})
		}
	}

	return jobs, err
}

// encode runs every codec, one after the other, over all references. It returns the successful jobs.
func (b *builder) encode(ctx context.Context, references []job) ([]job, error) {
	var encoded []job

	for _, cdc := range b.opts.Codecs {
		jobs := make([]job, len(references))
		for idx, ref := range references {
			ref.codec = cdc
			ref.output = filepath.Join(ref.dir, cdc.Name()+".wav")
			jobs[idx] = ref
		}

		opts, done := b.mapOptions(StageEncode+" "+cdc.Name(), len(jobs), func(idx int) string {
			return jobs[idx].source.Rel
		})

		elapsed := make([]time.Duration, len(jobs))

		results, err := worker.Map(ctx, jobs, opts, func(ctx context.Context, idx int, item job) (struct{}, error) {
			start := time.Now()
			err := item.codec.EncodeDecode(ctx, item.reference, item.output, b.opts.Bitrate)
			elapsed[idx] = time.Since(start)

			return struct{}{}, err
		})

		done()

		for idx, result := range results {
			b.record(Record{
				Stage:      StageEncode,
				Source:     jobs[idx].source.Rel,
				Reference:  jobs[idx].reference,
				Codec:      cdc.Name(),
				Output:     jobs[idx].output,
				DurationMs: durationMs(elapsed[idx]),
			}, result.Err)

			if result.Err == nil {
				encoded = append(encoded, jobs[idx])
			}
		}

		if err != nil {
			return encoded, err
		}
	}

	return encoded, nil
}

// describe extracts the metadata of every decoded file and pairs it with its reference.
func (b *builder) describe(ctx context.Context, jobs []job) ([]metadata.Pair, error) {
	opts, done := b.mapOptions(StageMetadata, len(jobs), func(idx int) string {
		return jobs[idx].output
	})

	elapsed := make([]time.Duration, len(jobs))

	results, err := worker.Map(ctx, jobs, opts, func(ctx context.Context, idx int, item job) (metadata.Pair, error) {
		start := time.Now()
		defer func() {
			elapsed[idx] = time.Since(start)
		}()

		info, err := metadata.Extract(ctx, item.output)
		if err != nil {
			return metadata.Pair{}, err
		}

		return metadata.NewPair(item.output, item.reference, info), nil
	})

	done()

	pairs := make([]metadata.Pair, 0, len(jobs))

	for idx, result := range results {
		b.record(Record{
			Stage:      StageMetadata,
			Source:     jobs[idx].source.Rel,
			Reference:  jobs[idx].reference,
			Codec:      jobs[idx].codec.Name(),
			Output:     jobs[idx].output,
			DurationMs: durationMs(elapsed[idx]),
		}, result.Err)

		if result.Err == nil {
			pairs = append(pairs, result.Value)
		}
	}

	return pairs, err
}
