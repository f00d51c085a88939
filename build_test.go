package codecbench_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"github.com/farcloser/codecbench"
	"github.com/farcloser/codecbench/internal/audiofile"
	"github.com/farcloser/codecbench/internal/codec"
	"github.com/farcloser/codecbench/internal/metadata"
	"github.com/farcloser/codecbench/internal/types"
)

func buildOptions(original string) codecbench.BuildOptions {
	return codecbench.BuildOptions{
		OriginalDir:  original,
		ProcessedDir: filepath.Join(filepath.Dir(original), "processed"),
		CodecSet:     "test",
		Subset:       "all",
		Bitrate:      32000,
		Downmix:      true,
		Codecs:       []codec.Codec{&fakeCodec{name: "alpha"}, &fakeCodec{name: "beta"}},
		Workers:      2,
	}
}

func TestDatasetName(t *testing.T) {
	t.Parallel()

	if got := codecbench.DatasetName("default", "all", 13200, false); got != "codecs=default-subset=all-bitrate=13" {
		t.Errorf("DatasetName() = %q", got)
	}

	if got := codecbench.DatasetName("lc3", "wb", 32000, true); got != "codecs=lc3-subset=wb-bitrate=32-test" {
		t.Errorf("DatasetName() = %q", got)
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	opts := buildOptions(corpusDir(t))

	result, err := codecbench.Build(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}

	wantRoot := filepath.Join(opts.ProcessedDir, "codecs=test-subset=all-bitrate=32")
	if result.Root != wantRoot {
		t.Errorf("Root = %q, want %q", result.Root, wantRoot)
	}

	if filepath.Base(result.PairsFile) != "metadata_bitrate=32.csv" {
		t.Errorf("PairsFile = %q", result.PairsFile)
	}

	if len(result.Pairs) != 4 || len(result.Failures) != 0 {
		t.Fatalf("pairs = %d, failures = %d", len(result.Pairs), len(result.Failures))
	}

	ref := filepath.Join(wantRoot, "sub", "b", codecbench.ReferenceName)

	header, err := audiofile.Inspect(ref)
	if err != nil {
		t.Fatal(err)
	}

	if header.Format.Channels != 1 || header.Format.BitDepth != types.Depth16 || header.Format.SampleRate != 48000 {
		t.Errorf("reference format = %+v", header.Format)
	}

	for _, name := range []string{"alpha.wav", "beta.wav"} {
		if _, err := os.Stat(filepath.Join(wantRoot, "a", name)); err != nil {
			t.Error(err)
		}
	}

	pairs, err := metadata.ReadPairs(result.PairsFile)
	if err != nil {
		t.Fatal(err)
	}

	if len(pairs) != 4 {
		t.Fatalf("pair table has %d rows", len(pairs))
	}

	encoders := map[string]int{}
	for _, pair := range pairs {
		encoders[pair.Encoder]++

		if pair.Info.Format != "WAV" || pair.Info.Subtype != "PCM_16" || pair.Info.Channels != 1 {
			t.Errorf("pair info = %+v", pair.Info)
		}
	}

	if encoders["alpha"] != 2 || encoders["beta"] != 2 {
		t.Errorf("encoders = %v", encoders)
	}

	manifest, err := codecbench.ReadManifest(wantRoot)
	if err != nil {
		t.Fatal(err)
	}

	if manifest.RunID == "" || manifest.Sources != 2 || manifest.References != 2 || manifest.Pairs != 4 {
		t.Errorf("manifest = %+v", manifest)
	}

	records, err := codecbench.ReadReport(wantRoot)
	if err != nil {
		t.Fatal(err)
	}

	// Two references, four encodes, four metadata extractions.
	if len(records) != 10 {
		t.Errorf("report has %d records", len(records))
	}
}

func TestBuildOutputExists(t *testing.T) {
	t.Parallel()

	opts := buildOptions(corpusDir(t))

	if _, err := codecbench.Build(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	if _, err := codecbench.Build(context.Background(), opts); !errors.Is(err, codecbench.ErrOutputExists) {
		t.Errorf("second Build() error = %v, want ErrOutputExists", err)
	}
}

func TestBuildPartialFailure(t *testing.T) {
	t.Parallel()

	opts := buildOptions(corpusDir(t))
	opts.Codecs = []codec.Codec{&fakeCodec{name: "alpha"}, &fakeCodec{name: "beta", failOn: "/b/"}}

	result, err := codecbench.Build(context.Background(), opts)
	if !errors.Is(err, codecbench.ErrPartialFailure) {
		t.Fatalf("Build() error = %v, want ErrPartialFailure", err)
	}

	if len(result.Pairs) != 3 {
		t.Errorf("pairs = %d, want 3", len(result.Pairs))
	}

	if len(result.Failures) != 1 || result.Failures[0].Stage != codecbench.StageEncode || result.Failures[0].Codec != "beta" {
		t.Errorf("failures = %+v", result.Failures)
	}

	if result.Manifest.Failures != 1 {
		t.Errorf("manifest failures = %d", result.Manifest.Failures)
	}

	pairs, err := metadata.ReadPairs(result.PairsFile)
	if err != nil {
		t.Fatal(err)
	}

	if len(pairs) != 3 {
		t.Errorf("pair table has %d rows", len(pairs))
	}
}

func TestBuildStemCollision(t *testing.T) {
	t.Parallel()

	original := filepath.Join(t.TempDir(), "original")
	writeSource(t, filepath.Join(original, "a.wav"), 16000, 1, types.Depth16)
	writeSource(t, filepath.Join(original, "a.WAV"), 48000, 1, types.Depth16)

	if entries, err := os.ReadDir(original); err != nil || len(entries) != 2 {
		t.Skip("file system folds case")
	}

	opts := buildOptions(original)
	opts.Extensions = []string{"wav"}

	result, err := codecbench.Build(context.Background(), opts)
	if !errors.Is(err, codecbench.ErrPartialFailure) {
		t.Fatalf("Build() error = %v, want ErrPartialFailure", err)
	}

	if len(result.Failures) != 1 {
		t.Fatalf("failures = %+v, want the colliding source", result.Failures)
	}

	failure := result.Failures[0]
	if failure.Stage != codecbench.StageReference || failure.Source != "a.wav" ||
		!strings.Contains(failure.Error, codecbench.ErrStemCollision.Error()) {
		t.Errorf("failure = %+v", failure)
	}

	if result.Manifest.References != 1 {
		t.Errorf("manifest references = %d, want 1", result.Manifest.References)
	}

	pairs, err := metadata.ReadPairs(result.PairsFile)
	if err != nil {
		t.Fatal(err)
	}

	if len(pairs) != 2 {
		t.Fatalf("pair table has %d rows, want 2", len(pairs))
	}

	seen := map[string]bool{}

	for _, pair := range pairs {
		if seen[pair.EncPath] {
			t.Errorf("%s listed twice", pair.EncPath)
		}

		seen[pair.EncPath] = true

		if pair.Info.SampleRate != 48000 {
			t.Errorf("%s sample rate = %d, want the 48 kHz source", pair.EncPath, pair.Info.SampleRate)
		}
	}
}

func TestBuildFailFast(t *testing.T) {
	t.Parallel()

	opts := buildOptions(corpusDir(t))
	opts.Codecs = []codec.Codec{&fakeCodec{name: "alpha", failOn: "processed"}, &fakeCodec{name: "beta"}}
	opts.FailFast = true
	opts.Workers = 1

	result, err := codecbench.Build(context.Background(), opts)
	if !errors.Is(err, errFakeFailure) {
		t.Fatalf("Build() error = %v, want the codec failure", err)
	}

	if len(result.Pairs) != 0 {
		t.Errorf("pairs = %d, want none", len(result.Pairs))
	}

	if _, err := os.Stat(result.PairsFile); err != nil {
		t.Errorf("pair table not written: %v", err)
	}
}

func TestBuildFilters(t *testing.T) {
	t.Parallel()

	original := corpusDir(t)
	writeSource(t, filepath.Join(original, "c.wav"), 16000, 1, types.Depth16)

	opts := buildOptions(original)
	opts.SampleRates = []int{16000}
	opts.TestRun = true
	opts.TestRunLimit = 1

	result, err := codecbench.Build(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}

	if filepath.Base(result.Root) != "codecs=test-subset=all-bitrate=32-test" {
		t.Errorf("Root = %q", result.Root)
	}

	if result.Manifest.Sources != 1 || len(result.Pairs) != 2 {
		t.Errorf("sources = %d, pairs = %d", result.Manifest.Sources, len(result.Pairs))
	}

	if _, err := os.Stat(filepath.Join(result.Root, "a", codecbench.ReferenceName)); err != nil {
		t.Error(err)
	}
}

func TestBuildInvalidOptions(t *testing.T) {
	t.Parallel()

	original := corpusDir(t)

	opts := buildOptions(original)
	opts.Codecs = nil

	if _, err := codecbench.Build(context.Background(), opts); !errors.Is(err, codecbench.ErrNoCodecs) {
		t.Errorf("no codecs: error = %v", err)
	}

	opts = buildOptions(original)
	opts.Bitrate = 0

	if _, err := codecbench.Build(context.Background(), opts); !errors.Is(err, codecbench.ErrInvalidOptions) {
		t.Errorf("zero bitrate: error = %v", err)
	}

	opts = buildOptions(original)
	opts.BitDepth = types.Depth32

	if _, err := codecbench.Build(context.Background(), opts); !errors.Is(err, codecbench.ErrInvalidOptions) {
		t.Errorf("32-bit references: error = %v", err)
	}

	opts = buildOptions(original)
	opts.Codecs = []codec.Codec{&fakeCodec{name: "alpha"}, &fakeCodec{name: "alpha"}}

	if _, err := codecbench.Build(context.Background(), opts); !errors.Is(err, codecbench.ErrInvalidOptions) {
		t.Errorf("duplicate codecs: error = %v", err)
	}

	opts = buildOptions(original)
	opts.SampleRates = []int{8000}

	if _, err := codecbench.Build(context.Background(), opts); !errors.Is(err, codecbench.ErrNoAudioFiles) {
		t.Errorf("empty subset: error = %v", err)
	}
}

func TestBuildLocked(t *testing.T) {
	t.Parallel()

	opts := buildOptions(corpusDir(t))

	if err := os.MkdirAll(opts.ProcessedDir, 0o755); err != nil {
		t.Fatal(err)
	}

	lock := flock.New(filepath.Join(opts.ProcessedDir, ".codecbench.lock"))

	locked, err := lock.TryLock()
	if err != nil || !locked {
		t.Fatalf("TryLock() = %v, %v", locked, err)
	}

	t.Cleanup(func() {
		_ = lock.Unlock()
	})

	if _, err := codecbench.Build(context.Background(), opts); !errors.Is(err, codecbench.ErrBuildLocked) {
		t.Errorf("Build() error = %v, want ErrBuildLocked", err)
	}
}

type countingTracker struct {
	updates  int
	finished bool
}

func (c *countingTracker) Update(_, _, _ int, _ error) {
	c.updates++
}

func (c *countingTracker) Finish() int {
	c.finished = true

	return 0
}

func TestBuildProgress(t *testing.T) {
	t.Parallel()

	opts := buildOptions(corpusDir(t))
	trackers := map[string]*countingTracker{}

	opts.Progress = func(stage string, _ int, _ func(int) string) codecbench.Tracker {
		tracker := &countingTracker{}
		trackers[stage] = tracker

		return tracker
	}

	if _, err := codecbench.Build(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	for _, stage := range []string{"reference", "encode alpha", "encode beta", "metadata"} {
		tracker, ok := trackers[stage]
		if !ok {
			t.Errorf("no tracker for %q", stage)

			continue
		}

		if tracker.updates != 2 && stage != "metadata" {
			t.Errorf("%s: %d updates", stage, tracker.updates)
		}

		if !tracker.finished {
			t.Errorf("%s: not finished", stage)
		}
	}

	if trackers["metadata"].updates != 4 {
		t.Errorf("metadata: %d updates", trackers["metadata"].updates)
	}
}
