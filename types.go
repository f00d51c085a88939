//nolint:tagliatelle
package codecbench

import (
	"time"

	"github.com/farcloser/codecbench/internal/codec"
	"github.com/farcloser/codecbench/internal/metadata"
	"github.com/farcloser/codecbench/internal/types"
)

// Tracker receives per-item completion of one stage.
type Tracker interface {
	Update(done, total, idx int, err error)
	Finish() int
}

// TrackerFactory starts tracking a stage of total items. label names item idx.
type TrackerFactory func(stage string, total int, label func(idx int) string) Tracker

// BuildOptions configures a dataset build.
type BuildOptions struct {
	// OriginalDir holds the corpus.
	OriginalDir string
	// ProcessedDir receives the dataset directory.
	ProcessedDir string
	// CodecSet and Subset name the dataset directory.
	CodecSet string
	Subset   string
	// SampleRates restricts the corpus. Empty keeps every rate.
	SampleRates []int
	// Extensions of corpus files. Defaults to wav and flac.
	Extensions []string
	// Bitrate in bits per second.
	Bitrate int
	// TestRun limits the corpus to TestRunLimit files and marks the directory name.
	TestRun      bool
	TestRunLimit int
	// ResampleFullband resamples 44.1 kHz sources to 48 kHz.
	ResampleFullband bool
	// Downmix averages sources to mono.
	Downmix bool
	// BitDepth of the references. Defaults to 16.
	BitDepth types.BitDepth
	// Codecs run in the given order, usually sorted by name.
	Codecs []codec.Codec
	// Workers bounds concurrency of every stage.
	Workers int
	// FailFast aborts the build at the first failing item.
	FailFast bool
	// Progress, when set, tracks every stage.
	Progress TrackerFactory
}

// Stage names, as they appear in reports.
const (
	StageReference = "reference"
	StageEncode    = "encode"
	StageMetadata  = "metadata"
)

// Record is one line of the build report.
type Record struct {
	Stage      string  `json:"stage"`
	Source     string  `json:"source,omitempty"`
	Reference  string  `json:"reference,omitempty"`
	Codec      string  `json:"codec,omitempty"`
	Output     string  `json:"output,omitempty"`
	Error      string  `json:"error,omitempty"`
	DurationMs float64 `json:"duration_ms"`
}

// Timing captures wall-clock durations of the build stages in milliseconds.
type Timing struct {
	ReferenceMs float64 `json:"reference_ms"`
	EncodeMs    float64 `json:"encode_ms"`
	MetadataMs  float64 `json:"metadata_ms"`
	TotalMs     float64 `json:"total_ms"`
}

// Manifest describes a built dataset. It is written as manifest.json at the dataset root.
type Manifest struct {
	RunID       string    `json:"run_id"`
	Version     string    `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	OriginalDir string    `json:"original_dir"`
	Root        string    `json:"root"`
	PairsFile   string    `json:"pairs_file"`
	CodecSet    string    `json:"codec_set"`
	Subset      string    `json:"subset"`
	SampleRates []int     `json:"sample_rates,omitempty"`
	Bitrate     int       `json:"bitrate"`
	TestRun     bool      `json:"test_run"`
	Codecs      []string  `json:"codecs"`
	Sources     int       `json:"sources"`
	References  int       `json:"references"`
	Pairs       int       `json:"pairs"`
	Failures    int       `json:"failures"`
	Timing      Timing    `json:"timing"`
}

// BuildResult is the outcome of a build.
type BuildResult struct {
	Root      string
	PairsFile string
	Manifest  *Manifest
	Pairs     []metadata.Pair
	// Failures lists the records of failed items.
	Failures []Record
}
