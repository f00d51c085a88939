package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/farcloser/codecbench/internal/anchor"
	"github.com/farcloser/codecbench/internal/codec"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths locates the dataset on disk.
type Paths struct {
	// DataDir holds original/ and processed/.
	DataDir string `toml:"data_dir"`
	// OriginalDir overrides <data_dir>/original.
	OriginalDir string `toml:"original_dir"`
	// ProcessedDir overrides <data_dir>/processed.
	ProcessedDir string `toml:"processed_dir"`
}

// Subset restricts the corpus.
type Subset struct {
	Name string `toml:"name"`
	// SampleRates keeps only files at these rates. Empty keeps everything.
	SampleRates []int `toml:"sample_rates"`
}

// Dataset controls a build.
type Dataset struct {
	// CodecSet names the configured codec collection in the output directory name.
	CodecSet string `toml:"codec_set"`
	// Bitrate in bits per second, shared by every codec.
	Bitrate      int      `toml:"bitrate"`
	Extensions   []string `toml:"extensions"`
	TestRun      bool     `toml:"test_run"`
	TestRunLimit int      `toml:"test_run_limit"`
	Workers      int      `toml:"workers"`
	FailFast     bool     `toml:"fail_fast"`
	Subset       Subset   `toml:"subset"`
}

// Reference controls how originals become references.
type Reference struct {
	// ResampleFullband resamples 44.1 kHz sources to 48 kHz.
	ResampleFullband bool `toml:"resample_fullband"`
	// Downmix averages all channels to mono.
	Downmix  bool `toml:"downmix"`
	BitDepth int  `toml:"bit_depth"`
}

// Codec declares one codec instance.
type Codec struct {
	Type           string `toml:"type"`
	Path           string `toml:"path"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Disabled       bool   `toml:"disabled"`
}

// Band is one anchor filter.
type Band struct {
	Passband    float64 `toml:"passband"`
	Stopband    float64 `toml:"stopband"`
	Ripple      float64 `toml:"ripple"`
	Attenuation float64 `toml:"attenuation"`
}

// Anchors lists the anchor filters.
type Anchors struct {
	Bands []Band `toml:"bands"`
}

// Visqol configures scoring.
type Visqol struct {
	Binary         string `toml:"binary"`
	Model          string `toml:"model"`
	SpeechMode     bool   `toml:"speech_mode"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Logging configures the slog handler.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config holds every setting of codecbench.
type Config struct {
	Paths     Paths            `toml:"paths"`
	Dataset   Dataset          `toml:"dataset"`
	Reference Reference        `toml:"reference"`
	Codecs    map[string]Codec `toml:"codecs"`
	Anchors   Anchors          `toml:"anchors"`
	Visqol    Visqol           `toml:"visqol"`
	Logging   Logging          `toml:"logging"`
}

// DefaultConfigPath returns the absolute path of the per-user configuration file.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/codecbench/config.toml")
}

// SampleConfig returns an annotated configuration file.
func SampleConfig() string {
	return sampleConfig
}

// Load locates, parses, and validates a configuration file. It returns the config, the resolved path, and whether
// that file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath) //nolint:gosec // user-provided configuration
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()

		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}

		if _, err = os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("config %s: %w", expanded, err)
			}

			return "", false, fmt.Errorf("stat config: %w", err)
		}

		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("codecbench.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// CodecOptions returns the enabled codec instances sorted by name.
func (c *Config) CodecOptions() []codec.Options {
	names := make([]string, 0, len(c.Codecs))

	for name, entry := range c.Codecs {
		if !entry.Disabled {
			names = append(names, name)
		}
	}

	slices.Sort(names)

	opts := make([]codec.Options, 0, len(names))
	for _, name := range names {
		opts = append(opts, c.codecOptions(name))
	}

	return opts
}

// CodecByName returns the options of one configured instance, enabled or not.
func (c *Config) CodecByName(name string) (codec.Options, bool) {
	if _, ok := c.Codecs[name]; !ok {
		return codec.Options{}, false
	}

	return c.codecOptions(name), true
}

func (c *Config) codecOptions(name string) codec.Options {
	entry := c.Codecs[name]

	return codec.Options{
		Name:    name,
		Type:    entry.Type,
		Path:    entry.Path,
		Timeout: time.Duration(entry.TimeoutSeconds) * time.Second,
	}
}

// AnchorBands converts the configured bands.
func (c *Config) AnchorBands() []anchor.Band {
	bands := make([]anchor.Band, len(c.Anchors.Bands))
	for i, band := range c.Anchors.Bands {
		bands[i] = anchor.Band(band)
	}

	return bands
}

// VisqolTimeout returns the per-comparison timeout.
func (c *Config) VisqolTimeout() time.Duration {
	return time.Duration(c.Visqol.TimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}

	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}

		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}

	cleaned := filepath.Clean(pathValue)

	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}

	return absolute, nil
}

// ExpandPath exposes the path expansion rules to other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
