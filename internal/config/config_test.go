package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/farcloser/codecbench/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "codecbench.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("CODECBENCH_DATA_DIR", filepath.Join(tempHome, "data"))
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if exists {
		t.Fatal("expected config file to be absent")
	}

	if resolved != filepath.Join(tempHome, ".config", "codecbench", "config.toml") {
		t.Errorf("unexpected resolved path %q", resolved)
	}

	if cfg.Paths.OriginalDir != filepath.Join(tempHome, "data", "original") {
		t.Errorf("unexpected original dir %q", cfg.Paths.OriginalDir)
	}

	if cfg.Paths.ProcessedDir != filepath.Join(tempHome, "data", "processed") {
		t.Errorf("unexpected processed dir %q", cfg.Paths.ProcessedDir)
	}

	if cfg.Dataset.Bitrate != 32000 || cfg.Dataset.TestRunLimit != 10 || cfg.Reference.BitDepth != 16 {
		t.Errorf("unexpected dataset defaults %+v %+v", cfg.Dataset, cfg.Reference)
	}

	if len(cfg.CodecOptions()) != 0 {
		t.Errorf("no codec should be configured by default")
	}

	if len(cfg.AnchorBands()) != 2 {
		t.Errorf("expected the two default anchor bands")
	}
}

func TestLoadSampleConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, _, exists, err := config.Load(writeConfig(t, config.SampleConfig()))
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}

	if !exists {
		t.Fatal("expected the file to exist")
	}

	opts := cfg.CodecOptions()

	names := make([]string, len(opts))
	for i, opt := range opts {
		names[i] = opt.Name
	}

	if strings.Join(names, ",") != "lc3,lc3plus,opus" {
		t.Errorf("enabled codecs = %v", names)
	}

	if opts[1].Timeout != 600*time.Second || opts[0].Timeout != 300*time.Second {
		t.Errorf("unexpected timeouts %v %v", opts[0].Timeout, opts[1].Timeout)
	}

	if !strings.HasSuffix(opts[0].Path, filepath.Join("src", "liblc3")) || !filepath.IsAbs(opts[0].Path) {
		t.Errorf("codec path not expanded: %q", opts[0].Path)
	}

	if opts[2].Path != "" {
		t.Errorf("empty codec path should stay empty, got %q", opts[2].Path)
	}

	if evs, ok := cfg.CodecByName("evs"); !ok || evs.Type != "evs" {
		t.Errorf("CodecByName(evs) = %+v, %v", evs, ok)
	}

	if got := cfg.Dataset.Subset.SampleRates; len(got) != 2 || got[0] != 44100 {
		t.Errorf("sample rates = %v", got)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Parallel()

	if _, _, _, err := config.Load(filepath.Join(t.TempDir(), "absent.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "[dataset]\nbitrat = 32000\n")

	if _, _, _, err := config.Load(path); err == nil {
		t.Error("expected a strict decoding error")
	}
}

func TestValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"zero bitrate", "[dataset]\nbitrate = 0\n"},
		{"bad bit depth", "[reference]\nbit_depth = 12\n"},
		{"unknown codec type", "[codecs.foo]\ntype = \"mp3\"\n"},
		{"reserved codec name", "[codecs.reference]\ntype = \"opus\"\n"},
		{"anchor codec name", "[codecs.lp3500]\ntype = \"opus\"\n"},
		{"inverted band", "[anchors]\nbands = [{ passband = 4000.0, stopband = 3500.0, ripple = 0.1, attenuation = 25.0 }]\n"},
		{"bad log format", "[logging]\nformat = \"xml\"\n"},
		{"bad log level", "[logging]\nlevel = \"loud\"\n"},
		{"slash in subset", "[dataset.subset]\nname = \"a/b\"\n"},
		{"negative rate", "[dataset.subset]\nsample_rates = [-1]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, _, err := config.Load(writeConfig(t, tt.content))
			if !errors.Is(err, config.ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestCodecTypeIsNormalized(t *testing.T) {
	t.Parallel()

	cfg, _, _, err := config.Load(writeConfig(t, "[codecs.opus_hr]\ntype = \" OPUS \"\n"))
	if err != nil {
		t.Fatal(err)
	}

	opts := cfg.CodecOptions()
	if len(opts) != 1 || opts[0].Type != "opus" || opts[0].Name != "opus_hr" {
		t.Errorf("CodecOptions() = %+v", opts)
	}
}

func TestDefaultRoundTripsThroughTOML(t *testing.T) {
	t.Parallel()

	data, err := toml.Marshal(config.Default())
	if err != nil {
		t.Fatal(err)
	}

	cfg, _, _, err := config.Load(writeConfig(t, string(data)))
	if err != nil {
		t.Fatalf("marshalled defaults do not load: %v", err)
	}

	if cfg.Dataset.Bitrate != config.Default().Dataset.Bitrate {
		t.Errorf("bitrate = %d", cfg.Dataset.Bitrate)
	}
}
