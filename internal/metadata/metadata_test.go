package metadata

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/farcloser/codecbench/internal/audiofile"
	"github.com/farcloser/codecbench/internal/integration/ffprobe"
	"github.com/farcloser/codecbench/internal/types"
)

func TestExtractWAV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reference.WAV")

	buf := &audiofile.Buffer{
		Format: types.PCMFormat{SampleRate: 16000, BitDepth: types.Depth24, Channels: 2},
		Data:   make([]int, 16000*2/2),
	}
	if err := audiofile.WriteWAV(path, buf); err != nil {
		t.Fatal(err)
	}

	info, err := Extract(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}

	want := Info{SampleRate: 16000, Channels: 2, Duration: 0.5, Format: "WAV", Subtype: "PCM_24"}
	if info != want {
		t.Errorf("Extract() = %+v, want %+v", info, want)
	}
}

func TestWAVSubtype(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag, bits int
		want      string
	}{
		{tagPCM, 16, "PCM_16"},
		{tagPCM, 8, "PCM_U8"},
		{tagExtensible, 24, "PCM_24"},
		{tagFloat, 32, "FLOAT"},
		{tagFloat, 64, "DOUBLE"},
		{2, 4, "FORMAT_0x0002"},
	}

	for _, tt := range tests {
		if got := wavSubtype(tt.tag, tt.bits); got != tt.want {
			t.Errorf("wavSubtype(%d, %d) = %q, want %q", tt.tag, tt.bits, got, tt.want)
		}
	}
}

func TestProbeNames(t *testing.T) {
	t.Parallel()

	if got := containerName("mov,mp4,m4a,3gp,3g2,mj2"); got != "MP4" {
		t.Errorf("containerName(mov...) = %q", got)
	}

	if got := containerName("flac"); got != "FLAC" {
		t.Errorf("containerName(flac) = %q", got)
	}

	tests := []struct {
		stream ffprobe.Stream
		want   string
	}{
		{ffprobe.Stream{CodecName: "flac", SampleFmt: "s32", BitsPerRawSample: "24"}, "PCM_24"},
		{ffprobe.Stream{CodecName: "flac", SampleFmt: "s16"}, "FLAC"},
		{ffprobe.Stream{CodecName: "pcm_s16le", SampleFmt: "s16", BitsPerSample: 16}, "PCM_16"},
		{ffprobe.Stream{CodecName: "opus", SampleFmt: "fltp"}, "FLOAT"},
		{ffprobe.Stream{CodecName: "vorbis"}, "VORBIS"},
	}

	for _, tt := range tests {
		if got := streamSubtype(&tt.stream); got != tt.want {
			t.Errorf("streamSubtype(%+v) = %q, want %q", tt.stream, got, tt.want)
		}
	}
}

func TestPairFile(t *testing.T) {
	t.Parallel()

	if got := PairFile(32000); got != "metadata_bitrate=32.csv" {
		t.Errorf("PairFile(32000) = %q", got)
	}
}

func TestNewPairEncoder(t *testing.T) {
	t.Parallel()

	pair := NewPair(filepath.Join("a", "b", "lc3plus.wav"), filepath.Join("a", "b", "reference.wav"), Info{})
	if pair.Encoder != "lc3plus" {
		t.Errorf("Encoder = %q", pair.Encoder)
	}
}

func TestPairTable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), PairFile(64000))
	info := Info{SampleRate: 48000, Channels: 1, Duration: 3.25, Format: "WAV", Subtype: "PCM_16"}

	pairs := []Pair{
		NewPair("/data/x/opus.wav", "/data/x/reference.wav", info),
		NewPair("/data/y, with comma/evs.wav", "/data/y, with comma/reference.wav", info),
	}

	if err := WritePairs(path, pairs); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path) //nolint:gosec // test file
	if err != nil {
		t.Fatal(err)
	}

	header, _, _ := strings.Cut(string(raw), "\n")
	if header != "enc_path,ref_path,sample_rate,channels,duration,format,subtype,encoder" {
		t.Errorf("header = %q", header)
	}

	got, err := ReadPairs(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(got) != len(pairs) {
		t.Fatalf("read %d pairs, want %d", len(got), len(pairs))
	}

	for i := range pairs {
		if got[i] != pairs[i] {
			t.Errorf("pair %d = %+v, want %+v", i, got[i], pairs[i])
		}
	}
}

func TestReadPairsByHeaderName(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pairs.csv")
	content := ",ref_path,extra,enc_path\n0,/r.wav,ignored,/d/lc3.wav\n"

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	pairs, err := ReadPairs(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(pairs) != 1 || pairs[0].EncPath != "/d/lc3.wav" || pairs[0].RefPath != "/r.wav" || pairs[0].Encoder != "lc3" {
		t.Errorf("ReadPairs() = %+v", pairs)
	}
}

func TestReadPairsErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{name: "missing column", content: "enc_path\n/a.wav\n", want: ErrMissingColumn},
		{name: "bad rate", content: "enc_path,ref_path,sample_rate\n/a.wav,/b.wav,fast\n", want: ErrInvalidRow},
		{name: "empty", content: "", want: ErrInvalidRow},
	}

	for _, tt := range tests {
		path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".csv")
		if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
			t.Fatal(err)
		}

		if _, err := ReadPairs(path); !errors.Is(err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
	}
}

func TestScoreTable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ScoresFile)
	pair := NewPair("/d/opus.wav", "/d/reference.wav", Info{SampleRate: 48000, Channels: 1, Format: "WAV"})

	if err := WriteScores(path, []Scored{{Pair: pair, Score: 4.125}}); err != nil {
		t.Fatal(err)
	}

	scored, err := ReadScores(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(scored) != 1 || scored[0].Score != 4.125 || scored[0].Pair != pair {
		t.Errorf("ReadScores() = %+v", scored)
	}

	// A pair table has no score column.
	pairsPath := filepath.Join(t.TempDir(), "pairs.csv")
	if err := WritePairs(pairsPath, []Pair{pair}); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadScores(pairsPath); !errors.Is(err, ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn, got %v", err)
	}
}

func TestInventoryTable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), InventoryFile)
	entries := []Entry{{AbsPath: "/c/a.flac", RelPath: "a.flac", Info: Info{SampleRate: 44100, Channels: 2}}}

	if err := WriteInventory(path, entries); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path) //nolint:gosec // test file
	if err != nil {
		t.Fatal(err)
	}

	want := "abs_path,rel_path,sample_rate,channels,duration,format,subtype\n/c/a.flac,a.flac,44100,2,0,,\n"
	if string(raw) != want {
		t.Errorf("inventory = %q, want %q", raw, want)
	}
}
