package ffmpeg

import (
	"slices"
	"testing"

	"github.com/farcloser/codecbench/internal/types"
)

func TestExtractArgsDefaults(t *testing.T) {
	t.Parallel()

	got := extractArgs(&types.ExtractOptions{})
	want := []string{"-i", "-", "-map", "0:a:0", "-f", "s32le", "-acodec", "pcm_s32le", "-v", "quiet", "-"}

	if !slices.Equal(got, want) {
		t.Errorf("extractArgs() = %v, want %v", got, want)
	}
}

func TestExtractArgsResampleAndDownmix(t *testing.T) {
	t.Parallel()

	got := extractArgs(&types.ExtractOptions{
		StreamIndex: 1,
		SampleRate:  48000,
		Channels:    1,
		BitDepth:    types.Depth16,
	})

	want := []string{
		"-i", "-",
		"-map", "0:a:1",
		"-af", resampleFilter, "-ar", "48000",
		"-ac", "1",
		"-f", "s16le", "-acodec", "pcm_s16le",
		"-v", "quiet", "-",
	}

	if !slices.Equal(got, want) {
		t.Errorf("extractArgs() = %v, want %v", got, want)
	}
}

func TestConvertArgs(t *testing.T) {
	t.Parallel()

	got := convertArgs("in.flac", "out.wav", &types.ExtractOptions{SampleRate: 48000, Channels: 1})

	if got[0] != "-y" || got[2] != "in.flac" || got[len(got)-1] != "out.wav" {
		t.Fatalf("convertArgs() = %v, unexpected framing", got)
	}

	if !slices.Contains(got, "pcm_s16le") {
		t.Errorf("convertArgs() = %v, want 16-bit output by default", got)
	}
}
