package codecbench_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/farcloser/codecbench/internal/audiofile"
	"github.com/farcloser/codecbench/internal/types"
)

var errFakeFailure = errors.New("fake codec failure")

// fakeCodec copies its input, or fails for inputs whose path contains failOn.
type fakeCodec struct {
	name   string
	failOn string
}

func (f *fakeCodec) Name() string {
	return f.name
}

func (f *fakeCodec) EncodeDecode(_ context.Context, input, output string, bitrate int) error {
	if f.failOn != "" && strings.Contains(input, f.failOn) {
		return fmt.Errorf("%w: %s at %d", errFakeFailure, input, bitrate)
	}

	buf, err := audiofile.ReadWAV(input)
	if err != nil {
		return err
	}

	return audiofile.WriteWAV(output, buf)
}

func writeSource(t *testing.T, path string, rate int, channels uint, depth types.BitDepth) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}

	frames := rate / 50
	data := make([]int, frames*int(channels))

	for i := range data {
		data[i] = (i*131)%6000 - 3000
	}

	buf := &audiofile.Buffer{
		Format: types.PCMFormat{SampleRate: rate, BitDepth: types.Depth16, Channels: channels},
		Data:   data,
	}

	out, err := buf.Requantize(depth)
	if err != nil {
		t.Fatal(err)
	}

	if err := audiofile.WriteWAV(path, out); err != nil {
		t.Fatal(err)
	}
}

// corpusDir lays out two sources: a 16 kHz mono 16-bit file and a nested 48 kHz stereo 24-bit file.
func corpusDir(t *testing.T) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "original")

	writeSource(t, filepath.Join(dir, "a.wav"), 16000, 1, types.Depth16)
	writeSource(t, filepath.Join(dir, "sub", "b.wav"), 48000, 2, types.Depth24)

	return dir
}
