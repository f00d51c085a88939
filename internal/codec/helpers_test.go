package codec

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/farcloser/codecbench/internal/audiofile"
	"github.com/farcloser/codecbench/internal/types"
)

// script writes an executable shell script standing in for a codec tool.
// Tests executing scripts stay serial: a concurrent fork can hold the write descriptor and fail exec with ETXTBSY.
func script(t *testing.T, dir, name, body string) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake codec binaries are shell scripts")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	//nolint:gosec // test fixture must be executable
	if err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
}

// tone writes a short 16-bit WAV with a deterministic ramp.
func tone(t *testing.T, path string, rate int, channels uint) *audiofile.Buffer {
	t.Helper()

	frames := rate / 100
	data := make([]int, frames*int(channels))

	for i := range data {
		data[i] = (i*97)%4000 - 2000
	}

	buf := &audiofile.Buffer{
		Format: types.PCMFormat{SampleRate: rate, BitDepth: types.Depth16, Channels: channels},
		Data:   data,
	}

	if err := audiofile.WriteWAV(path, buf); err != nil {
		t.Fatal(err)
	}

	return buf
}

// floatTone writes a mono IEEE float WAV.
func floatTone(t *testing.T, path string, rate int) {
	t.Helper()

	file, err := os.Create(path) //nolint:gosec // test file
	if err != nil {
		t.Fatal(err)
	}

	encoder := wav.NewEncoder(file, rate, 32, 1, 3)

	err = encoder.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: rate},
		Data:           make([]int, rate/100),
		SourceBitDepth: 32,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := encoder.Close(); err != nil {
		t.Fatal(err)
	}

	if err := file.Close(); err != nil {
		t.Fatal(err)
	}
}

// extensible writes buf as a WAVE_FORMAT_EXTENSIBLE integer PCM file, as ffmpeg does for pcm_s24le.
func extensible(t *testing.T, path string, buf *audiofile.Buffer) {
	t.Helper()

	data, err := audiofile.EncodeLE(buf.Data, buf.Format.BitDepth)
	if err != nil {
		t.Fatal(err)
	}

	channels := uint16(buf.Format.Channels) //nolint:gosec // test fixture
	bits := uint16(buf.Format.BitDepth)     //nolint:gosec // test fixture
	align := channels * bits / 8
	rate := uint32(buf.Format.SampleRate) //nolint:gosec // test fixture

	var out bytes.Buffer

	le := func(v any) {
		_ = binary.Write(&out, binary.LittleEndian, v)
	}

	out.WriteString("RIFF")
	le(uint32(4 + 8 + 40 + 8 + len(data))) //nolint:gosec // test fixture
	out.WriteString("WAVEfmt ")
	le(uint32(40))
	le(uint16(0xFFFE))
	le(channels)
	le(rate)
	le(rate * uint32(align))
	le(align)
	le(bits)
	le(uint16(22))
	le(bits)
	le(uint32(4))
	// KSDATAFORMAT_SUBTYPE_PCM
	out.Write([]byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71})
	out.WriteString("data")
	le(uint32(len(data))) //nolint:gosec // test fixture
	out.Write(data)

	if err := os.WriteFile(path, out.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
}

func readArgs(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path) //nolint:gosec // test file
	if err != nil {
		t.Fatalf("tool did not record its arguments: %v", err)
	}

	return string(data)
}

func assertAbsent(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err == nil {
		t.Errorf("%s should not exist", path)
	}
}

func assertSamples(t *testing.T, path string, want *audiofile.Buffer) {
	t.Helper()

	got, err := audiofile.ReadWAV(path)
	if err != nil {
		t.Fatalf("reading decoded output: %v", err)
	}

	if got.Format != want.Format {
		t.Errorf("format = %+v, want %+v", got.Format, want.Format)
	}

	if len(got.Data) != len(want.Data) {
		t.Fatalf("got %d samples, want %d", len(got.Data), len(want.Data))
	}

	for i := range want.Data {
		if got.Data[i] != want.Data[i] {
			t.Fatalf("sample %d = %d, want %d", i, got.Data[i], want.Data[i])
		}
	}
}
