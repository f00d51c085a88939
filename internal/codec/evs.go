package codec

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/farcloser/codecbench/internal/audiofile"
	"github.com/farcloser/codecbench/internal/types"
)

//nolint:gochecknoglobals // tool constants
var (
	evsRates = []int{8000, 16000, 32000, 48000}
	// Fixed EVS primary mode bitrates. 5900 selects source controlled VBR.
	evsBitrates = []int{5900, 7200, 8000, 9600, 13200, 16400, 24400, 32000, 48000, 64000, 96000, 128000}
)

// evs drives the 3GPP EVS floating point reference encoder and decoder, which only exchange headerless
// 16-bit little-endian PCM named after the sampling rate in kHz.
type evs struct {
	name    string
	encoder string
	decoder string
	opts    Options
}

func evsRequirements(opts Options) []Requirement {
	return []Requirement{requirement(opts.Path, "EVS_cod"), requirement(opts.Path, "EVS_dec")}
}

func newEVS(opts Options) (Codec, error) {
	paths, err := require(evsRequirements(opts))
	if err != nil {
		return nil, err
	}

	return &evs{name: opts.Name, encoder: paths[0], decoder: paths[1], opts: opts}, nil
}

func (c *evs) Name() string {
	return c.name
}

func (c *evs) EncodeDecode(ctx context.Context, input, output string, bitrate int) (err error) {
	header, err := precheck(c.name, input, bitrate, evsRates)
	if err != nil {
		return err
	}

	if !slices.Contains(evsBitrates, bitrate) {
		return fmt.Errorf("%w: %s does not offer %d bps", ErrInvalidBitrate, c.name, bitrate)
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	dir, cleanup, err := scratch(c.name)
	if err != nil {
		return err
	}
	defer cleanup()

	buf, err := audiofile.ReadWAV(input)
	if err != nil {
		return err
	}

	khz := strconv.Itoa(header.Format.SampleRate / 1000)
	rawIn := filepath.Join(dir, "input."+khz+"k")
	bitstream := filepath.Join(dir, "bitstream.192")
	rawOut := filepath.Join(dir, "output."+khz+"k")

	if err = audiofile.WriteRaw16(rawIn, buf); err != nil {
		return err
	}

	//nolint:gosec // binaries are resolved from configuration
	enc := exec.CommandContext(ctx, c.encoder, "-q", strconv.Itoa(bitrate), khz, rawIn, bitstream)
	if err = run(ctx, "EVS_cod", enc); err != nil {
		return err
	}

	//nolint:gosec // binaries are resolved from configuration
	dec := exec.CommandContext(ctx, c.decoder, "-q", khz, bitstream, rawOut)
	if err = run(ctx, "EVS_dec", dec); err != nil {
		return err
	}

	decoded, err := audiofile.ReadRaw16(rawOut, types.PCMFormat{
		SampleRate: header.Format.SampleRate,
		Channels:   header.Format.Channels,
	})
	if err != nil {
		return err
	}

	// WriteWAV removes its own partial output.
	return audiofile.WriteWAV(output, decoded)
}
