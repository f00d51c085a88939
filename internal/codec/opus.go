package codec

import (
	"context"
	"os/exec"
	"path/filepath"
	"strconv"
)

// opus drives opus-tools. The encoder runs in hard CBR mode and the decoder restores the input sample rate,
// since Opus always decodes at 48 kHz internally.
type opus struct {
	name    string
	encoder string
	decoder string
	opts    Options
}

func opusRequirements(opts Options) []Requirement {
	return []Requirement{requirement(opts.Path, "opusenc"), requirement(opts.Path, "opusdec")}
}

func newOpus(opts Options) (Codec, error) {
	paths, err := require(opusRequirements(opts))
	if err != nil {
		return nil, err
	}

	return &opus{name: opts.Name, encoder: paths[0], decoder: paths[1], opts: opts}, nil
}

func (c *opus) Name() string {
	return c.name
}

// kbps formats a bitrate for opusenc, which takes kilobits per second.
func kbps(bitrate int) string {
	return strconv.FormatFloat(float64(bitrate)/1000, 'f', -1, 64)
}

func (c *opus) EncodeDecode(ctx context.Context, input, output string, bitrate int) (err error) {
	header, err := precheck(c.name, input, bitrate, nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	dir, cleanup, err := scratch(c.name)
	if err != nil {
		return err
	}
	defer cleanup()

	defer discard(output, &err)

	bitstream := filepath.Join(dir, "bitstream.opus")

	//nolint:gosec // binaries are resolved from configuration
	enc := exec.CommandContext(ctx, c.encoder,
		"--quiet", "--hard-cbr", "--bitrate", kbps(bitrate), input, bitstream)
	if err = run(ctx, "opusenc", enc); err != nil {
		return err
	}

	//nolint:gosec // binaries are resolved from configuration
	dec := exec.CommandContext(ctx, c.decoder,
		"--quiet", "--rate", strconv.Itoa(header.Format.SampleRate), bitstream, output)

	return run(ctx, "opusdec", dec)
}
