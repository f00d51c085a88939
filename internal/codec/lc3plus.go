package codec

import (
	"context"
	"os/exec"
	"path/filepath"
	"strconv"
)

//nolint:gochecknoglobals // tool constants
var lc3plusRates = []int{8000, 16000, 24000, 32000, 44100, 48000, 96000}

// lc3plus drives the ETSI LC3plus floating point reference binary, which encodes and decodes in one run.
type lc3plus struct {
	name   string
	binary string
	opts   Options
}

func lc3plusRequirements(opts Options) []Requirement {
	return []Requirement{requirement(filepath.Join(opts.Path, "src", "floating_point"), "LC3plus")}
}

func newLC3plus(opts Options) (Codec, error) {
	paths, err := require(lc3plusRequirements(opts))
	if err != nil {
		return nil, err
	}

	return &lc3plus{name: opts.Name, binary: paths[0], opts: opts}, nil
}

func (c *lc3plus) Name() string {
	return c.name
}

func (c *lc3plus) EncodeDecode(ctx context.Context, input, output string, bitrate int) (err error) {
	if _, err = precheck(c.name, input, bitrate, lc3plusRates); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	defer discard(output, &err)

	//nolint:gosec // binaries are resolved from configuration
	cmd := exec.CommandContext(ctx, c.binary, input, output, strconv.Itoa(bitrate))

	return run(ctx, "LC3plus", cmd)
}
