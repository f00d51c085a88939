package codec

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

const defaultTimeout = 5 * time.Minute

// Codec encodes a mono PCM WAV file and decodes the result back to a PCM WAV file.
type Codec interface {
	// Name identifies the configured instance. It is also the base name of the decoded file in a dataset.
	Name() string
	// EncodeDecode runs input through the codec at bitrate (bits per second) and writes the decoded audio to output.
	EncodeDecode(ctx context.Context, input, output string, bitrate int) error
}

// Options configures a codec instance.
type Options struct {
	// Name of the instance. Defaults to Type.
	Name string
	// Type selects the implementation: lc3, lc3plus, opus or evs.
	Type string
	// Path is the installation directory of the tool. Its layout depends on Type.
	Path string
	// Timeout bounds a single EncodeDecode call.
	Timeout time.Duration
}

// Requirement describes an external binary a codec needs.
type Requirement struct {
	Binary   string
	Resolved string
	Found    bool
}

type factory struct {
	build        func(opts Options) (Codec, error)
	requirements func(opts Options) []Requirement
}

//nolint:gochecknoglobals // static registry
var registry = map[string]factory{
	"lc3":     {build: newLC3, requirements: lc3Requirements},
	"lc3plus": {build: newLC3plus, requirements: lc3plusRequirements},
	"opus":    {build: newOpus, requirements: opusRequirements},
	"evs":     {build: newEVS, requirements: evsRequirements},
}

// Types lists the registered codec types.
func Types() []string {
	types := make([]string, 0, len(registry))
	for key := range registry {
		types = append(types, key)
	}

	slices.Sort(types)

	return types
}

// New builds a codec from options, verifying its tools are present.
func New(opts Options) (Codec, error) {
	fact, err := lookup(&opts)
	if err != nil {
		return nil, err
	}

	return fact.build(opts)
}

// Requirements reports the binaries a codec needs and whether they can be found.
func Requirements(opts Options) ([]Requirement, error) {
	fact, err := lookup(&opts)
	if err != nil {
		return nil, err
	}

	return fact.requirements(opts), nil
}

func lookup(opts *Options) (factory, error) {
	opts.Type = strings.ToLower(strings.TrimSpace(opts.Type))

	fact, ok := registry[opts.Type]
	if !ok {
		return factory{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownType, opts.Type, strings.Join(Types(), ", "))
	}

	if opts.Name == "" {
		opts.Name = opts.Type
	}

	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	return fact, nil
}
