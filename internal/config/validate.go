package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/farcloser/codecbench/internal/anchor"
	"github.com/farcloser/codecbench/internal/codec"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Codec instance names that would collide with other files of a dataset directory.
//
//nolint:gochecknoglobals // reserved names
var reservedNames = []string{"reference", "reference_re"}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDataset(); err != nil {
		return err
	}

	if err := c.validateReference(); err != nil {
		return err
	}

	if err := c.validateCodecs(); err != nil {
		return err
	}

	if err := c.validateAnchors(); err != nil {
		return err
	}

	if c.Visqol.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: visqol.timeout_seconds must not be negative", ErrInvalid)
	}

	return c.validateLogging()
}

func (c *Config) validateDataset() error {
	if c.Dataset.Bitrate <= 0 {
		return fmt.Errorf("%w: dataset.bitrate must be positive, got %d", ErrInvalid, c.Dataset.Bitrate)
	}

	if c.Dataset.Workers < 0 {
		return fmt.Errorf("%w: dataset.workers must not be negative", ErrInvalid)
	}

	if c.Dataset.TestRunLimit < 0 {
		return fmt.Errorf("%w: dataset.test_run_limit must not be negative", ErrInvalid)
	}

	for _, name := range []string{c.Dataset.CodecSet, c.Dataset.Subset.Name} {
		if strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("%w: %q cannot be used in a directory name", ErrInvalid, name)
		}
	}

	for _, rate := range c.Dataset.Subset.SampleRates {
		if rate <= 0 {
			return fmt.Errorf("%w: dataset.subset.sample_rates contains %d", ErrInvalid, rate)
		}
	}

	return nil
}

func (c *Config) validateReference() error {
	switch c.Reference.BitDepth {
	case 16, 24:
		return nil
	}

	return fmt.Errorf("%w: reference.bit_depth must be 16 or 24, got %d", ErrInvalid, c.Reference.BitDepth)
}

func (c *Config) validateCodecs() error {
	types := codec.Types()

	for name, entry := range c.Codecs {
		if name == "" || filepath.Base(name) != name || name == "." || name == ".." {
			return fmt.Errorf("%w: codec name %q must be a plain file name", ErrInvalid, name)
		}

		if slices.Contains(reservedNames, name) || isAnchorName(name) {
			return fmt.Errorf("%w: codec name %q collides with reference or anchor files", ErrInvalid, name)
		}

		if !slices.Contains(types, entry.Type) {
			return fmt.Errorf("%w: codecs.%s.type %q must be one of %s",
				ErrInvalid, name, entry.Type, strings.Join(types, ", "))
		}

		if entry.TimeoutSeconds < 0 {
			return fmt.Errorf("%w: codecs.%s.timeout_seconds must not be negative", ErrInvalid, name)
		}
	}

	return nil
}

// isAnchorName reports whether name has the shape of an anchor file name, lp<passband>.
func isAnchorName(name string) bool {
	rest, found := strings.CutPrefix(name, "lp")
	if !found {
		return false
	}

	_, err := strconv.ParseFloat(rest, 64)

	return err == nil
}

func (c *Config) validateAnchors() error {
	for i, band := range c.Anchors.Bands {
		// Sample rate independent checks. The Nyquist limit is checked per reference.
		_, err := anchor.Order(band.Passband, band.Stopband, band.Ripple, band.Attenuation, 1<<30)
		if err != nil {
			return fmt.Errorf("%w: anchors.bands[%d]: %w", ErrInvalid, i, err)
		}
	}

	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: logging.format must be text or json, got %q", ErrInvalid, c.Logging.Format)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logging.level must be debug, info, warn or error, got %q", ErrInvalid, c.Logging.Level)
	}

	return nil
}
