package anchor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/farcloser/codecbench/internal/audiofile"
	"github.com/farcloser/codecbench/internal/types"
	"github.com/farcloser/codecbench/internal/worker"
)

const (
	DefaultPassRipple  = 0.1
	DefaultAttenuation = 25.0
)

// Band specifies one anchor filter. Edges are in Hz, ripple and attenuation in dB.
type Band struct {
	Passband    float64
	Stopband    float64
	Ripple      float64
	Attenuation float64
}

// DefaultBands are the narrowband and wideband anchors.
func DefaultBands() []Band {
	return []Band{
		{Passband: 3500, Stopband: 4000, Ripple: DefaultPassRipple, Attenuation: DefaultAttenuation},
		{Passband: 7000, Stopband: 7500, Ripple: DefaultPassRipple, Attenuation: DefaultAttenuation},
	}
}

// FileName is the name of the anchor written beside a reference.
func (b Band) FileName() string {
	return "lp" + strconv.FormatFloat(b.Passband, 'f', -1, 64) + ".wav"
}

// Path is the anchor location for a reference.
func (b Band) Path(reference string) string {
	return filepath.Join(filepath.Dir(reference), b.FileName())
}

// Generate writes one 16-bit anchor per band beside every unique reference, in parallel over references.
// Bands whose stopband does not fit under the reference's Nyquist frequency are skipped.
// It returns the anchors written, and the joined per-reference errors.
func Generate(ctx context.Context, references []string, bands []Band, opts worker.Options) ([]string, error) {
	unique := make([]string, 0, len(references))
	seen := make(map[string]struct{}, len(references))

	for _, ref := range references {
		if _, ok := seen[ref]; ok {
			continue
		}

		seen[ref] = struct{}{}
		unique = append(unique, ref)
	}

	results, err := worker.Map(ctx, unique, opts, func(ctx context.Context, _ int, ref string) ([]string, error) {
		return generateOne(ctx, ref, bands)
	})

	var written []string

	for _, result := range results {
		written = append(written, result.Value...)
	}

	if err != nil {
		return written, err
	}

	return written, errors.Join(worker.Errors(results)...)
}

func generateOne(ctx context.Context, reference string, bands []Band) ([]string, error) {
	buf, err := audiofile.ReadWAV(reference)
	if errors.Is(err, audiofile.ErrInvalidWAV) {
		buf, err = audiofile.Load(ctx, reference, types.ExtractOptions{})
	}

	if err != nil {
		return nil, err
	}

	samples := buf.Floats()
	channels := int(buf.Format.Channels) //nolint:gosec // channel count is small
	nyquist := float64(buf.Format.SampleRate) / 2

	written := make([]string, 0, len(bands))

	for _, band := range bands {
		if band.Stopband >= nyquist {
			slog.Warn("skipping anchor above Nyquist", "reference", reference, "passband", band.Passband,
				"sample rate", buf.Format.SampleRate)

			continue
		}

		sos, err := Design(band.Passband, band.Stopband, band.Ripple, band.Attenuation, buf.Format.SampleRate)
		if err != nil {
			return written, fmt.Errorf("%s: %w", reference, err)
		}

		out, err := audiofile.FromFloats(sos.FilterInterleaved(samples, channels), types.PCMFormat{
			SampleRate: buf.Format.SampleRate,
			BitDepth:   types.Depth16,
			Channels:   buf.Format.Channels,
		})
		if err != nil {
			return written, err
		}

		path := band.Path(reference)
		if err := audiofile.WriteWAV(path, out); err != nil {
			return written, err
		}

		slog.Debug("anchor.Generate", "reference", reference, "anchor", path, "sections", len(sos))

		written = append(written, path)
	}

	return written, nil
}
