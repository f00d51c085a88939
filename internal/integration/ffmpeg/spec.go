package ffmpeg

import (
	"strconv"

	"github.com/farcloser/codecbench/internal/types"
)

func bitDepthToSpec(bitDepth types.BitDepth) string {
	// BitDepth 32 = s32le, 24 = s24le, 16 = s16le
	//nolint:gosec // we fine, gosec
	return "s" + strconv.Itoa(int(bitDepth)) + "le"
}

func bitDepthToCodec(bitDepth types.BitDepth) string {
	return "pcm_" + bitDepthToSpec(bitDepth)
}

// conversionArgs returns the stream selection, resampling and channel mapping arguments shared by all
// invocations.
func conversionArgs(opts *types.ExtractOptions) []string {
	args := []string{"-map", "0:a:" + strconv.Itoa(opts.StreamIndex)}

	if opts.SampleRate > 0 {
		args = append(args, "-af", resampleFilter, "-ar", strconv.Itoa(opts.SampleRate))
	}

	if opts.Channels > 0 {
		args = append(args, "-ac", strconv.FormatUint(uint64(opts.Channels), 10))
	}

	return args
}

func extractArgs(opts *types.ExtractOptions) []string {
	depth := opts.BitDepth
	if depth == 0 {
		depth = types.Depth32
	}

	args := []string{"-i", "-"}
	args = append(args, conversionArgs(opts)...)
	args = append(args,
		"-f", bitDepthToSpec(depth),
		"-acodec", bitDepthToCodec(depth),
		"-v", "quiet",
		"-",
	)

	return args
}

func convertArgs(input, output string, opts *types.ExtractOptions) []string {
	depth := opts.BitDepth
	if depth == 0 {
		depth = types.Depth16
	}

	args := []string{"-y", "-i", input}
	args = append(args, conversionArgs(opts)...)
	args = append(args,
		"-acodec", bitDepthToCodec(depth),
		"-f", "wav",
		"-v", "error",
		output,
	)

	return args
}
