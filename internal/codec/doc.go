// Package codec puts a single encode-then-decode contract in front of reference codec tools.
//
// Every tool has its own calling convention: liblc3 streams a bitstream from elc3 into dlc3 over a pipe, LC3plus
// round-trips in a single process, opus-tools exchange an Ogg file on disk, and the 3GPP EVS reference binaries
// only understand headerless 16-bit PCM. Implementations hide this behind Codec.EncodeDecode, which takes a mono
// PCM WAV file and produces a decoded PCM WAV file at the input sample rate.
//
// All implementations share the same failure policy:
//   - the input must be a mono PCM WAV at a sample rate the tool supports, checked before anything is spawned
//   - every subprocess exit status is checked, and failures carry the tool's stderr (fault.ErrCommandFailure)
//   - a missing tool is reported at construction time (fault.ErrMissingRequirements)
//   - on failure the output file is removed, and temporary files are removed on every path
package codec
