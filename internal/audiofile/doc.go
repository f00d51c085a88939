// Package audiofile reads and writes the PCM files exchanged with codec tools: RIFF/WAVE files through go-audio,
// and the headerless little-endian raw streams some reference encoders expect.
//
// Samples are kept as interleaved integers at the scale of their bit depth, so that a file read and written back
// at the same depth is bit-exact.
package audiofile
