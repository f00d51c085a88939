package audiofile

import (
	"bytes"
	"encoding/binary"
	"os"
)

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o600)
}

// writeExtensible writes buf as a WAVE_FORMAT_EXTENSIBLE file whose sub format GUID carries subTag,
// the layout ffmpeg uses for pcm_s24le.
func writeExtensible(path string, buf *Buffer, subTag uint16) error {
	data, err := EncodeLE(buf.Data, buf.Format.BitDepth)
	if err != nil {
		return err
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
	le(uint32(0))
	le(subTag)
	out.Write([]byte{0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71})
	out.WriteString("data")
	le(uint32(len(data))) //nolint:gosec // test fixture
	out.Write(data)

	return writeFile(path, out.Bytes())
}
