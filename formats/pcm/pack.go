// SPDX-License-Identifier: EPL-2.0

package pcm

import "github.com/ik5/playdec/audio"

// SignedCodec returns the signed codec able to carry bits-deep samples and
// its width in bytes. Samples must be shifted up to the full width, see AppendSigned.
func SignedCodec(bits int) (audio.CodecType, int, error) {
	switch {
	case bits <= 0 || bits > 32:
		return audio.CodecNull, 0, ErrUnsupportedDepth
	case bits <= 8:
		return audio.CodecPCMS8, 1, nil
	case bits <= 16:
		return audio.CodecPCMS16LE, 2, nil
	case bits <= 24:
		return audio.CodecPCMS24LE, 3, nil
	default:
		return audio.CodecPCMS32LE, 4, nil
	}
}

// AppendSigned appends v as a little endian signed sample of width bytes.
// A bits-deep sample is scaled to the width first so full scale is kept.
func AppendSigned(dst []byte, width, bits int, v int32) []byte {
	if shift := width*8 - bits; shift > 0 {
		v <<= shift
	}

	switch width {
	case 1:
		return append(dst, byte(v))
	case 2:
		return append(dst, byte(v), byte(v>>8))
	case 3:
		return append(dst, byte(v), byte(v>>8), byte(v>>16))
	default:
		return append(dst, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	}
}
