// SPDX-License-Identifier: EPL-2.0

package utils

// The unsigned conversions move the midpoint to zero before narrowing,
// the signed ones keep the top 16 bits.

// Uint8ToInt16 widens an offset-binary 8-bit sample.
func Uint8ToInt16(x uint8) int16 {
	return (int16(x) - 128) << 8
}

// Uint16ToInt16 re-centers an offset-binary 16-bit sample.
func Uint16ToInt16(x uint16) int16 {
	return int16(int32(x) - 32768)
}

// Uint24ToInt16 narrows an offset-binary 24-bit sample held in the low bits of x.
func Uint24ToInt16(x uint32) int16 {
	return int16((int32(x&0xFFFFFF) - 0x800000) >> 8)
}

// Uint32ToInt16 narrows an offset-binary 32-bit sample.
func Uint32ToInt16(x uint32) int16 {
	return int16((int64(x) - (1 << 31)) >> 16)
}

// Int8ToInt16 widens a signed 8-bit sample.
func Int8ToInt16(x int8) int16 {
	return int16(x) << 8
}

// Int24ToInt16 narrows a signed 24-bit sample. x must already be sign extended.
func Int24ToInt16(x int32) int16 {
	return int16(x >> 8)
}

// Int32ToInt16 narrows a signed 32-bit sample.
func Int32ToInt16(x int32) int16 {
	return int16(x >> 16)
}
