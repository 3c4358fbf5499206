// SPDX-License-Identifier: EPL-2.0

package audio

// U24 is an unsigned 24-bit sample held in the low bits of a uint32.
type U24 uint32

// S24 is a signed 24-bit sample held sign-extended in an int32.
type S24 int32

// Sample is the closed set of element types a Buffer can carry.
type Sample interface {
	uint8 | uint16 | U24 | uint32 | int8 | int16 | S24 | int32 | float32 | float64
}

// SampleFormat names the element type of a decoded buffer.
type SampleFormat int

const (
	FormatU8 SampleFormat = iota
	FormatU16
	FormatU24
	FormatU32
	FormatS8
	FormatS16
	FormatS24
	FormatS32
	FormatF32
	FormatF64
)

var sampleFormatNames = [...]string{
	FormatU8:  "u8",
	FormatU16: "u16",
	FormatU24: "u24",
	FormatU32: "u32",
	FormatS8:  "s8",
	FormatS16: "s16",
	FormatS24: "s24",
	FormatS32: "s32",
	FormatF32: "f32",
	FormatF64: "f64",
}

func (f SampleFormat) String() string {
	if f < 0 || int(f) >= len(sampleFormatNames) {
		return "unknown"
	}

	return sampleFormatNames[f]
}

// formatOf reports the SampleFormat matching T.
func formatOf[T Sample]() SampleFormat {
	var zero T

	switch any(zero).(type) {
	case uint8:
		return FormatU8
	case uint16:
		return FormatU16
	case U24:
		return FormatU24
	case uint32:
		return FormatU32
	case int8:
		return FormatS8
	case int16:
		return FormatS16
	case S24:
		return FormatS24
	case int32:
		return FormatS32
	case float32:
		return FormatF32
	default:
		return FormatF64
	}
}
