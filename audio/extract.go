// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"

	"github.com/ik5/playdec/utils"
)

// ExtractSample converts the sample at (ch, frame) of buf to int16.
//
// Unsigned kinds are re-centered around zero, wider integers keep their
// top 16 bits and floats are scaled by full scale. Indices must be inside
// Spec().Channels.Count() and Frames(); anything else panics.
func ExtractSample(buf AudioBuffer, ch, frame int) int16 {
	switch b := buf.(type) {
	case *Buffer[uint8]:
		return utils.Uint8ToInt16(b.Chan(ch)[frame])
	case *Buffer[uint16]:
		return utils.Uint16ToInt16(b.Chan(ch)[frame])
	case *Buffer[U24]:
		return utils.Uint24ToInt16(uint32(b.Chan(ch)[frame]))
	case *Buffer[uint32]:
		return utils.Uint32ToInt16(b.Chan(ch)[frame])
	case *Buffer[int8]:
		return utils.Int8ToInt16(b.Chan(ch)[frame])
	case *Buffer[int16]:
		return b.Chan(ch)[frame]
	case *Buffer[S24]:
		return utils.Int24ToInt16(int32(b.Chan(ch)[frame]))
	case *Buffer[int32]:
		return utils.Int32ToInt16(b.Chan(ch)[frame])
	case *Buffer[float32]:
		return utils.Float32ToInt16(b.Chan(ch)[frame])
	case *Buffer[float64]:
		return utils.Float64ToInt16(b.Chan(ch)[frame])
	default:
		panic(fmt.Sprintf("audio: unsupported buffer %T", buf))
	}
}
