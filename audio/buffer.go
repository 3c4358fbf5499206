// SPDX-License-Identifier: EPL-2.0

package audio

import "math/bits"

// Channels is a bit mask of speaker positions.
type Channels uint32

const (
	ChannelFrontLeft Channels = 1 << iota
	ChannelFrontRight
	ChannelFrontCentre
	ChannelLFE
	ChannelRearLeft
	ChannelRearRight
	ChannelSideLeft
	ChannelSideRight
)

const (
	LayoutMono   = ChannelFrontLeft
	LayoutStereo = ChannelFrontLeft | ChannelFrontRight
)

// Count returns the number of channels in the mask.
func (c Channels) Count() int {
	return bits.OnesCount32(uint32(c))
}

// ChannelsFromCount returns a mask with the n lowest positions set.
func ChannelsFromCount(n int) Channels {
	if n <= 0 {
		return 0
	}
	if n >= 32 {
		return ^Channels(0)
	}

	return Channels(1)<<n - 1
}

// SignalSpec describes the shape of decoded audio.
type SignalSpec struct {
	Rate     uint32
	Channels Channels
}

// AudioBuffer is a decoded buffer of one of the ten Sample types.
//
// The interface is sealed: every value is a *Buffer[T], which lets
// ExtractSample switch over the complete set of element types.
type AudioBuffer interface {
	Spec() SignalSpec
	Frames() int
	Capacity() int
	Format() SampleFormat
	Clear()

	sealed()
}

// Buffer is a planar buffer of decoded audio, one plane per channel.
type Buffer[T Sample] struct {
	spec     SignalSpec
	planes   [][]T
	capacity int
	frames   int
}

// NewBuffer allocates a buffer that can hold capacity frames for every channel in spec.
func NewBuffer[T Sample](capacity int, spec SignalSpec) *Buffer[T] {
	if capacity < 0 {
		capacity = 0
	}

	n := spec.Channels.Count()
	data := make([]T, capacity*n)
	planes := make([][]T, n)
	for ch := range planes {
		planes[ch] = data[ch*capacity : (ch+1)*capacity : (ch+1)*capacity]
	}

	return &Buffer[T]{
		spec:     spec,
		planes:   planes,
		capacity: capacity,
	}
}

func (b *Buffer[T]) Spec() SignalSpec     { return b.spec }
func (b *Buffer[T]) Frames() int          { return b.frames }
func (b *Buffer[T]) Capacity() int        { return b.capacity }
func (b *Buffer[T]) Format() SampleFormat { return formatOf[T]() }

func (b *Buffer[T]) sealed() {}

// Clear zeroes the rendered frames and marks the buffer empty.
func (b *Buffer[T]) Clear() {
	for ch := range b.planes {
		clear(b.planes[ch][:b.frames])
	}
	b.frames = 0
}

// RenderReserved marks n more frames as rendered. The count never passes Capacity.
func (b *Buffer[T]) RenderReserved(n int) {
	b.frames = min(b.frames+max(n, 0), b.capacity)
}

// Chan returns the rendered samples of channel ch.
func (b *Buffer[T]) Chan(ch int) []T {
	return b.planes[ch][:b.frames]
}

// ChanMut returns the rendered samples of channel ch for writing.
func (b *Buffer[T]) ChanMut(ch int) []T {
	return b.planes[ch][:b.frames]
}
