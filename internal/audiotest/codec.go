// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"encoding/binary"

	"github.com/ik5/playdec/audio"
)

// FakeCodecType is the codec served by FakeCodec.
const FakeCodecType audio.CodecType = "fake_s16le"

// FakeCodec decodes s16le interleaved packets. Tests script errors and
// layout changes per packet timestamp.
type FakeCodec struct {
	params audio.CodecParams
	buf    *audio.Buffer[int16]

	// Errors maps a packet timestamp to the error Decode returns for it.
	Errors map[uint64]error
	// Specs maps a packet timestamp to the layout of its decoded buffer.
	Specs map[uint64]audio.SignalSpec

	Decoded []uint64
	Resets  int
	Closed  bool
}

var _ audio.Decoder = (*FakeCodec)(nil)

// NewFakeCodec returns a codec producing buffers shaped like params.
func NewFakeCodec(params audio.CodecParams) *FakeCodec {
	spec := audio.SignalSpec{Rate: params.SampleRate, Channels: params.Channels}

	return &FakeCodec{
		params: params,
		buf:    audio.NewBuffer[int16](0, spec),
		Errors: map[uint64]error{},
		Specs:  map[uint64]audio.SignalSpec{},
	}
}

// Descriptor registers c under FakeCodecType. Every Make returns c itself.
func (c *FakeCodec) Descriptor() audio.CodecDescriptor {
	return audio.CodecDescriptor{
		Type:      FakeCodecType,
		ShortName: "fake",
		LongName:  "scripted s16le test codec",
		New: func(audio.CodecParams, audio.DecoderOptions) (audio.Decoder, error) {
			return c, nil
		},
	}
}

func (c *FakeCodec) Decode(pkt audio.Packet) (audio.AudioBuffer, error) {
	if err, ok := c.Errors[pkt.TS]; ok {
		return nil, err
	}

	spec, ok := c.Specs[pkt.TS]
	if !ok {
		spec = audio.SignalSpec{Rate: c.params.SampleRate, Channels: c.params.Channels}
	}

	channels := spec.Channels.Count()
	frames := 0
	if channels > 0 {
		frames = len(pkt.Data) / 2 / channels
	}

	buf := audio.NewBuffer[int16](frames, spec)
	buf.RenderReserved(frames)
	for f := range frames {
		for ch := range channels {
			off := (f*channels + ch) * 2
			buf.ChanMut(ch)[f] = int16(binary.LittleEndian.Uint16(pkt.Data[off:]))
		}
	}

	c.buf = buf
	c.Decoded = append(c.Decoded, pkt.TS)

	return buf, nil
}

func (c *FakeCodec) LastDecoded() audio.AudioBuffer { return c.buf }
func (c *FakeCodec) Params() audio.CodecParams      { return c.params }

func (c *FakeCodec) Reset() {
	c.Resets++
}

func (c *FakeCodec) Close() error {
	c.Closed = true
	return nil
}
