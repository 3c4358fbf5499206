// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

// mockDecoder is a codec that returns a fixed buffer.
type mockDecoder struct {
	params CodecParams
	buf    *Buffer[int16]
	closed bool
}

func newMockDecoder(params CodecParams, _ DecoderOptions) (Decoder, error) {
	spec := SignalSpec{Rate: params.SampleRate, Channels: params.Channels}
	return &mockDecoder{params: params, buf: NewBuffer[int16](0, spec)}, nil
}

func (d *mockDecoder) Decode(Packet) (AudioBuffer, error) { return d.buf, nil }
func (d *mockDecoder) LastDecoded() AudioBuffer          { return d.buf }
func (d *mockDecoder) Params() CodecParams               { return d.params }
func (d *mockDecoder) Reset()                            {}
func (d *mockDecoder) Close() error {
	d.closed = true
	return nil
}

func mockDescriptor(codec CodecType) CodecDescriptor {
	return CodecDescriptor{
		Type:      codec,
		ShortName: string(codec),
		LongName:  "mock " + string(codec),
		New:       newMockDecoder,
	}
}

var errMockConfig = errors.New("mock rejects params")

// failingDescriptor always fails construction.
func failingDescriptor(codec CodecType) CodecDescriptor {
	return CodecDescriptor{
		Type:      codec,
		ShortName: "failing",
		New: func(CodecParams, DecoderOptions) (Decoder, error) {
			return nil, errMockConfig
		},
	}
}
