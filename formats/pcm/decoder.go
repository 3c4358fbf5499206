// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ik5/playdec/audio"
	"go.uber.org/zap"
)

// defaultFrames sizes the first buffer when the stream does not say how
// large its packets are.
const defaultFrames = 1152

type decoder[T audio.Sample] struct {
	params audio.CodecParams
	spec   audio.SignalSpec
	width  int
	read   func([]byte) T
	buf    *audio.Buffer[T]
	logger *zap.Logger
}

func newDecoder[T audio.Sample](params audio.CodecParams, opts audio.DecoderOptions, width int, read func([]byte) T) (audio.Decoder, error) {
	if params.Channels.Count() == 0 {
		return nil, fmt.Errorf("%w: %w", audio.ErrConfig, ErrNoChannels)
	}
	if params.SampleRate == 0 {
		return nil, fmt.Errorf("%w: sample rate is required", audio.ErrConfig)
	}

	spec := audio.SignalSpec{Rate: params.SampleRate, Channels: params.Channels}
	frames := defaultFrames
	if params.MaxFramesPerPacket > 0 && params.MaxFramesPerPacket < audio.MaxScratchLen {
		frames = int(params.MaxFramesPerPacket)
	}

	return &decoder[T]{
		params: params,
		spec:   spec,
		width:  width,
		read:   read,
		buf:    audio.NewBuffer[T](frames, spec),
		logger: opts.LoggerOrNop(),
	}, nil
}

func (d *decoder[T]) Decode(pkt audio.Packet) (audio.AudioBuffer, error) {
	stride := d.width * d.spec.Channels.Count()
	if len(pkt.Data)%stride != 0 {
		return nil, audio.DecodeError(fmt.Sprintf("%d bytes is not a whole number of %d byte frames", len(pkt.Data), stride))
	}

	frames := len(pkt.Data) / stride
	if err := d.reserve(frames); err != nil {
		return nil, err
	}

	d.buf.Clear()
	d.buf.RenderReserved(frames)

	channels := d.spec.Channels.Count()
	off := 0
	for f := range frames {
		for ch := range channels {
			d.buf.ChanMut(ch)[f] = d.read(pkt.Data[off:])
			off += d.width
		}
	}

	return d.buf, nil
}

// reserve grows the buffer until it holds frames.
func (d *decoder[T]) reserve(frames int) error {
	capacity := d.buf.Capacity()
	if frames <= capacity {
		return nil
	}

	for capacity < frames {
		next, ok := audio.GrowScratch(capacity, audio.MaxScratchLen)
		if !ok {
			return audio.LimitError(fmt.Sprintf("pcm packet of %d frames", frames), audio.ErrBufferCapacity)
		}
		capacity = next
	}

	d.logger.Debug("growing pcm buffer",
		zap.String("codec", string(d.params.Codec)),
		zap.Int("from", d.buf.Capacity()),
		zap.Int("to", capacity),
	)
	d.buf = audio.NewBuffer[T](capacity, d.spec)

	return nil
}

func (d *decoder[T]) LastDecoded() audio.AudioBuffer { return d.buf }
func (d *decoder[T]) Params() audio.CodecParams      { return d.params }

func (d *decoder[T]) Reset() {}

func (d *decoder[T]) Close() error {
	d.buf = audio.NewBuffer[T](0, d.spec)
	return nil
}

func readU8(b []byte) uint8 { return b[0] }
func readS8(b []byte) int8  { return int8(b[0]) }

func readU16(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }
func readS16(b []byte) int16  { return int16(binary.LittleEndian.Uint16(b)) }

func readU24(b []byte) audio.U24 {
	return audio.U24(uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16)
}

func readS24(b []byte) audio.S24 {
	v := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
	return audio.S24(int32(v<<8) >> 8)
}

func readU32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
func readS32(b []byte) int32  { return int32(binary.LittleEndian.Uint32(b)) }

func readF32(b []byte) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b)) }
func readF64(b []byte) float64 { return math.Float64frombits(binary.LittleEndian.Uint64(b)) }

func descriptor[T audio.Sample](codec audio.CodecType, long string, width int, read func([]byte) T) audio.CodecDescriptor {
	return audio.CodecDescriptor{
		Type:      codec,
		ShortName: string(codec),
		LongName:  "PCM " + long,
		New: func(params audio.CodecParams, opts audio.DecoderOptions) (audio.Decoder, error) {
			return newDecoder(params, opts, width, read)
		},
	}
}

// Descriptors returns the ten PCM codecs.
func Descriptors() []audio.CodecDescriptor {
	return []audio.CodecDescriptor{
		descriptor(audio.CodecPCMU8, "unsigned 8-bit", 1, readU8),
		descriptor(audio.CodecPCMU16LE, "unsigned 16-bit little-endian", 2, readU16),
		descriptor(audio.CodecPCMU24LE, "unsigned 24-bit little-endian", 3, readU24),
		descriptor(audio.CodecPCMU32LE, "unsigned 32-bit little-endian", 4, readU32),
		descriptor(audio.CodecPCMS8, "signed 8-bit", 1, readS8),
		descriptor(audio.CodecPCMS16LE, "signed 16-bit little-endian", 2, readS16),
		descriptor(audio.CodecPCMS24LE, "signed 24-bit little-endian", 3, readS24),
		descriptor(audio.CodecPCMS32LE, "signed 32-bit little-endian", 4, readS32),
		descriptor(audio.CodecPCMF32LE, "32-bit float little-endian", 4, readF32),
		descriptor(audio.CodecPCMF64LE, "64-bit float little-endian", 8, readF64),
	}
}

// Register adds every PCM codec to reg.
func Register(reg *audio.Registry) {
	for _, d := range Descriptors() {
		reg.Register(d)
	}
}
