// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"time"

	"go.uber.org/zap"
)

// CodecType identifies a codec in the Registry.
type CodecType string

const (
	// CodecNull marks a track without a usable codec.
	CodecNull CodecType = ""

	CodecPCMU8    CodecType = "pcm_u8"
	CodecPCMU16LE CodecType = "pcm_u16le"
	CodecPCMU24LE CodecType = "pcm_u24le"
	CodecPCMU32LE CodecType = "pcm_u32le"
	CodecPCMS8    CodecType = "pcm_s8"
	CodecPCMS16LE CodecType = "pcm_s16le"
	CodecPCMS24LE CodecType = "pcm_s24le"
	CodecPCMS32LE CodecType = "pcm_s32le"
	CodecPCMF32LE CodecType = "pcm_f32le"
	CodecPCMF64LE CodecType = "pcm_f64le"

	CodecOpus CodecType = "opus"
)

// TimeBase converts timestamps to time: one tick is Numer/Denom seconds.
// The zero value means the time base is unknown.
type TimeBase struct {
	Numer uint32
	Denom uint32
}

// NewTimeBase returns the time base of a stream sampled at rate.
func NewTimeBase(rate uint32) TimeBase {
	return TimeBase{Numer: 1, Denom: rate}
}

// IsZero reports whether tb is unknown.
func (tb TimeBase) IsZero() bool {
	return tb.Numer == 0 || tb.Denom == 0
}

// CalcTimestamp converts d to a timestamp, truncating toward zero.
func (tb TimeBase) CalcTimestamp(d time.Duration) uint64 {
	if tb.IsZero() || d <= 0 {
		return 0
	}

	secs := uint64(d / time.Second)
	nanos := uint64(d % time.Second)
	denom, numer := uint64(tb.Denom), uint64(tb.Numer)

	return (secs*denom + nanos*denom/uint64(time.Second)) / numer
}

// CalcTime converts a timestamp to a duration.
func (tb TimeBase) CalcTime(ts uint64) time.Duration {
	if tb.IsZero() {
		return 0
	}

	ticks := ts * uint64(tb.Numer)
	secs := ticks / uint64(tb.Denom)
	rem := ticks % uint64(tb.Denom)

	return time.Duration(secs)*time.Second + time.Duration(rem*uint64(time.Second)/uint64(tb.Denom))
}

// CodecParams describe the stream a decoder is built for.
// Zero values mean unknown.
type CodecParams struct {
	Codec              CodecType
	SampleRate         uint32
	Channels           Channels
	TimeBase           TimeBase
	NFrames            uint64
	MaxFramesPerPacket uint64
	BitsPerSample      uint32
	ExtraData          []byte
}

// DecoderOptions are handed to every codec constructor.
type DecoderOptions struct {
	Logger *zap.Logger
}

// LoggerOrNop returns the configured logger or a no-op one.
func (o DecoderOptions) LoggerOrNop() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}

	return o.Logger
}

// Decoder turns packets of one codec into audio buffers.
type Decoder interface {
	// Decode decodes pkt. The returned buffer is owned by the decoder
	// and stays valid until the next call.
	Decode(pkt Packet) (AudioBuffer, error)
	// LastDecoded returns the buffer of the last successful Decode.
	// It is never nil; before the first decode it holds zero frames.
	LastDecoded() AudioBuffer
	Params() CodecParams
	Reset()
	Close() error
}

// CodecDescriptor registers a codec constructor.
type CodecDescriptor struct {
	Type      CodecType
	ShortName string
	LongName  string
	New       func(params CodecParams, opts DecoderOptions) (Decoder, error)
}

// Packet is one demuxed unit of codec data.
type Packet struct {
	TrackID uint32
	// TS is the presentation timestamp in the track time base.
	TS uint64
	// Dur is the packet duration in the track time base.
	Dur uint64
	// TrimStart is the number of decoded frames at the start of the
	// packet that are not played, such as codec warm-up.
	TrimStart uint64
	Data      []byte
}

// Track is one elementary stream of a container.
type Track struct {
	ID     uint32
	Params CodecParams
}
