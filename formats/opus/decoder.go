// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/ik5/playdec/audio"
	"go.uber.org/zap"
)

const (
	// FrameRate is the nominal packet rate, 20ms per packet.
	FrameRate = 50

	// OutputChannels is fixed: every stream decodes to stereo whatever it was encoded with.
	OutputChannels = 2
)

var supportedRates = []uint32{8000, 12000, 16000, 24000, 48000}

// frameDecoder is the part of libopus the Decoder drives.
type frameDecoder interface {
	// DecodeFloat32 decodes pkt into interleaved pcm and returns the number
	// of samples per channel. A nil pkt asks for loss concealment.
	// It returns errBufferTooSmall when pcm cannot hold the packet.
	DecodeFloat32(pkt []byte, pcm []float32) (int, error)
	Reset() error
}

type openFunc func(rate uint32, channels int) (frameDecoder, error)

// Decoder adapts libopus to audio.Decoder.
//
// Every call takes the decoder lock, so a Decoder can be shared even
// though libopus state must never be touched by two calls at once.
type Decoder struct {
	mtx sync.Mutex

	inner  frameDecoder
	params audio.CodecParams
	spec   audio.SignalSpec
	buf    *audio.Buffer[float32]
	raw    []float32

	maxRaw    int
	maxPacket int

	logger *zap.Logger
}

var _ audio.Decoder = (*Decoder)(nil)

// New returns a libopus backed decoder for params.
func New(params audio.CodecParams, opts audio.DecoderOptions) (audio.Decoder, error) {
	return newDecoder(params, opts, openLibopus)
}

// Descriptor registers the Opus codec.
func Descriptor() audio.CodecDescriptor {
	return audio.CodecDescriptor{
		Type:      audio.CodecOpus,
		ShortName: "opus",
		LongName:  "Opus (libopus)",
		New:       New,
	}
}

func newDecoder(params audio.CodecParams, opts audio.DecoderOptions, open openFunc) (*Decoder, error) {
	rate := params.SampleRate
	if !slices.Contains(supportedRates, rate) {
		return nil, fmt.Errorf("%w: %w: got %d", audio.ErrConfig, ErrUnsupportedRate, rate)
	}

	inner, err := open(rate, OutputChannels)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", audio.ErrConfig, err)
	}

	mono := int(rate) / FrameRate
	spec := audio.SignalSpec{Rate: rate, Channels: audio.LayoutStereo}

	params.Channels = audio.LayoutStereo
	if params.TimeBase.IsZero() {
		params.TimeBase = audio.NewTimeBase(rate)
	}

	return &Decoder{
		inner:     inner,
		params:    params,
		spec:      spec,
		buf:       audio.NewBuffer[float32](mono, spec),
		raw:       make([]float32, mono*OutputChannels),
		maxRaw:    audio.MaxScratchLen,
		maxPacket: math.MaxInt32,
		logger:    opts.LoggerOrNop().With(zap.Uint32("rate", rate)),
	}, nil
}

// Decode decodes one Opus packet. An empty packet is a lost packet and
// is concealed by libopus.
func (d *Decoder) Decode(pkt audio.Packet) (audio.AudioBuffer, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	n, err := d.decode(pkt.Data)
	if err != nil {
		d.buf.Clear()
		return nil, err
	}

	d.buf.Clear()
	d.buf.RenderReserved(min(n, len(d.raw)/OutputChannels))

	left, right := d.buf.ChanMut(0), d.buf.ChanMut(1)
	for i := range left {
		left[i] = d.raw[2*i]
		right[i] = d.raw[2*i+1]
	}

	return d.buf, nil
}

// decode runs the inner decoder, growing the scratch buffer until the
// packet fits or the ceiling is hit.
func (d *Decoder) decode(data []byte) (int, error) {
	if len(data) > d.maxPacket {
		return 0, audio.DecodeError(fmt.Sprintf("opus packet of %d bytes is larger than %d", len(data), d.maxPacket))
	}

	var pkt []byte
	if len(data) > 0 {
		pkt = data
	}

	for {
		n, err := d.inner.DecodeFloat32(pkt, d.raw)
		if err == nil {
			return n, nil
		}

		if !errors.Is(err, errBufferTooSmall) {
			d.logger.Error("opus decode failed", zap.Int("bytes", len(data)), zap.Error(err))
			return 0, audio.DecodeError("opus decode failed")
		}

		if err := d.grow(); err != nil {
			return 0, err
		}
	}
}

func (d *Decoder) grow() error {
	// libopus rejects a buffer that does not hold whole frames.
	ceiling := d.maxRaw - d.maxRaw%OutputChannels

	next, ok := audio.GrowScratch(len(d.raw), ceiling)
	if !ok {
		return audio.LimitError(fmt.Sprintf("opus scratch of %d samples", len(d.raw)), audio.ErrBufferCapacity)
	}

	d.logger.Debug("growing opus scratch", zap.Int("from", len(d.raw)), zap.Int("to", next))

	d.raw = make([]float32, next)
	d.buf = audio.NewBuffer[float32](next/OutputChannels, d.spec)

	return nil
}

func (d *Decoder) LastDecoded() audio.AudioBuffer {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	return d.buf
}

func (d *Decoder) Params() audio.CodecParams {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	return d.params
}

// Reset drops the libopus state. A failed reset is logged and ignored.
func (d *Decoder) Reset() {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if err := d.inner.Reset(); err != nil {
		d.logger.Debug("opus reset failed", zap.Error(err))
	}
}

// Close releases the scratch buffers.
func (d *Decoder) Close() error {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	d.raw = nil
	d.buf = audio.NewBuffer[float32](0, d.spec)

	return nil
}

// Register adds the Opus codec to reg.
func Register(reg *audio.Registry) {
	reg.Register(Descriptor())
}
