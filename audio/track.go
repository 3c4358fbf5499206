// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"time"

	"go.uber.org/zap"
)

// TrackStats counts what a TrackDecoder did with the packets it read.
type TrackStats struct {
	Decoded uint64
	Skipped uint64
	Resets  uint64
	Foreign uint64
}

type trackConfig struct {
	logger *zap.Logger
	gain   float32
}

// TrackOption configures a TrackDecoder.
type TrackOption func(*trackConfig)

// WithLogger sets the logger used by the decoder and its codec.
func WithLogger(l *zap.Logger) TrackOption {
	return func(c *trackConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithGain sets the initial gain. See TrackDecoder.SetGain.
func WithGain(g float32) TrackOption {
	return func(c *trackConfig) {
		c.gain = clampGain(g)
	}
}

// TrackDecoder plays the first decodable track of a container as a Sound.
//
// A TrackDecoder has a single owner; its methods must not be called concurrently.
type TrackDecoder struct {
	format  FormatReader
	dec     Decoder
	trackID uint32

	rate     uint32
	channels Channels

	nextChannel int
	nextSample  int

	gain   float32
	stats  TrackStats
	logger *zap.Logger
}

var _ Sound = (*TrackDecoder)(nil)

// OpenTrack probes src and returns a decoder for its first playable track.
func OpenTrack(src io.ReadSeeker, hint Hint, probe *Probe, reg *Registry, opts ...TrackOption) (*TrackDecoder, error) {
	format, err := probe.Format(src, hint)
	if err != nil {
		return nil, MapError(err)
	}

	td, err := NewTrackDecoder(format, reg, opts...)
	if err != nil {
		return nil, errors.Join(err, format.Close())
	}

	return td, nil
}

// NewTrackDecoder decodes the first track of format whose codec is known.
//
// The first packet is decoded right away so ChannelCount and SampleRate
// are valid on return. On success the decoder owns format.
func NewTrackDecoder(format FormatReader, reg *Registry, opts ...TrackOption) (*TrackDecoder, error) {
	cfg := trackConfig{logger: zap.NewNop(), gain: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	tracks := format.Tracks()
	idx := slices.IndexFunc(tracks, func(t Track) bool {
		return t.Params.Codec != CodecNull
	})
	if idx < 0 {
		return nil, MapError(&Error{Kind: KindUnsupported, Err: ErrNoTrack})
	}
	track := tracks[idx]

	dec, err := reg.Make(track.Params, DecoderOptions{Logger: cfg.logger})
	if err != nil {
		return nil, MapError(err)
	}

	td := &TrackDecoder{
		format:   format,
		dec:      dec,
		trackID:  track.ID,
		rate:     track.Params.SampleRate,
		channels: track.Params.Channels,
		gain:     cfg.gain,
		logger:   cfg.logger.With(zap.Uint32("track", track.ID), zap.String("codec", string(track.Params.Codec))),
	}

	// nobody has seen the previous layout yet, so the changed flag is dropped
	if _, err := td.decodeNextPacket(); err != nil && !IsEndOfStream(err) {
		return nil, errors.Join(MapError(err), dec.Close())
	}

	return td, nil
}

func (td *TrackDecoder) ChannelCount() int  { return td.channels.Count() }
func (td *TrackDecoder) SampleRate() uint32 { return td.rate }
func (td *TrackDecoder) TrackID() uint32    { return td.trackID }
func (td *TrackDecoder) Gain() float32      { return td.gain }
func (td *TrackDecoder) Stats() TrackStats  { return td.stats }

// Params returns the codec parameters of the decoded track.
func (td *TrackDecoder) Params() CodecParams { return td.dec.Params() }

// Metadata returns the latest tag revision the format reader has seen.
func (td *TrackDecoder) Metadata() (MetadataRevision, bool) {
	if log := td.format.Metadata(); log != nil {
		return log.Current()
	}

	return MetadataRevision{}, false
}

// NextSample returns the next interleaved sample of the track.
func (td *TrackDecoder) NextSample() (NextSample, error) {
	if td.nextChannel >= td.channels.Count() {
		td.nextChannel = 0
		td.nextSample++
	}

	buf := td.dec.LastDecoded()
	for td.nextSample >= buf.Frames() || buf.Spec().Channels.Count() == 0 {
		changed, err := td.decodeNextPacket()
		if err != nil {
			if IsEndOfStream(err) {
				return NextSample{Kind: SignalFinished}, nil
			}

			return NextSample{}, MapError(err)
		}
		if changed {
			return NextSample{Kind: SignalMetadataChanged}, nil
		}

		buf = td.dec.LastDecoded()
	}

	s := ExtractSample(buf, td.nextChannel, td.nextSample)
	td.nextChannel++

	return NextSample{Kind: SignalSample, Value: int16(float32(s) * td.gain)}, nil
}

// decodeNextPacket decodes the next packet of the track and reports
// whether its rate or channel layout differ from the previous one.
func (td *TrackDecoder) decodeNextPacket() (bool, error) {
	for {
		pkt, err := td.format.NextPacket()
		if err != nil {
			if IsEndOfStream(err) || Classify(err) != RecoverSkip {
				return false, err
			}

			// the reader has already moved past the damaged data
			td.stats.Skipped++
			td.logger.Warn("skipping unreadable packet", zap.Error(err))
			continue
		}

		if meta := td.format.Metadata(); meta != nil {
			for !meta.IsLatest() {
				meta.Pop()
			}
		}

		if pkt.TrackID != td.trackID {
			td.stats.Foreign++
			continue
		}

		buf, err := td.dec.Decode(pkt)
		if err != nil {
			switch Classify(err) {
			case RecoverSkip:
				td.stats.Skipped++
				td.logger.Warn("skipping undecodable packet", zap.Uint64("ts", pkt.TS), zap.Error(err))
				continue
			case RecoverReset:
				td.stats.Resets++
				td.logger.Debug("codec requested a reset", zap.Uint64("ts", pkt.TS))
				continue
			default:
				return false, err
			}
		}

		td.stats.Decoded++
		td.nextChannel = 0
		td.nextSample = min(int(pkt.TrimStart), buf.Frames())

		spec := buf.Spec()
		changed := false
		if spec.Channels != td.channels {
			td.channels = spec.Channels
			changed = true
		}
		if spec.Rate != td.rate {
			td.rate = spec.Rate
			changed = true
		}

		return changed, nil
	}
}

// Seek moves the track close to to and returns the position reached.
//
// When the time base and frame count are known the target becomes a
// timestamp clamped to the last frame. Otherwise the reader seeks by wall
// time. The decoder lands on the closest indexable point at or before the
// target, so the result is rarely exact.
func (td *TrackDecoder) Seek(to time.Duration) (time.Duration, error) {
	params := td.dec.Params()
	if params.SampleRate == 0 {
		return 0, fmt.Errorf("seek: %w: %w", ErrConfig, ErrUnknownRate)
	}
	to = max(to, 0)

	target := SeekToTime(td.trackID, to)
	if !params.TimeBase.IsZero() && params.NFrames > 0 {
		ts := min(params.TimeBase.CalcTimestamp(to), params.NFrames-1)
		target = SeekToTS(td.trackID, ts)
	}

	pos, err := td.format.Seek(SeekCoarse, target)
	if err != nil {
		return 0, MapError(err)
	}

	td.dec.Reset()
	td.nextChannel = 0
	td.nextSample = td.dec.LastDecoded().Frames()

	reached := time.Duration(pos.ActualTS*1000/uint64(params.SampleRate)) * time.Millisecond
	td.logger.Debug("seeked",
		zap.Duration("requested", to),
		zap.Duration("reached", reached),
		zap.Uint64("ts", pos.ActualTS),
	)

	return reached, nil
}

// SetGain sets the sample multiplier, clamped to [0, 1].
func (td *TrackDecoder) SetGain(gain float32) {
	td.gain = clampGain(gain)
	td.logger.Debug("gain set", zap.Float32("gain", td.gain))
}

// Close releases the codec and the format reader.
func (td *TrackDecoder) Close() error {
	return errors.Join(td.dec.Close(), td.format.Close())
}

func clampGain(g float32) float32 {
	if math.IsNaN(float64(g)) {
		return 0
	}

	return min(max(g, 0), 1)
}
