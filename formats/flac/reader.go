// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ik5/playdec/audio"
	"github.com/ik5/playdec/formats/pcm"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
)

const (
	signature = "fLaC"
	trackID   = 0
)

// flacStream is an interface for flac.Stream to allow testing
type flacStream interface {
	ParseNext() (*frame.Frame, error)
	Seek(sampleNum uint64) (uint64, error)
	Close() error
}

// streamInfo is the part of the StreamInfo block the reader needs.
type streamInfo struct {
	sampleRate uint32
	channels   int
	bits       int
	samples    uint64
	maxBlock   int
}

type reader struct {
	stream flacStream
	track  audio.Track
	log    audio.MetadataLog

	channels int
	bits     int
	width    int
	ts       uint64
	// skip drops the head of the next frame after an accurate seek.
	skip uint64
}

var _ audio.FormatReader = (*reader)(nil)

// Sniff accepts the fLaC stream marker.
func Sniff(header []byte) bool {
	return len(header) >= len(signature) && string(header[:len(signature)]) == signature
}

// Descriptor registers FLAC with a probe.
func Descriptor() audio.FormatDescriptor {
	return audio.FormatDescriptor{
		Name:       "flac",
		Extensions: []string{"flac"},
		Sniff:      Sniff,
		Open:       Open,
	}
}

// Open parses the metadata blocks with mewkiz/flac and decodes one FLAC
// frame per packet.
func Open(rs io.ReadSeeker) (audio.FormatReader, error) {
	stream, err := flac.NewSeek(rs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFLAC, err)
	}
	if stream.Info == nil {
		stream.Close()
		return nil, ErrNotFLAC
	}

	info := streamInfo{
		sampleRate: stream.Info.SampleRate,
		channels:   int(stream.Info.NChannels),
		bits:       int(stream.Info.BitsPerSample),
		samples:    stream.Info.NSamples,
		maxBlock:   int(stream.Info.BlockSizeMax),
	}

	r, err := newReader(stream, info)
	if err != nil {
		stream.Close()
		return nil, err
	}

	for _, block := range stream.Blocks {
		if c, ok := block.Body.(*meta.VorbisComment); ok {
			r.log.Push(revisionFromComment(c))
		}
	}

	return r, nil
}

func newReader(stream flacStream, info streamInfo) (*reader, error) {
	if info.channels < 1 || info.channels > 8 || info.sampleRate == 0 {
		return nil, fmt.Errorf("%w: %d channels at %d Hz", ErrUnsupportedLayout, info.channels, info.sampleRate)
	}

	codec, width, err := pcm.SignedCodec(info.bits)
	if err != nil {
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedLayout, info.bits)
	}

	return &reader{
		stream: stream,
		track: audio.Track{
			ID: trackID,
			Params: audio.CodecParams{
				Codec:              codec,
				SampleRate:         info.sampleRate,
				Channels:           audio.ChannelsFromCount(info.channels),
				TimeBase:           audio.NewTimeBase(info.sampleRate),
				NFrames:            info.samples,
				MaxFramesPerPacket: uint64(max(info.maxBlock, 0)),
				BitsPerSample:      uint32(info.bits),
			},
		},
		channels: info.channels,
		bits:     info.bits,
		width:    width,
	}, nil
}

func revisionFromComment(c *meta.VorbisComment) audio.MetadataRevision {
	rev := audio.MetadataRevision{Vendor: c.Vendor}
	for _, tag := range c.Tags {
		rev.Tags = append(rev.Tags, audio.Tag{Key: strings.ToUpper(tag[0]), Value: tag[1]})
	}

	return rev
}

func (r *reader) Tracks() []audio.Track        { return []audio.Track{r.track} }
func (r *reader) Metadata() *audio.MetadataLog { return &r.log }
func (r *reader) Close() error                 { return r.stream.Close() }

func (r *reader) NextPacket() (audio.Packet, error) {
	for {
		f, err := r.stream.ParseNext()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return audio.Packet{}, audio.ErrEndOfStream
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return audio.Packet{}, audio.IOError(err)
			}

			return audio.Packet{}, &audio.Error{Kind: audio.KindDecode, Msg: "flac", Err: err}
		}
		if len(f.Subframes) != r.channels {
			return audio.Packet{}, audio.DecodeError(fmt.Sprintf("flac: frame has %d channels, stream has %d", len(f.Subframes), r.channels))
		}

		frames := len(f.Subframes[0].Samples)
		for _, sub := range f.Subframes[1:] {
			frames = min(frames, len(sub.Samples))
		}

		start := int(min(r.skip, uint64(frames)))
		r.skip -= uint64(start)
		if start == frames {
			continue
		}

		data := make([]byte, 0, (frames-start)*r.channels*r.width)
		for i := start; i < frames; i++ {
			for _, sub := range f.Subframes {
				data = pcm.AppendSigned(data, r.width, r.bits, sub.Samples[i])
			}
		}

		pkt := audio.Packet{
			TrackID: trackID,
			TS:      r.ts,
			Dur:     uint64(frames - start),
			Data:    data,
		}
		r.ts += pkt.Dur

		return pkt, nil
	}
}

// Seek lands on the frame holding the target. An accurate seek also trims
// the samples of that frame that come before the target.
func (r *reader) Seek(mode audio.SeekMode, to audio.SeekTo) (audio.SeekedTo, error) {
	if to.TrackID != trackID {
		return audio.SeekedTo{}, audio.SeekError(fmt.Sprintf("unknown track %d", to.TrackID))
	}

	ts := to.TS
	if to.ByTime {
		ts = r.track.Params.TimeBase.CalcTimestamp(to.Time)
	}
	if n := r.track.Params.NFrames; n > 0 && ts >= n {
		return audio.SeekedTo{}, audio.SeekError(fmt.Sprintf("frame %d is past the end of the stream", ts))
	}

	actual, err := r.stream.Seek(ts)
	if err != nil {
		return audio.SeekedTo{}, &audio.Error{Kind: audio.KindSeek, Msg: "flac", Err: err}
	}

	r.skip = 0
	if mode == audio.SeekAccurate && actual < ts {
		r.skip = ts - actual
		actual = ts
	}
	r.ts = actual

	return audio.SeekedTo{TrackID: trackID, RequiredTS: ts, ActualTS: actual}, nil
}
