// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/ik5/playdec/audio"
	"github.com/jfreymuth/oggvorbis"
	govorbis "github.com/jfreymuth/vorbis"
)

const (
	// PacketFrames is how many frames each packet carries.
	PacketFrames = 4096

	pageHeaderLen = 27
	identMagic    = "\x01vorbis"

	trackID = 0
)

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	CommentHeader() govorbis.CommentHeader
	Length() int64
	Position() int64
	SetPosition(pos int64) error
	Read([]float32) (int, error)
}

type reader struct {
	dec      oggReader
	track    audio.Track
	log      audio.MetadataLog
	channels int
	frameBuf []float32
}

var _ audio.FormatReader = (*reader)(nil)

// Sniff accepts an Ogg page whose first packet is a Vorbis
// identification header.
func Sniff(header []byte) bool {
	if len(header) < pageHeaderLen || !bytes.Equal(header[:4], []byte("OggS")) {
		return false
	}

	body := pageHeaderLen + int(header[26])
	return len(header) >= body+len(identMagic) && string(header[body:body+len(identMagic)]) == identMagic
}

// Descriptor registers Ogg Vorbis with a probe.
func Descriptor() audio.FormatDescriptor {
	return audio.FormatDescriptor{
		Name:       "ogg-vorbis",
		Extensions: []string{"ogg", "oga"},
		Sniff:      Sniff,
		Open:       Open,
	}
}

// Open decodes rs with oggvorbis and emits pcm_f32le packets.
func Open(rs io.ReadSeeker) (audio.FormatReader, error) {
	dec, err := oggvorbis.NewReader(rs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotVorbis, err)
	}

	return newReader(dec)
}

func newReader(dec oggReader) (*reader, error) {
	channels := dec.Channels()
	if channels < 1 || channels > 32 || dec.SampleRate() <= 0 {
		return nil, fmt.Errorf("%w: %d channels at %d Hz", ErrNotVorbis, channels, dec.SampleRate())
	}

	rate := uint32(dec.SampleRate())

	var frames uint64
	if n := dec.Length(); n > 0 {
		frames = uint64(n)
	}

	r := &reader{
		dec: dec,
		track: audio.Track{
			ID: trackID,
			Params: audio.CodecParams{
				Codec:              audio.CodecPCMF32LE,
				SampleRate:         rate,
				Channels:           audio.ChannelsFromCount(channels),
				TimeBase:           audio.NewTimeBase(rate),
				NFrames:            frames,
				MaxFramesPerPacket: PacketFrames,
				BitsPerSample:      32,
			},
		},
		channels: channels,
		frameBuf: make([]float32, PacketFrames*channels),
	}

	if rev, ok := revisionFromComments(dec.CommentHeader()); ok {
		r.log.Push(rev)
	}

	return r, nil
}

// revisionFromComments turns KEY=value comments into tags with upper case keys.
func revisionFromComments(c govorbis.CommentHeader) (audio.MetadataRevision, bool) {
	rev := audio.MetadataRevision{Vendor: c.Vendor}
	for _, comment := range c.Comments {
		key, value, ok := strings.Cut(comment, "=")
		if !ok || key == "" {
			continue
		}
		rev.Tags = append(rev.Tags, audio.Tag{Key: strings.ToUpper(key), Value: value})
	}

	return rev, rev.Vendor != "" || len(rev.Tags) > 0
}

func (r *reader) Tracks() []audio.Track        { return []audio.Track{r.track} }
func (r *reader) Metadata() *audio.MetadataLog { return &r.log }
func (r *reader) Close() error                 { return nil }

func (r *reader) NextPacket() (audio.Packet, error) {
	ts := r.dec.Position()

	// Read returns values, not frames, and may return data with an error.
	n, err := r.dec.Read(r.frameBuf)
	n -= n % r.channels
	if n == 0 {
		if err == nil || errors.Is(err, io.EOF) {
			return audio.Packet{}, audio.ErrEndOfStream
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return audio.Packet{}, audio.IOError(err)
		}

		return audio.Packet{}, &audio.Error{Kind: audio.KindDecode, Msg: "vorbis", Err: err}
	}

	data := make([]byte, 0, 4*n)
	for _, v := range r.frameBuf[:n] {
		data = binary.LittleEndian.AppendUint32(data, math.Float32bits(v))
	}

	return audio.Packet{
		TrackID: trackID,
		TS:      uint64(max(ts, 0)),
		Dur:     uint64(n / r.channels),
		Data:    data,
	}, nil
}

// Seek moves to the exact frame. oggvorbis bisects the pages and decodes
// forward from the one before the target.
func (r *reader) Seek(_ audio.SeekMode, to audio.SeekTo) (audio.SeekedTo, error) {
	if to.TrackID != trackID {
		return audio.SeekedTo{}, audio.SeekError(fmt.Sprintf("unknown track %d", to.TrackID))
	}

	ts := to.TS
	if to.ByTime {
		ts = r.track.Params.TimeBase.CalcTimestamp(to.Time)
	}

	// The length is only known on a seekable source.
	n := r.track.Params.NFrames
	if n == 0 {
		return audio.SeekedTo{}, audio.SeekError("stream length is unknown")
	}
	if ts >= n {
		return audio.SeekedTo{}, audio.SeekError(fmt.Sprintf("frame %d is past the end of the stream", ts))
	}

	if err := r.dec.SetPosition(int64(ts)); err != nil {
		return audio.SeekedTo{}, &audio.Error{Kind: audio.KindSeek, Msg: "vorbis", Err: err}
	}

	return audio.SeekedTo{TrackID: trackID, RequiredTS: ts, ActualTS: ts}, nil
}
