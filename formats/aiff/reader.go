// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	goaiff "github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/ik5/playdec/audio"
	"github.com/ik5/playdec/formats/pcm"
)

const (
	// PacketFrames is how many frames each packet carries.
	PacketFrames = 4096

	trackID = 0
)

// aiffReader is an interface for aiff.Decoder to allow testing
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type reader struct {
	dec    aiffReader
	reopen func() (aiffReader, error)
	track  audio.Track
	log    audio.MetadataLog

	channels int
	bits     int
	width    int
	ints     *goaudio.IntBuffer
	ts       uint64
}

var _ audio.FormatReader = (*reader)(nil)

// Sniff accepts an IFF FORM of AIFF or AIFC type.
func Sniff(header []byte) bool {
	if len(header) < 12 || !bytes.Equal(header[:4], []byte("FORM")) {
		return false
	}

	kind := string(header[8:12])
	return kind == "AIFF" || kind == "AIFC"
}

// Descriptor registers AIFF with a probe.
func Descriptor() audio.FormatDescriptor {
	return audio.FormatDescriptor{
		Name:       "aiff",
		Extensions: []string{"aif", "aiff", "aifc"},
		Sniff:      Sniff,
		Open:       Open,
	}
}

// decodeAt starts a go-audio decoder at origin.
func decodeAt(rs io.ReadSeeker, origin int64) (*goaiff.Decoder, error) {
	if _, err := rs.Seek(origin, io.SeekStart); err != nil {
		return nil, fmt.Errorf("aiff: %w", err)
	}

	dec := goaiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	return dec, nil
}

// Open reads the COMM chunk with go-audio/aiff and repacks the big endian
// samples as little endian pcm packets.
func Open(rs io.ReadSeeker) (audio.FormatReader, error) {
	origin, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("aiff: %w", err)
	}

	dec, err := decodeAt(rs, origin)
	if err != nil {
		return nil, err
	}
	if dec.Format() == nil {
		return nil, ErrUnsupportedAiffLayout
	}

	r, err := newReader(dec, int(dec.BitDepth), uint64(dec.NumSampleFrames))
	if err != nil {
		return nil, err
	}
	r.reopen = func() (aiffReader, error) { return decodeAt(rs, origin) }

	return r, nil
}

func newReader(dec aiffReader, bits int, frames uint64) (*reader, error) {
	format := dec.Format()
	if format.NumChannels < 1 || format.NumChannels > 32 || format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d channels at %d Hz", ErrUnsupportedAiffLayout, format.NumChannels, format.SampleRate)
	}

	codec, width, err := pcm.SignedCodec(bits)
	if err != nil {
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedDepth, bits)
	}

	rate := uint32(format.SampleRate)

	return &reader{
		dec: dec,
		track: audio.Track{
			ID: trackID,
			Params: audio.CodecParams{
				Codec:              codec,
				SampleRate:         rate,
				Channels:           audio.ChannelsFromCount(format.NumChannels),
				TimeBase:           audio.NewTimeBase(rate),
				NFrames:            frames,
				MaxFramesPerPacket: PacketFrames,
				BitsPerSample:      uint32(bits),
			},
		},
		channels: format.NumChannels,
		bits:     bits,
		width:    width,
		ints: &goaudio.IntBuffer{
			Data:   make([]int, PacketFrames*format.NumChannels),
			Format: format,
		},
	}, nil
}

func (r *reader) Tracks() []audio.Track        { return []audio.Track{r.track} }
func (r *reader) Metadata() *audio.MetadataLog { return &r.log }
func (r *reader) Close() error                 { return nil }

// read fills the int buffer with up to frames whole frames.
func (r *reader) read(frames int) (int, error) {
	r.ints.Data = r.ints.Data[:frames*r.channels]

	n, err := r.dec.PCMBuffer(r.ints)
	if n == 0 {
		if err == nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, audio.ErrEndOfStream
		}

		return 0, audio.IOError(err)
	}

	return n / r.channels, nil
}

func (r *reader) NextPacket() (audio.Packet, error) {
	frames, err := r.read(PacketFrames)
	if err != nil {
		return audio.Packet{}, err
	}
	if frames == 0 {
		return audio.Packet{}, audio.ErrEndOfStream
	}

	data := make([]byte, 0, frames*r.channels*r.width)
	for _, v := range r.ints.Data[:frames*r.channels] {
		data = pcm.AppendSigned(data, r.width, r.bits, int32(v))
	}

	pkt := audio.Packet{
		TrackID: trackID,
		TS:      r.ts,
		Dur:     uint64(frames),
		Data:    data,
	}
	r.ts += uint64(frames)

	return pkt, nil
}

// Seek restarts the decoder and reads up to the target, since go-audio/aiff
// only reads forward.
func (r *reader) Seek(_ audio.SeekMode, to audio.SeekTo) (audio.SeekedTo, error) {
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
	if r.reopen == nil {
		return audio.SeekedTo{}, audio.SeekError("source cannot be rewound")
	}

	dec, err := r.reopen()
	if err != nil {
		return audio.SeekedTo{}, &audio.Error{Kind: audio.KindSeek, Msg: "aiff", Err: err}
	}
	r.dec = dec
	r.ts = 0

	for r.ts < ts {
		frames, err := r.read(int(min(ts-r.ts, PacketFrames)))
		if audio.IsEndOfStream(err) || (err == nil && frames == 0) {
			return audio.SeekedTo{}, audio.SeekError(fmt.Sprintf("frame %d is past the end of the stream", ts))
		}
		if err != nil {
			return audio.SeekedTo{}, err
		}
		r.ts += uint64(frames)
	}

	return audio.SeekedTo{TrackID: trackID, RequiredTS: ts, ActualTS: r.ts}, nil
}
