// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/playdec/audio"
)

const (
	// frameBytes is one stereo frame of 16-bit samples, the only layout go-mp3 produces.
	frameBytes = 4

	// PacketFrames matches the MPEG-1 Layer III frame length.
	PacketFrames = 1152

	trackID = 0
)

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	io.ReadSeeker
	SampleRate() int
	Length() int64
}

type reader struct {
	dec   mp3Reader
	track audio.Track
	buf   []byte
	ts    uint64
	log   audio.MetadataLog
}

var _ audio.FormatReader = (*reader)(nil)

// Sniff accepts an ID3v2 tag or an MPEG audio frame sync.
func Sniff(header []byte) bool {
	if len(header) >= 3 && string(header[:3]) == "ID3" {
		return true
	}

	return len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0
}

// Descriptor registers MP3 with a probe.
func Descriptor() audio.FormatDescriptor {
	return audio.FormatDescriptor{
		Name:       "mp3",
		Extensions: []string{"mp3"},
		Sniff:      Sniff,
		Open:       Open,
	}
}

// Open decodes rs with go-mp3 and packs the output into pcm_s16le packets.
func Open(rs io.ReadSeeker) (audio.FormatReader, error) {
	dec, err := gomp3.NewDecoder(rs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMP3, err)
	}

	return newReader(dec), nil
}

func newReader(dec mp3Reader) *reader {
	rate := uint32(dec.SampleRate())

	var frames uint64
	if n := dec.Length(); n > 0 {
		frames = uint64(n / frameBytes)
	}

	return &reader{
		dec: dec,
		track: audio.Track{
			ID: trackID,
			Params: audio.CodecParams{
				Codec:              audio.CodecPCMS16LE,
				SampleRate:         rate,
				Channels:           audio.LayoutStereo,
				TimeBase:           audio.NewTimeBase(rate),
				NFrames:            frames,
				MaxFramesPerPacket: PacketFrames,
				BitsPerSample:      16,
			},
		},
		buf: make([]byte, PacketFrames*frameBytes),
	}
}

func (r *reader) Tracks() []audio.Track        { return []audio.Track{r.track} }
func (r *reader) Metadata() *audio.MetadataLog { return &r.log }
func (r *reader) Close() error                 { return nil }

func (r *reader) NextPacket() (audio.Packet, error) {
	n, err := io.ReadFull(r.dec, r.buf)
	n -= n % frameBytes

	if n == 0 {
		if err == nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return audio.Packet{}, audio.ErrEndOfStream
		}

		return audio.Packet{}, audio.IOError(err)
	}

	frames := uint64(n / frameBytes)
	pkt := audio.Packet{
		TrackID: trackID,
		TS:      r.ts,
		Dur:     frames,
		Data:    append([]byte(nil), r.buf[:n]...),
	}
	r.ts += frames

	return pkt, nil
}

// Seek jumps to the frame holding the target. go-mp3 decodes the frames
// around it, so the landing point is exact.
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

	off, err := r.dec.Seek(int64(ts)*frameBytes, io.SeekStart)
	if err != nil {
		return audio.SeekedTo{}, &audio.Error{Kind: audio.KindSeek, Msg: "mp3", Err: err}
	}

	r.ts = uint64(off / frameBytes)

	return audio.SeekedTo{TrackID: trackID, RequiredTS: ts, ActualTS: r.ts}, nil
}
