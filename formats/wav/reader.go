// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"
	"github.com/ik5/playdec/audio"
)

const (
	formatPCM        = 1
	formatFloat      = 3
	formatExtensible = 0xFFFE

	// PacketFrames is how many frames each packet carries.
	PacketFrames = 4096

	trackID = 0
)

type reader struct {
	rs    io.ReadSeeker
	track audio.Track
	log   audio.MetadataLog

	start      int64
	end        int64
	pos        int64
	blockAlign int64
	buf        []byte
}

var _ audio.FormatReader = (*reader)(nil)

// Sniff accepts a RIFF container of WAVE type.
func Sniff(header []byte) bool {
	return len(header) >= 12 && bytes.Equal(header[:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE"))
}

// Descriptor registers WAV with a probe.
func Descriptor() audio.FormatDescriptor {
	return audio.FormatDescriptor{
		Name:       "wav",
		Extensions: []string{"wav", "wave"},
		Sniff:      Sniff,
		Open:       Open,
	}
}

// codecFor picks the pcm codec for a WAVE format tag and bit depth.
func codecFor(format, bits uint16) (audio.CodecType, error) {
	switch format {
	case formatPCM, formatExtensible:
		switch bits {
		case 8:
			return audio.CodecPCMU8, nil
		case 16:
			return audio.CodecPCMS16LE, nil
		case 24:
			return audio.CodecPCMS24LE, nil
		case 32:
			return audio.CodecPCMS32LE, nil
		}
	case formatFloat:
		switch bits {
		case 32:
			return audio.CodecPCMF32LE, nil
		case 64:
			return audio.CodecPCMF64LE, nil
		}
	}

	return audio.CodecNull, fmt.Errorf("%w: format %#x with %d bits", ErrUnsupportedFormat, format, bits)
}

// Open parses the RIFF headers with go-audio/wav and reads the data chunk
// as raw packets.
func Open(rs io.ReadSeeker) (audio.FormatReader, error) {
	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		if err := dec.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
		}
		return nil, ErrNotWavFile
	}

	codec, err := codecFor(dec.WavAudioFormat, dec.BitDepth)
	if err != nil {
		return nil, err
	}
	if dec.NumChans == 0 || dec.NumChans > 32 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedChannel, dec.NumChans)
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoPCMData, err)
	}
	if dec.PCMChunk == nil {
		return nil, ErrNoPCMData
	}

	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	// Streaming writers leave the chunk size at zero or 0xFFFFFFFF.
	end := size
	if n := int64(dec.PCMSize); n > 0 && start+n <= size {
		end = start + n
	}

	r := &reader{
		rs:         rs,
		start:      start,
		end:        end,
		blockAlign: int64(dec.NumChans) * int64(dec.BitDepth/8),
	}

	rev, ok := revisionFromInfo(dec.Metadata)
	if !ok && end < size {
		// INFO lists usually follow the samples.
		if _, err := rs.Seek(end, io.SeekStart); err == nil {
			dec.ReadMetadata()
			rev, ok = revisionFromInfo(dec.Metadata)
		}
	}
	if ok {
		r.log.Push(rev)
	}

	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	rate := dec.SampleRate
	r.track = audio.Track{
		ID: trackID,
		Params: audio.CodecParams{
			Codec:              codec,
			SampleRate:         rate,
			Channels:           audio.ChannelsFromCount(int(dec.NumChans)),
			TimeBase:           audio.NewTimeBase(rate),
			NFrames:            uint64((end - start) / r.blockAlign),
			MaxFramesPerPacket: PacketFrames,
			BitsPerSample:      uint32(dec.BitDepth),
		},
	}
	r.buf = make([]byte, PacketFrames*r.blockAlign)

	return r, nil
}

func (r *reader) Tracks() []audio.Track        { return []audio.Track{r.track} }
func (r *reader) Metadata() *audio.MetadataLog { return &r.log }
func (r *reader) Close() error                 { return nil }

func (r *reader) NextPacket() (audio.Packet, error) {
	left := r.end - r.start - r.pos
	want := min(int64(len(r.buf)), left-left%r.blockAlign)
	if want <= 0 {
		return audio.Packet{}, audio.ErrEndOfStream
	}

	n, err := io.ReadFull(r.rs, r.buf[:want])
	n -= n % int(r.blockAlign)
	if n == 0 {
		if err == nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return audio.Packet{}, audio.ErrEndOfStream
		}

		return audio.Packet{}, audio.IOError(err)
	}

	pkt := audio.Packet{
		TrackID: trackID,
		TS:      uint64(r.pos / r.blockAlign),
		Dur:     uint64(int64(n) / r.blockAlign),
		Data:    bytes.Clone(r.buf[:n]),
	}
	r.pos += int64(n)

	return pkt, nil
}

// Seek moves straight to the target frame.
func (r *reader) Seek(_ audio.SeekMode, to audio.SeekTo) (audio.SeekedTo, error) {
	if to.TrackID != trackID {
		return audio.SeekedTo{}, audio.SeekError(fmt.Sprintf("unknown track %d", to.TrackID))
	}

	ts := to.TS
	if to.ByTime {
		ts = r.track.Params.TimeBase.CalcTimestamp(to.Time)
	}
	if ts >= r.track.Params.NFrames {
		return audio.SeekedTo{}, audio.SeekError(fmt.Sprintf("frame %d is past the end of the stream", ts))
	}

	pos := int64(ts) * r.blockAlign
	if _, err := r.rs.Seek(r.start+pos, io.SeekStart); err != nil {
		return audio.SeekedTo{}, audio.IOError(err)
	}
	r.pos = pos

	return audio.SeekedTo{TrackID: trackID, RequiredTS: ts, ActualTS: ts}, nil
}
