// SPDX-License-Identifier: EPL-2.0

package ogg

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/ik5/playdec/audio"
)

// seekPoint is a data page a seek can land on.
type seekPoint struct {
	offset int64
	// start is the granule position at the beginning of the page.
	start uint64
}

// Reader demuxes the first Opus stream of an Ogg file.
type Reader struct {
	rs      io.ReadSeeker
	head    Head
	headPkt []byte
	serial  uint32
	track   audio.Track
	log     audio.MetadataLog

	points []seekPoint
	last   uint64

	queue         []audio.Packet
	partial       []byte
	skipContinued bool
	ts            uint64
	// lost is set after a damaged page, when ts no longer follows the stream.
	lost bool
	done bool
}

var _ audio.FormatReader = (*Reader)(nil)

// Sniff reports whether header starts with an Ogg page carrying OpusHead.
func Sniff(header []byte) bool {
	if len(header) < pageHeaderLen || string(header[:4]) != capturePattern {
		return false
	}

	body := pageHeaderLen + int(header[26])
	return len(header) >= body+len(headMagic) && string(header[body:body+len(headMagic)]) == headMagic
}

// Descriptor registers Ogg Opus with a probe.
func Descriptor() audio.FormatDescriptor {
	return audio.FormatDescriptor{
		Name:       "ogg-opus",
		Extensions: []string{"opus", "ogg", "oga"},
		Sniff:      Sniff,
		Open: func(rs io.ReadSeeker) (audio.FormatReader, error) {
			return Open(rs)
		},
	}
}

// Open reads the Opus headers at the current position of rs and indexes
// the pages that follow.
func Open(rs io.ReadSeeker) (*Reader, error) {
	r := &Reader{rs: rs}

	if err := r.readHeaders(); err != nil {
		return nil, err
	}

	dataStart, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("ogg: %w", err)
	}
	if err := r.index(dataStart); err != nil {
		return nil, err
	}
	if _, err := rs.Seek(dataStart, io.SeekStart); err != nil {
		return nil, fmt.Errorf("ogg: %w", err)
	}

	r.track = audio.Track{
		ID: r.serial,
		Params: audio.CodecParams{
			Codec:              audio.CodecOpus,
			SampleRate:         Rate,
			Channels:           audio.ChannelsFromCount(int(r.head.Channels)),
			TimeBase:           audio.NewTimeBase(Rate),
			NFrames:            r.last,
			MaxFramesPerPacket: maxPacketFrames,
			ExtraData:          r.headPkt,
		},
	}

	return r, nil
}

// readHeaders finds the first Opus stream among the beginning of stream
// pages and reads its comment header.
func (r *Reader) readHeaders() error {
	for r.headPkt == nil {
		p, err := readPage(r.rs)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return ErrNotOpus
			}
			return err
		}
		if !p.bos() {
			return ErrNotOpus
		}

		if bytes.HasPrefix(p.body, []byte(headMagic)) {
			head, err := parseHead(p.body)
			if err != nil {
				return err
			}
			r.head, r.serial, r.headPkt = head, p.serial, p.body
		}
	}

	var tags []byte
	for {
		p, err := readPage(r.rs)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBadTags, noEOF(err))
		}
		if p.serial != r.serial {
			continue
		}

		for _, c := range p.chunks() {
			tags = append(tags, c.data...)
			if !c.complete {
				continue
			}

			rev, err := parseTags(tags)
			if err != nil {
				return err
			}
			r.log.Push(rev)

			return nil
		}
	}
}

// index walks the page headers from offset to the end of input and
// records where each page of the stream starts.
func (r *Reader) index(offset int64) error {
	var prev uint64

	for {
		header, lacing, err := readHeader(r.rs)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			// Garbage after the last good page ends the index. NextPacket
			// reports it when playback gets there.
			if errors.Is(err, ErrCapture) || errors.Is(err, ErrVersion) {
				return nil
			}
			return fmt.Errorf("ogg: %w", err)
		}

		p := parseHeader(header, lacing)
		size := int64(len(header) + len(lacing) + bodyLen(lacing))

		if p.serial == r.serial {
			r.points = append(r.points, seekPoint{offset: offset, start: prev})
			if p.granule != noGranule {
				prev = p.granule
				r.last = max(r.last, p.granule)
			}
		}

		offset += size
		if _, err := r.rs.Seek(offset, io.SeekStart); err != nil {
			return fmt.Errorf("ogg: %w", err)
		}
	}
}

// Head returns the identification header of the stream.
func (r *Reader) Head() Head { return r.head }

func (r *Reader) Tracks() []audio.Track        { return []audio.Track{r.track} }
func (r *Reader) Metadata() *audio.MetadataLog { return &r.log }

// NextPacket returns the next Opus packet of the stream.
func (r *Reader) NextPacket() (audio.Packet, error) {
	for len(r.queue) == 0 {
		if r.done {
			return audio.Packet{}, audio.ErrEndOfStream
		}
		if err := r.readDataPage(); err != nil {
			return audio.Packet{}, err
		}
	}

	pkt := r.queue[0]
	r.queue = r.queue[1:]

	return pkt, nil
}

func (r *Reader) readDataPage() error {
	p, err := readPage(r.rs)
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		// A truncated last page ends the stream like a clean end.
		r.done = true
		return nil
	case errors.Is(err, ErrChecksum), errors.Is(err, ErrCapture), errors.Is(err, ErrVersion):
		// A packet continued from the damaged page cannot be rebuilt.
		r.partial = nil
		r.skipContinued = true
		r.lost = true

		return &audio.Error{Kind: audio.KindDecode, Msg: "ogg page", Err: err}
	case err != nil:
		return audio.IOError(err)
	}

	if p.serial != r.serial {
		return nil
	}

	var complete [][]byte
	for i, c := range p.chunks() {
		data := c.data

		if i == 0 && p.continued() {
			if r.skipContinued || r.partial == nil {
				// The start of this packet was before the seek point.
				r.skipContinued = !c.complete
				continue
			}
			data = append(r.partial, data...)
		}
		r.partial = nil
		r.skipContinued = false

		if !c.complete {
			r.partial = slices.Clone(data)
			continue
		}
		complete = append(complete, data)
	}

	r.stamp(&p, complete)

	if p.eos() {
		r.done = true
	}

	return nil
}

// stamp queues the packets that end on p. Timestamps count back from the
// page granule, except on the last page where the granule may cut the
// final packet short. Packets starting inside the pre-skip are trimmed.
func (r *Reader) stamp(p *page, packets [][]byte) {
	if len(packets) == 0 {
		return
	}

	durs := make([]uint64, len(packets))
	var total uint64
	for i, pkt := range packets {
		durs[i] = packetFrames(pkt)
		total += durs[i]
	}

	ts := r.ts
	if (!p.eos() || r.lost) && p.granule != noGranule {
		ts = p.granule - min(total, p.granule)
	}
	r.lost = false

	preSkip := uint64(r.head.PreSkip)

	for i, pkt := range packets {
		dur := durs[i]
		if p.eos() && p.granule != noGranule && ts+dur > p.granule {
			dur = p.granule - min(ts, p.granule)
		}

		var trim uint64
		if ts < preSkip {
			trim = min(dur, preSkip-ts)
		}

		r.queue = append(r.queue, audio.Packet{
			TrackID:   r.serial,
			TS:        ts,
			Dur:       dur,
			TrimStart: trim,
			Data:      pkt,
		})
		ts += dur
	}

	r.ts = ts
}

// Seek moves to the page holding ts. Packets that started on an earlier
// page are dropped, so playback resumes at or after the reported position.
func (r *Reader) Seek(_ audio.SeekMode, to audio.SeekTo) (audio.SeekedTo, error) {
	if to.TrackID != r.serial {
		return audio.SeekedTo{}, audio.SeekError(fmt.Sprintf("unknown track %d", to.TrackID))
	}

	ts := to.TS
	if to.ByTime {
		ts = r.track.Params.TimeBase.CalcTimestamp(to.Time)
	}
	if r.last > 0 && ts >= r.last {
		return audio.SeekedTo{}, audio.SeekError(fmt.Sprintf("timestamp %d is past the end of the stream", ts))
	}
	if len(r.points) == 0 {
		return audio.SeekedTo{}, audio.SeekError("stream has no pages")
	}

	i, _ := slices.BinarySearchFunc(r.points, ts, func(p seekPoint, ts uint64) int {
		switch {
		case p.start > ts:
			return 1
		case p.start < ts:
			return -1
		default:
			return 0
		}
	})
	// i is the first point starting at or after ts; land on the one before
	// unless it starts exactly on ts.
	if i == len(r.points) || r.points[i].start > ts {
		i = max(i-1, 0)
	}
	// Several pages can share a start when no packet ends on them.
	for i > 0 && r.points[i-1].start == r.points[i].start {
		i--
	}
	point := r.points[i]

	if _, err := r.rs.Seek(point.offset, io.SeekStart); err != nil {
		return audio.SeekedTo{}, audio.IOError(err)
	}

	r.queue = nil
	r.partial = nil
	r.skipContinued = true
	r.ts = point.start
	r.lost = false
	r.done = false

	return audio.SeekedTo{TrackID: r.serial, RequiredTS: ts, ActualTS: point.start}, nil
}

// Close drops buffered packets. The source is owned by the caller.
func (r *Reader) Close() error {
	r.queue = nil
	r.partial = nil
	r.done = true

	return nil
}
