// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"github.com/ik5/playdec/audio"
)

// Step is one scripted result of FakeReader.NextPacket.
type Step struct {
	Packet audio.Packet
	Err    error
	// Meta is pushed to the metadata log before the packet is returned.
	Meta *audio.MetadataRevision
}

// FakeReader is an audio.FormatReader replaying a script.
type FakeReader struct {
	TrackList []audio.Track
	Steps     []Step
	// End is returned once Steps run out. Defaults to audio.ErrEndOfStream.
	End error
	// SeekFn handles Seek. By default a seek moves the script to the last
	// packet whose timestamp is not after the target.
	SeekFn func(mode audio.SeekMode, to audio.SeekTo) (audio.SeekedTo, error)

	Seeks  []audio.SeekTo
	Closed bool

	pos int
	log audio.MetadataLog
}

var _ audio.FormatReader = (*FakeReader)(nil)

func (r *FakeReader) Tracks() []audio.Track        { return r.TrackList }
func (r *FakeReader) Metadata() *audio.MetadataLog { return &r.log }

func (r *FakeReader) NextPacket() (audio.Packet, error) {
	if r.pos >= len(r.Steps) {
		if r.End != nil {
			return audio.Packet{}, r.End
		}

		return audio.Packet{}, audio.ErrEndOfStream
	}

	step := r.Steps[r.pos]
	r.pos++

	if step.Meta != nil {
		r.log.Push(*step.Meta)
	}
	if step.Err != nil {
		return audio.Packet{}, step.Err
	}

	return step.Packet, nil
}

func (r *FakeReader) Seek(mode audio.SeekMode, to audio.SeekTo) (audio.SeekedTo, error) {
	r.Seeks = append(r.Seeks, to)
	if r.SeekFn != nil {
		return r.SeekFn(mode, to)
	}

	r.pos = 0
	var actual uint64
	for i, step := range r.Steps {
		if step.Err != nil || step.Packet.TS > to.TS {
			continue
		}
		if step.Packet.TS > actual {
			r.pos, actual = i, step.Packet.TS
		}
	}

	return audio.SeekedTo{TrackID: to.TrackID, RequiredTS: to.TS, ActualTS: actual}, nil
}

func (r *FakeReader) Close() error {
	r.Closed = true
	return nil
}

// Pending reports how many metadata revisions are queued.
func (r *FakeReader) Pending() int { return r.log.Len() }
