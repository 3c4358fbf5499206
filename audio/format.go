// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"path/filepath"
	"strings"
	"time"
)

// SeekMode selects how precise a seek must be.
type SeekMode int

const (
	// SeekCoarse lands on the closest indexable point at or before the target.
	SeekCoarse SeekMode = iota
	// SeekAccurate lands exactly on the target.
	SeekAccurate
)

// SeekTo is a seek target, either a timestamp or a wall time.
type SeekTo struct {
	TrackID uint32
	TS      uint64
	Time    time.Duration
	ByTime  bool
}

// SeekToTS targets timestamp ts of track id.
func SeekToTS(id uint32, ts uint64) SeekTo {
	return SeekTo{TrackID: id, TS: ts}
}

// SeekToTime targets wall time d of track id.
func SeekToTime(id uint32, d time.Duration) SeekTo {
	return SeekTo{TrackID: id, Time: d, ByTime: true}
}

// SeekedTo is where a seek actually landed.
type SeekedTo struct {
	TrackID    uint32
	RequiredTS uint64
	ActualTS   uint64
}

// Tag is one metadata key/value pair.
type Tag struct {
	Key   string
	Value string
}

// MetadataRevision is one set of tags read from the container.
type MetadataRevision struct {
	Vendor string
	Tags   []Tag
}

// MetadataLog queues metadata revisions in the order a reader found them.
type MetadataLog struct {
	revs []MetadataRevision
}

// Push appends rev as the latest revision.
func (m *MetadataLog) Push(rev MetadataRevision) {
	m.revs = append(m.revs, rev)
}

// IsLatest reports whether at most one revision is queued.
func (m *MetadataLog) IsLatest() bool {
	return len(m.revs) <= 1
}

// Len returns the number of queued revisions.
func (m *MetadataLog) Len() int {
	return len(m.revs)
}

// Pop removes and returns the oldest revision.
func (m *MetadataLog) Pop() (MetadataRevision, bool) {
	if len(m.revs) == 0 {
		return MetadataRevision{}, false
	}

	rev := m.revs[0]
	m.revs = m.revs[1:]
	return rev, true
}

// Current returns the latest revision.
func (m *MetadataLog) Current() (MetadataRevision, bool) {
	if len(m.revs) == 0 {
		return MetadataRevision{}, false
	}

	return m.revs[len(m.revs)-1], true
}

// FormatReader demuxes a container into packets.
type FormatReader interface {
	Tracks() []Track
	// NextPacket returns the next packet or an end of stream error.
	NextPacket() (Packet, error)
	Seek(mode SeekMode, to SeekTo) (SeekedTo, error)
	Metadata() *MetadataLog
	Close() error
}

// Hint biases probing toward formats matching a file extension.
type Hint struct {
	Extension string
}

// HintFromPath builds a Hint from the extension of path.
func HintFromPath(path string) Hint {
	return Hint{Extension: strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")}
}
