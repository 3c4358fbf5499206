// SPDX-License-Identifier: EPL-2.0

package ogg

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/ik5/playdec/audio"
)

const (
	headMagic = "OpusHead"
	tagsMagic = "OpusTags"

	// Rate is the granule rate of every Ogg Opus stream.
	Rate = 48000

	// maxPacketFrames is 120ms at 48kHz, the longest Opus packet.
	maxPacketFrames = 5760
)

// Head is the Opus identification header.
type Head struct {
	Version       uint8
	Channels      uint8
	PreSkip       uint16
	InputRate     uint32
	OutputGain    int16
	MappingFamily uint8
	StreamCount   uint8
}

func parseHead(pkt []byte) (Head, error) {
	if len(pkt) < 19 || !bytes.HasPrefix(pkt, []byte(headMagic)) {
		return Head{}, ErrBadHead
	}

	h := Head{
		Version:       pkt[8],
		Channels:      pkt[9],
		PreSkip:       binary.LittleEndian.Uint16(pkt[10:12]),
		InputRate:     binary.LittleEndian.Uint32(pkt[12:16]),
		OutputGain:    int16(binary.LittleEndian.Uint16(pkt[16:18])),
		MappingFamily: pkt[18],
		StreamCount:   1,
	}

	if h.Version>>4 != 0 {
		return Head{}, fmt.Errorf("%w: version %d", ErrBadHead, h.Version)
	}
	if h.Channels == 0 {
		return Head{}, fmt.Errorf("%w: no channels", ErrBadHead)
	}

	if h.MappingFamily != 0 {
		if len(pkt) < 21+int(h.Channels) {
			return Head{}, fmt.Errorf("%w: short channel mapping table", ErrBadHead)
		}
		h.StreamCount = pkt[19]
	}
	if h.StreamCount != 1 {
		return Head{}, fmt.Errorf("%w: %d streams", ErrMultistream, h.StreamCount)
	}

	return h, nil
}

func parseTags(pkt []byte) (audio.MetadataRevision, error) {
	if !bytes.HasPrefix(pkt, []byte(tagsMagic)) {
		return audio.MetadataRevision{}, ErrBadTags
	}
	p := pkt[len(tagsMagic):]

	next := func() (string, bool) {
		if len(p) < 4 {
			return "", false
		}
		n := binary.LittleEndian.Uint32(p)
		if uint64(n) > uint64(len(p)-4) {
			return "", false
		}
		s := string(p[4 : 4+n])
		p = p[4+n:]
		return s, true
	}

	vendor, ok := next()
	if !ok || len(p) < 4 {
		return audio.MetadataRevision{}, ErrBadTags
	}
	count := binary.LittleEndian.Uint32(p)
	p = p[4:]

	rev := audio.MetadataRevision{Vendor: vendor}
	for i := range count {
		comment, ok := next()
		if !ok {
			return audio.MetadataRevision{}, fmt.Errorf("%w: comment %d", ErrBadTags, i)
		}

		key, value, _ := strings.Cut(comment, "=")
		rev.Tags = append(rev.Tags, audio.Tag{Key: strings.ToUpper(key), Value: value})
	}

	return rev, nil
}

// packetFrames returns the number of 48kHz samples per channel in an Opus
// packet, read from its TOC byte. Zero means the packet is empty or broken.
func packetFrames(pkt []byte) uint64 {
	if len(pkt) == 0 {
		return 0
	}

	toc := pkt[0]
	config := toc >> 3

	var size uint64
	switch {
	case config < 12: // SILK
		size = [4]uint64{480, 960, 1920, 2880}[config&3]
	case config < 16: // hybrid
		size = [2]uint64{480, 960}[config&1]
	default: // CELT
		size = [4]uint64{120, 240, 480, 960}[config&3]
	}

	switch toc & 3 {
	case 0:
		return size
	case 1, 2:
		return 2 * size
	default:
		if len(pkt) < 2 {
			return 0
		}
		return size * uint64(pkt[1]&0x3F)
	}
}
