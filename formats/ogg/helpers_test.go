// SPDX-License-Identifier: EPL-2.0

package ogg

import (
	"bytes"
	"encoding/binary"
)

const testSerial = 0x1234

// encodePage builds an Ogg page with a valid checksum.
func encodePage(flags byte, granule uint64, serial, seq uint32, lacing, body []byte) []byte {
	header := make([]byte, pageHeaderLen)
	copy(header, capturePattern)
	header[5] = flags
	binary.LittleEndian.PutUint64(header[6:], granule)
	binary.LittleEndian.PutUint32(header[14:], serial)
	binary.LittleEndian.PutUint32(header[18:], seq)
	header[26] = byte(len(lacing))

	crc := crcUpdate(0, header)
	crc = crcUpdate(crc, lacing)
	crc = crcUpdate(crc, body)
	binary.LittleEndian.PutUint32(header[22:], crc)

	out := append(header, lacing...)
	return append(out, body...)
}

// lace returns the lacing table and body for complete packets.
func lace(packets ...[]byte) ([]byte, []byte) {
	var lacing, body []byte
	for _, pkt := range packets {
		n := len(pkt)
		for n >= 255 {
			lacing = append(lacing, 255)
			n -= 255
		}
		lacing = append(lacing, byte(n))
		body = append(body, pkt...)
	}

	return lacing, body
}

func packetPage(flags byte, granule uint64, seq uint32, packets ...[]byte) []byte {
	lacing, body := lace(packets...)
	return encodePage(flags, granule, testSerial, seq, lacing, body)
}

func opusHead(channels byte, preSkip uint16) []byte {
	head := []byte(headMagic)
	head = append(head, 1, channels)
	head = binary.LittleEndian.AppendUint16(head, preSkip)
	head = binary.LittleEndian.AppendUint32(head, 44100)
	head = binary.LittleEndian.AppendUint16(head, 0)
	return append(head, 0)
}

func opusTags(vendor string, comments ...string) []byte {
	tags := []byte(tagsMagic)
	tags = binary.LittleEndian.AppendUint32(tags, uint32(len(vendor)))
	tags = append(tags, vendor...)
	tags = binary.LittleEndian.AppendUint32(tags, uint32(len(comments)))
	for _, c := range comments {
		tags = binary.LittleEndian.AppendUint32(tags, uint32(len(c)))
		tags = append(tags, c...)
	}

	return tags
}

// celt20 is a 20ms CELT packet, 960 samples at 48kHz.
func celt20(payload ...byte) []byte {
	return append([]byte{31 << 3}, payload...)
}

// headerPages returns the identification and comment pages of a stereo stream.
func headerPages() []byte {
	var out []byte
	out = append(out, packetPage(flagBOS, 0, 0, opusHead(2, 312))...)
	out = append(out, packetPage(0, 0, 1, opusTags("playdec", "title=Test", "ARTIST=Someone"))...)

	return out
}

// testStream is headerPages followed by data pages.
func testStream(pages ...[]byte) *bytes.Reader {
	out := headerPages()
	for _, p := range pages {
		out = append(out, p...)
	}

	return bytes.NewReader(out)
}
