// SPDX-License-Identifier: EPL-2.0

package ogg

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	capturePattern = "OggS"
	pageHeaderLen  = 27

	flagContinued = 0x01
	flagBOS       = 0x02
	flagEOS       = 0x04

	// noGranule marks a page on which no packet ends.
	noGranule = ^uint64(0)
)

var crcTable = func() (table [256]uint32) {
	const poly = 0x04c11db7

	for i := range table {
		r := uint32(i) << 24
		for range 8 {
			if r&0x80000000 != 0 {
				r = (r << 1) ^ poly
			} else {
				r <<= 1
			}
		}
		table[i] = r
	}

	return table
}()

func crcUpdate(crc uint32, p []byte) uint32 {
	for _, b := range p {
		crc = (crc << 8) ^ crcTable[byte(crc>>24)^b]
	}

	return crc
}

type page struct {
	flags   byte
	granule uint64
	serial  uint32
	seq     uint32
	lacing  []byte
	body    []byte
}

func (p *page) continued() bool { return p.flags&flagContinued != 0 }
func (p *page) bos() bool       { return p.flags&flagBOS != 0 }
func (p *page) eos() bool       { return p.flags&flagEOS != 0 }

// chunk is a packet, or the part of one, carried by a page.
type chunk struct {
	data     []byte
	complete bool
}

// chunks splits the page body along its lacing values. The last chunk is
// incomplete when the packet goes on in the next page.
func (p *page) chunks() []chunk {
	var (
		out   []chunk
		start int
		size  int
	)

	for _, l := range p.lacing {
		size += int(l)
		if l < 255 {
			out = append(out, chunk{data: p.body[start : start+size], complete: true})
			start += size
			size = 0
		}
	}
	if size > 0 {
		out = append(out, chunk{data: p.body[start : start+size]})
	}

	return out
}

// readHeader reads the fixed header and lacing table of the next page.
// A clean end of input before the first byte returns io.EOF.
func readHeader(r io.Reader) ([]byte, []byte, error) {
	header := make([]byte, pageHeaderLen)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, nil, err
	}

	if string(header[:4]) != capturePattern {
		return nil, nil, ErrCapture
	}
	if header[4] != 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrVersion, header[4])
	}

	lacing := make([]byte, header[26])
	if _, err := io.ReadFull(r, lacing); err != nil {
		return nil, nil, noEOF(err)
	}

	return header, lacing, nil
}

func bodyLen(lacing []byte) int {
	n := 0
	for _, l := range lacing {
		n += int(l)
	}

	return n
}

func parseHeader(header, lacing []byte) page {
	return page{
		flags:   header[5],
		granule: binary.LittleEndian.Uint64(header[6:14]),
		serial:  binary.LittleEndian.Uint32(header[14:18]),
		seq:     binary.LittleEndian.Uint32(header[18:22]),
		lacing:  lacing,
	}
}

// readPage reads and verifies one page.
func readPage(r io.Reader) (page, error) {
	header, lacing, err := readHeader(r)
	if err != nil {
		return page{}, err
	}

	body := make([]byte, bodyLen(lacing))
	if _, err := io.ReadFull(r, body); err != nil {
		return page{}, noEOF(err)
	}

	want := binary.LittleEndian.Uint32(header[22:26])
	clear(header[22:26])

	crc := crcUpdate(0, header)
	crc = crcUpdate(crc, lacing)
	crc = crcUpdate(crc, body)
	if crc != want {
		return page{}, ErrChecksum
	}

	p := parseHeader(header, lacing)
	p.body = body

	return p, nil
}

// noEOF turns io.EOF in the middle of a page into io.ErrUnexpectedEOF.
func noEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}

	return err
}
