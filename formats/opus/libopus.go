// SPDX-License-Identifier: EPL-2.0

//go:build cgo

package opus

import (
	"errors"
	"fmt"

	hopus "gopkg.in/hraban/opus.v2"
)

type libopus struct {
	dec      *hopus.Decoder
	rate     int
	channels int
}

func openLibopus(rate uint32, channels int) (frameDecoder, error) {
	dec, err := hopus.NewDecoder(int(rate), channels)
	if err != nil {
		return nil, fmt.Errorf("libopus: %w", err)
	}

	return &libopus{dec: dec, rate: int(rate), channels: channels}, nil
}

func (l *libopus) DecodeFloat32(pkt []byte, pcm []float32) (int, error) {
	if pkt == nil {
		if err := l.dec.DecodePLCFloat32(pcm); err != nil {
			return 0, mapError(err)
		}

		return len(pcm) / l.channels, nil
	}

	n, err := l.dec.DecodeFloat32(pkt, pcm)
	if err != nil {
		return 0, mapError(err)
	}

	return n, nil
}

// Reset replaces the decoder with a fresh one at the same rate.
func (l *libopus) Reset() error {
	dec, err := hopus.NewDecoder(l.rate, l.channels)
	if err != nil {
		return fmt.Errorf("libopus: %w", err)
	}
	l.dec = dec

	return nil
}

func mapError(err error) error {
	if errors.Is(err, hopus.ErrBufferTooSmall) {
		return fmt.Errorf("%w: %w", errBufferTooSmall, err)
	}

	return fmt.Errorf("libopus: %w", err)
}
