// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"encoding/binary"
	"math"

	"github.com/ik5/playdec/audio"
)

// Waveform returns the value of a frame on a channel, in [-1, 1].
type Waveform func(frame int, channel int) float64

// Silence is an all zero Waveform.
func Silence(int, int) float64 { return 0 }

// Sine returns a Waveform of a sine at frequency Hz sampled at rate.
func Sine(rate int, frequency float64) Waveform {
	return func(frame int, channel int) float64 {
		t := float64(frame) / float64(rate)
		return math.Sin(2 * math.Pi * frequency * t)
	}
}

// Constant returns a Waveform stuck at value.
func Constant(value float64) Waveform {
	return func(int, int) float64 { return value }
}

// Ramp returns a Waveform where every sample equals frame*channels+channel.
// It makes interleaving mistakes easy to spot in tests.
func Ramp(channels int) Waveform {
	return func(frame int, channel int) float64 {
		return float64(frame*channels+channel) / 32768.0
	}
}

// S16 renders frames of w as interleaved int16 samples.
func S16(w Waveform, channels, frames int) []int16 {
	out := make([]int16, 0, channels*frames)
	for f := range frames {
		for ch := range channels {
			v := math.Round(w(f, ch) * 32768.0)
			out = append(out, int16(max(min(v, math.MaxInt16), math.MinInt16)))
		}
	}

	return out
}

// S16LE encodes samples as little endian bytes.
func S16LE(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}

	return out
}

// Packet builds a packet of track id holding samples as s16le.
func Packet(id uint32, ts uint64, samples ...int16) audio.Packet {
	return audio.Packet{TrackID: id, TS: ts, Data: S16LE(samples)}
}
