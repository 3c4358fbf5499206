// SPDX-License-Identifier: EPL-2.0

package audio

import "time"

// Signal is the kind of value a Sound produced.
type Signal int

const (
	// SignalSample carries a sample in NextSample.Value.
	SignalSample Signal = iota
	// SignalMetadataChanged means the rate or channel layout changed.
	// Samples after it follow the new layout.
	SignalMetadataChanged
	// SignalFinished means the stream is exhausted.
	SignalFinished
)

func (s Signal) String() string {
	switch s {
	case SignalSample:
		return "sample"
	case SignalMetadataChanged:
		return "metadata changed"
	case SignalFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// NextSample is one step of a Sound.
type NextSample struct {
	Kind  Signal
	Value int16
}

// Sound is a pull source of interleaved int16 samples.
type Sound interface {
	ChannelCount() int
	SampleRate() uint32
	// NextSample returns the next interleaved sample or a signal.
	// Errors are fatal for the stream.
	NextSample() (NextSample, error)
	// Seek moves close to to and returns the position reached.
	Seek(to time.Duration) (time.Duration, error)
	// SetGain sets the multiplier applied to every sample, clamped to [0, 1].
	SetGain(gain float32)
	Close() error
}
