// SPDX-License-Identifier: EPL-2.0

package playdec

import (
	"errors"

	"github.com/ik5/playdec/audio"
)

// ErrLayoutChanged is returned by ReadAll when the sample rate or channel
// layout changes mid-stream.
var ErrLayoutChanged = errors.New("sample rate or channel layout changed")

// ReadAll pulls interleaved samples from s until it finishes.
//
// At most limit samples are read when limit is positive. Collection stops
// at the first layout change: the samples read so far are returned with
// ErrLayoutChanged, and s is left positioned on the new layout.
//
// Example:
//
//	td, _ := playdec.OpenFile("audio.flac")
//	defer td.Close()
//	pcm16, err := playdec.ReadAll(td, 0)
func ReadAll(s audio.Sound, limit int) ([]int16, error) {
	// ~2 seconds of the current layout to start with
	estimated := 2 * int(s.SampleRate()) * s.ChannelCount()
	if limit > 0 {
		estimated = min(estimated, limit)
	}
	pcm16 := make([]int16, 0, estimated)

	for limit <= 0 || len(pcm16) < limit {
		next, err := s.NextSample()
		if err != nil {
			return pcm16, err
		}

		switch next.Kind {
		case audio.SignalSample:
			pcm16 = append(pcm16, next.Value)
		case audio.SignalMetadataChanged:
			return pcm16, ErrLayoutChanged
		case audio.SignalFinished:
			return pcm16, nil
		}
	}

	return pcm16, nil
}
