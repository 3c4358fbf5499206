// SPDX-License-Identifier: EPL-2.0

package playdec_test

import (
	"bytes"
	"fmt"

	"github.com/ik5/playdec"
	"github.com/ik5/playdec/audio"
	"github.com/ik5/playdec/formats/wav"
)

// Example_basicUsage decodes an in-memory WAV file sample by sample.
func Example_basicUsage() {
	wavData := new(bytes.Buffer)
	if err := wav.WriteWAV16(wavData, 8000, 2, []int16{100, -100, 200, -200}); err != nil {
		fmt.Printf("write error: %v\n", err)
		return
	}

	td, err := playdec.Open(bytes.NewReader(wavData.Bytes()), audio.Hint{Extension: "wav"})
	if err != nil {
		fmt.Printf("open error: %v\n", err)
		return
	}
	defer td.Close()

	fmt.Printf("%d Hz, %d channels\n", td.SampleRate(), td.ChannelCount())

	for {
		next, err := td.NextSample()
		if err != nil {
			fmt.Printf("decode error: %v\n", err)
			return
		}
		if next.Kind == audio.SignalFinished {
			break
		}
		if next.Kind == audio.SignalSample {
			fmt.Println(next.Value)
		}
	}

	// Output:
	// 8000 Hz, 2 channels
	// 100
	// -100
	// 200
	// -200
}

// ExampleReadAll collects a whole stream at half volume.
func ExampleReadAll() {
	wavData := new(bytes.Buffer)
	if err := wav.WriteWAV16(wavData, 44100, 1, []int16{1000, 2000, -4000}); err != nil {
		fmt.Printf("write error: %v\n", err)
		return
	}

	td, err := playdec.Open(bytes.NewReader(wavData.Bytes()), audio.Hint{}, playdec.WithGain(0.5))
	if err != nil {
		fmt.Printf("open error: %v\n", err)
		return
	}
	defer td.Close()

	pcm16, err := playdec.ReadAll(td, 0)
	if err != nil {
		fmt.Printf("read error: %v\n", err)
		return
	}

	fmt.Println(pcm16)
	// Output: [500 1000 -2000]
}

// ExampleDefaultProbe lists the container formats tried by Open.
func ExampleDefaultProbe() {
	for _, f := range playdec.DefaultProbe().Formats() {
		fmt.Println(f.Name, f.Extensions)
	}

	// Output:
	// wav [wav wave]
	// flac [flac]
	// ogg-opus [opus ogg oga]
	// ogg-vorbis [ogg oga]
	// aiff [aif aiff aifc]
	// mp3 [mp3]
}
