// SPDX-License-Identifier: EPL-2.0

// Package mp3 reads MP3 files as a stream of PCM packets.
//
// Decoding is done by github.com/hajimehoshi/go-mp3, which always
// produces 16-bit little endian stereo. The reader slices that output
// into pcm_s16le packets of one MPEG frame (1152 samples per channel),
// so an MP3 is played through the pcm codec:
//
//	probe := audio.NewProbe()
//	probe.Register(mp3.Descriptor())
//
//	registry := audio.NewRegistry()
//	pcm.Register(registry)
//
//	f, _ := os.Open("audio.mp3")
//	track, err := audio.OpenTrack(f, audio.HintFromPath("audio.mp3"), probe, registry)
//
// # Length and seeking
//
// go-mp3 measures the stream when the source can seek, which gives the
// track its frame count. Seeks land on the exact frame requested.
//
// # Limitations
//
// ID3 tags are skipped, so the metadata log is always empty. Mono files
// are decoded as stereo with both channels equal.
package mp3
