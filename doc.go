// SPDX-License-Identifier: EPL-2.0

// Package playdec opens audio files as a pull stream of 16-bit samples.
//
// It wires the bundled container formats and codecs together: WAV, AIFF,
// FLAC, MP3, Ogg Vorbis and Ogg Opus files are probed by their magic
// bytes (the file extension only changes the order formats are tried in),
// demuxed into packets and decoded into interleaved int16 samples.
//
// # Quick Start
//
//	td, err := playdec.OpenFile("audio.flac")
//	if err != nil {
//	    // Handle error
//	}
//	defer td.Close()
//
//	for {
//	    next, err := td.NextSample()
//	    if err != nil {
//	        // Fatal for the stream
//	    }
//	    switch next.Kind {
//	    case audio.SignalSample:
//	        // next.Value is the next interleaved sample
//	    case audio.SignalMetadataChanged:
//	        // re-read td.SampleRate() and td.ChannelCount()
//	    case audio.SignalFinished:
//	        return
//	    }
//	}
//
// ReadAll collects a whole stream when it fits in memory.
//
// # Customization
//
// DefaultRegistry and DefaultProbe return fresh instances, so extra codecs
// or formats can be registered and passed back with WithRegistry and
// WithProbe. WithLogger attaches a zap logger; the default is silent.
//
// # Subpackages
//
//   - audio: buffers, sample extraction, the codec registry, the probe and
//     the TrackDecoder that ties them together
//   - formats/pcm: the ten raw PCM codecs
//   - formats/opus: the libopus codec (needs cgo)
//   - formats/ogg: the Ogg Opus demuxer
//   - formats/wav, formats/aiff, formats/flac, formats/mp3, formats/vorbis:
//     demuxers that emit PCM packets
package playdec
