// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes WAV files.
//
// # Reading
//
// The RIFF structure is parsed by github.com/go-audio/wav. The samples in
// the data chunk are not converted: they are sliced into packets of
// PacketFrames frames and tagged with the pcm codec matching the file:
//
//	format        bits  codec
//	PCM           8     pcm_u8
//	PCM           16    pcm_s16le
//	PCM           24    pcm_s24le
//	PCM           32    pcm_s32le
//	IEEE float    32    pcm_f32le
//	IEEE float    64    pcm_f64le
//
// WAVE_FORMAT_EXTENSIBLE files are read as integer PCM.
//
// Seeking is exact since every frame has the same size. RIFF INFO tags
// found before or after the data chunk land in the metadata log under
// upper case keys such as TITLE and ARTIST.
//
// # Writing
//
// WriteWAV16 writes a whole file to any io.Writer when all samples are at
// hand:
//
//	samples := []int16{100, -100, 200, -200}
//	err := wav.WriteWAV16(file, 8000, 2, samples)
//
// Writer streams samples to an io.WriteSeeker and fixes up the header
// sizes on Close, so the total length does not need to be known:
//
//	w, err := wav.NewWriter(file, 44100, 2, nil)
//	for ... {
//	    err = w.WriteSamples(chunk)
//	}
//	err = w.Close()
package wav
