// SPDX-License-Identifier: EPL-2.0

// Package aiff reads AIFF files as a stream of PCM packets.
//
// Headers and samples are decoded by github.com/go-audio/aiff. The big
// endian samples are repacked into the signed little endian pcm codec
// matching the file's sample size (8, 16, 24 or 32 bits; other sizes
// are scaled up to the next width).
//
//	probe := audio.NewProbe()
//	probe.Register(aiff.Descriptor())
//
// # Seeking
//
// go-audio/aiff only reads forward, so a seek restarts the decoder from
// the beginning of the file and reads up to the target frame. Seeks are
// exact but cost time proportional to the target position.
//
// # Limitations
//
// Compressed AIFF-C encodings are not supported and no metadata is read.
package aiff
