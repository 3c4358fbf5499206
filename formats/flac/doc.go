// SPDX-License-Identifier: EPL-2.0

// Package flac reads FLAC files as a stream of PCM packets.
//
// github.com/mewkiz/flac parses the metadata blocks and decodes the
// audio frames. Each FLAC frame becomes one packet of the signed little
// endian pcm codec matching the stream's sample size, with the
// subframes interleaved. A VORBIS_COMMENT block becomes the first
// metadata revision.
//
// Seeks go through the library's seek table support. A coarse seek lands
// on the first sample of the frame holding the target; an accurate seek
// trims the head of that frame so playback resumes on the exact sample.
package flac
