// SPDX-License-Identifier: EPL-2.0

// Package vorbis reads Ogg Vorbis files as a stream of PCM packets.
//
// github.com/jfreymuth/oggvorbis demuxes and decodes the stream. Its
// interleaved float output is packed into pcm_f32le packets, so Vorbis
// is played through the pcm codec like every other library decoded format.
//
// The comment header becomes the first metadata revision: the vendor
// string plus one tag per KEY=value comment, keys upper cased.
//
// # Seeking
//
// Seeks are exact. They need a seekable source, which is also what gives
// the track a frame count; without one the reader refuses to seek.
package vorbis
