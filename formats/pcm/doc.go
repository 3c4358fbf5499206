// SPDX-License-Identifier: EPL-2.0

// Package pcm decodes raw interleaved PCM packets.
//
// Every container reader in this module that already yields PCM (WAV,
// AIFF, MP3, FLAC and Vorbis) hands its packets to one of the codecs
// registered here. The packet layout is named by the codec type:
//
//	pcm_u8     unsigned 8-bit
//	pcm_u16le  unsigned 16-bit little endian
//	pcm_u24le  unsigned 24-bit little endian, packed in 3 bytes
//	pcm_u32le  unsigned 32-bit little endian
//	pcm_s8     signed 8-bit
//	pcm_s16le  signed 16-bit little endian
//	pcm_s24le  signed 24-bit little endian, packed in 3 bytes
//	pcm_s32le  signed 32-bit little endian
//	pcm_f32le  IEEE float 32-bit little endian
//	pcm_f64le  IEEE float 64-bit little endian
//
// Each codec produces an audio.Buffer of the matching element type, so a
// 24-bit stream decodes into an audio.Buffer[audio.S24] and is narrowed to
// 16 bits only when a sample is extracted.
//
// # Registering
//
//	registry := audio.NewRegistry()
//	pcm.Register(registry)
//
// # Helpers for readers
//
// SignedCodec and AppendSigned let readers that decode to integers pack
// their output into the smallest signed layout that holds the bit depth.
package pcm
