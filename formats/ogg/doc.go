// SPDX-License-Identifier: EPL-2.0

// Package ogg demuxes Opus streams stored in Ogg files (RFC 7845).
//
// Open reads the identification and comment headers, then walks the page
// headers once to learn the stream length and where every page starts.
// NextPacket returns whole Opus packets, joined across page boundaries,
// stamped in 48kHz samples from the page granule positions.
//
// Only the first Opus stream of a file is read and multistream (surround)
// mappings are rejected. Packets that start inside the OpusHead pre-skip
// carry a TrimStart, so the encoder warm-up is decoded but never played.
// Timestamps stay in granule units and still count the pre-skip.
//
// A page that fails its checksum is reported as a decode error and
// dropped. The next NextPacket call carries on with the following page.
//
// Seeking is coarse: it lands on the start of the page holding the
// target, and the reported timestamp is where that page begins.
package ogg
