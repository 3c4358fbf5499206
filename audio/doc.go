// SPDX-License-Identifier: EPL-2.0

// Package audio provides the packet to sample pipeline shared by every codec.
//
// This package contains the core building blocks:
//   - Buffer, a planar buffer of decoded frames for ten sample kinds
//   - ExtractSample, which converts any of those kinds to int16
//   - Registry of codec descriptors and Probe of container formats
//   - TrackDecoder, which turns a FormatReader and a codec into a Sound
//   - the Error taxonomy that tells a decode loop what it may recover from
//
// # Pipeline
//
// A Probe sniffs the first bytes of a source and opens the matching
// FormatReader. The TrackDecoder picks the first track whose codec the
// Registry knows, then on every NextSample call walks the decoded buffer
// channel by channel:
//
//	td, err := audio.OpenTrack(file, audio.HintFromPath(path), probe, registry)
//	if err != nil {
//	    // Handle error
//	}
//	defer td.Close()
//
//	next, err := td.NextSample()
//
// NextSample returns a sample, a SignalMetadataChanged when the rate or
// channel layout of the decoded audio differs from the previous packet,
// or SignalFinished once the reader runs out of packets.
//
// # Buffers
//
// Buffer[T] is generic over the closed Sample set: uint8, uint16, U24,
// uint32, int8, int16, S24, int32, float32 and float64. Codecs hand out
// buffers through the sealed AudioBuffer interface, and the element kind
// may change from one packet to the next.
//
// Decoders that write into a scratch slice grow it with GrowScratch,
// which doubles up to a ceiling and reports when there is no room left.
//
// # Error Handling
//
// Codecs and readers return *Error values carrying an ErrorKind.
// Constructors reject bad parameters with a wrapped ErrConfig, which
// KindOf reports as KindConfig. Classify maps kinds onto a Recovery:
//   - KindDecode: skip the packet (RecoverSkip)
//   - KindResetRequired: drop the packet after a reset (RecoverReset)
//   - everything else: Fatal
//
// A reader that returns a KindDecode error from NextPacket has already
// moved past the damaged data, so the TrackDecoder skips it like a packet
// the codec could not decode.
//
// Fatal errors reach the caller through MapError, which passes I/O
// errors through and wraps the rest in a *FormatError. End of stream is
// not an error for the consumer; IsEndOfStream recognises it.
//
// # Concurrency
//
// A TrackDecoder has a single owner. Registry and Probe are safe for
// concurrent use.
package audio
