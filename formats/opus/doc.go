// SPDX-License-Identifier: EPL-2.0

// Package opus decodes Opus packets with libopus.
//
// The decoder always renders stereo float32 audio at the stream rate,
// which must be one of the rates libopus runs at natively: 8000, 12000,
// 16000, 24000 or 48000 Hz. Anything else is rejected when the decoder
// is created.
//
// Output buffers start at one 20ms packet (rate/50 frames). When libopus
// reports that a packet does not fit, the scratch buffer doubles and the
// packet is decoded again, up to math.MaxInt32 samples. Running out of
// room is reported as an audio.KindLimit error wrapping
// audio.ErrBufferCapacity.
//
// An empty packet signals a lost packet and produces concealment audio.
//
// libopus is reached through cgo. Builds without cgo still compile, but
// New returns ErrUnavailable wrapped in audio.ErrConfig.
package opus
