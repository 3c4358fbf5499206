// SPDX-License-Identifier: EPL-2.0

package opus

import "errors"

var (
	ErrUnsupportedRate = errors.New("opus sample rate must be 8000, 12000, 16000, 24000 or 48000")
	ErrUnavailable     = errors.New("libopus is not available in this build")

	// errBufferTooSmall is returned by a frameDecoder when pcm cannot hold the packet.
	errBufferTooSmall = errors.New("opus: output buffer too small")
)
