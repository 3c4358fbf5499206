// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile         = errors.New("not a WAV file")
	ErrUnsupportedFormat  = errors.New("unsupported WAV sample format")
	ErrNoPCMData          = errors.New("WAV file has no data chunk")
	ErrUnsupportedChannel = errors.New("unsupported WAV channel count")
)
