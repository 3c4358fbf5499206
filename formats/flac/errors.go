// SPDX-License-Identifier: EPL-2.0

package flac

import "errors"

var (
	// ErrNotFLAC indicates the stream has no FLAC signature or StreamInfo
	ErrNotFLAC = errors.New("not a FLAC stream")

	// ErrUnsupportedLayout indicates a channel count or sample size outside what FLAC allows
	ErrUnsupportedLayout = errors.New("unsupported FLAC layout")
)
