// SPDX-License-Identifier: EPL-2.0

package pcm

import "errors"

var (
	ErrNoChannels       = errors.New("pcm stream has no channels")
	ErrUnsupportedDepth = errors.New("unsupported pcm bit depth")
)
