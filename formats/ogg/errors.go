// SPDX-License-Identifier: EPL-2.0

package ogg

import "errors"

var (
	ErrCapture     = errors.New("ogg: missing OggS capture pattern")
	ErrVersion     = errors.New("ogg: unsupported page version")
	ErrChecksum    = errors.New("ogg: page checksum mismatch")
	ErrNotOpus     = errors.New("ogg: no Opus stream found")
	ErrBadHead     = errors.New("ogg: malformed OpusHead")
	ErrBadTags     = errors.New("ogg: malformed OpusTags")
	ErrMultistream = errors.New("ogg: multistream Opus is not supported")
)
