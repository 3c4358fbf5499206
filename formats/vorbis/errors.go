// SPDX-License-Identifier: EPL-2.0

package vorbis

import "errors"

// ErrNotVorbis indicates the stream has no readable Vorbis headers
var ErrNotVorbis = errors.New("not an Ogg Vorbis stream")
