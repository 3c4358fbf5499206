// SPDX-License-Identifier: EPL-2.0

package mp3

import "errors"

// ErrNotMP3 indicates go-mp3 could not find a valid frame
var ErrNotMP3 = errors.New("not an MP3 stream")
