// SPDX-License-Identifier: EPL-2.0

package audio

import "math"

// MaxScratchLen is the largest scratch buffer a decoder may grow to.
const MaxScratchLen = math.MaxInt32

// GrowScratch returns the next scratch length after cur: double, capped at ceiling.
// ok is false when cur already sits at or beyond the ceiling.
func GrowScratch(cur, ceiling int) (next int, ok bool) {
	if ceiling <= 0 || cur >= ceiling {
		return cur, false
	}
	if cur <= 0 {
		return 1, true
	}
	if cur > ceiling/2 {
		return ceiling, true
	}

	return cur * 2, true
}
