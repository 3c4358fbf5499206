// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Float32ToInt16 scales a full-scale float sample to int16.
// 1.0 maps to 32767 and -1.0 to -32768; out of range values clamp and NaN is silence.
func Float32ToInt16(x float32) int16 {
	return Float64ToInt16(float64(x))
}

// Float64ToInt16 is the float64 variant of Float32ToInt16.
func Float64ToInt16(x float64) int16 {
	if math.IsNaN(x) {
		return 0
	}

	v := math.Round(x * 32768.0)
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}

	return int16(v)
}
