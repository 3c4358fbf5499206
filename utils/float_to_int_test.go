// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestFloatToInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   float64
		want int16
	}{
		{name: "silence", in: 0, want: 0},
		{name: "full scale", in: 1, want: math.MaxInt16},
		{name: "negative full scale", in: -1, want: math.MinInt16},
		{name: "half", in: 0.5, want: 16384},
		{name: "negative half", in: -0.5, want: -16384},
		{name: "rounds to nearest", in: 0.001, want: 33},
		{name: "rounds away from zero", in: -0.001, want: -33},
		{name: "clips high", in: 1.5, want: math.MaxInt16},
		{name: "clips low", in: -100, want: math.MinInt16},
		{name: "positive infinity", in: math.Inf(1), want: math.MaxInt16},
		{name: "negative infinity", in: math.Inf(-1), want: math.MinInt16},
		{name: "nan", in: math.NaN(), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Float64ToInt16(tt.in); got != tt.want {
				t.Errorf("Float64ToInt16(%v) = %d, want %d", tt.in, got, tt.want)
			}
			if got := Float32ToInt16(float32(tt.in)); got != tt.want {
				t.Errorf("Float32ToInt16(%v) = %d, want %d", float32(tt.in), got, tt.want)
			}
		})
	}
}

func TestFloat32ToInt16_MonotonicAndSymmetric(t *testing.T) {
	t.Parallel()

	prev := Float32ToInt16(-1)
	for i := -999; i <= 1000; i++ {
		f := float32(i) / 1000

		got := Float32ToInt16(f)
		if got < prev {
			t.Fatalf("Float32ToInt16(%v) = %d, below %d for a smaller input", f, got, prev)
		}
		prev = got

		// Only full scale is asymmetric: +1 clips at 32767.
		if i > 0 && i < 1000 {
			if neg := Float32ToInt16(-f); neg != -got {
				t.Errorf("Float32ToInt16(-%v) = %d, want %d", f, neg, -got)
			}
		}
	}
}

func BenchmarkFloat32ToInt16(b *testing.B) {
	src := make([]float32, 960)
	for i := range src {
		src[i] = float32(math.Sin(float64(i) * 0.1))
	}
	dst := make([]int16, len(src))

	b.ReportAllocs()

	for range b.N {
		for i, v := range src {
			dst[i] = Float32ToInt16(v)
		}
	}
}
