package frames

import (
	"math"
	"testing"
)

func TestMapToFrameEndpoints(t *testing.T) {
	for _, n := range []int{1, 2, 5, 110, 120} {
		if got := MapToFrame(0, n); got != 0 {
			t.Errorf("MapToFrame(0, %d) = %d, want 0", n, got)
		}
		if got := MapToFrame(1, n); got != n-1 {
			t.Errorf("MapToFrame(1, %d) = %d, want %d", n, got, n-1)
		}
	}
}

func TestMapToFrameRounding(t *testing.T) {
	tests := []struct {
		p    float64
		n    int
		want int
	}{
		{0.5, 110, 55}, // 54.5 rounds half-up
		{0.5, 120, 60}, // 59.5
		{0.25, 5, 1},
		{0.375, 5, 2}, // 1.5
		{0.37, 5, 1},
		{0.999, 110, 109},
	}
	for _, tt := range tests {
		if got := MapToFrame(tt.p, tt.n); got != tt.want {
			t.Errorf("MapToFrame(%v, %d) = %d, want %d", tt.p, tt.n, got, tt.want)
		}
	}
}

func TestMapToFrameClamps(t *testing.T) {
	tests := []struct {
		p    float64
		want int
	}{
		{-0.2, 0},
		{1.3, 109},
		{math.Inf(1), 109},
		{math.Inf(-1), 0},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := MapToFrame(tt.p, 110); got != tt.want {
			t.Errorf("MapToFrame(%v, 110) = %d, want %d", tt.p, got, tt.want)
		}
	}
	if got := MapToFrame(0.7, 0); got != 0 {
		t.Errorf("MapToFrame with zero frames = %d", got)
	}
}

func TestMapToFrameBoundedAndMonotonic(t *testing.T) {
	for _, n := range []int{1, 7, 110} {
		prev := -1
		for i := 0; i <= 10000; i++ {
			p := float64(i) / 10000
			got := MapToFrame(p, n)
			if got < 0 || got > n-1 {
				t.Fatalf("MapToFrame(%v, %d) = %d out of range", p, n, got)
			}
			if got < prev {
				t.Fatalf("not monotonic at p=%v: %d < %d", p, got, prev)
			}
			if again := MapToFrame(p, n); again != got {
				t.Fatalf("not deterministic at p=%v", p)
			}
			prev = got
		}
	}
}
