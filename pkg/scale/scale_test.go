package scale

import (
	"math"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestLinear(t *testing.T) {
	s := NewLinear(1, 11, 8, 58)
	tests := []struct {
		in, want float64
	}{
		{1, 8},
		{11, 58},
		{6, 33},
		{21, 108}, // extrapolates
	}
	for _, tt := range tests {
		if got := s.Map(tt.in); !approx(got, tt.want) {
			t.Errorf("Map(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := s.Clamp(21); !approx(got, 58) {
		t.Errorf("Clamp(21) = %v, want 58", got)
	}
	if got := s.Invert(33); !approx(got, 6) {
		t.Errorf("Invert(33) = %v, want 6", got)
	}
}

func TestLinearDegenerateDomain(t *testing.T) {
	s := NewLinear(1, 1, 8, 60)
	if got := s.Map(1); got != 8 {
		t.Errorf("Map(1) = %v, want 8", got)
	}
	if got := s.Map(100); got != 8 {
		t.Errorf("Map(100) = %v, want 8", got)
	}
}

func TestPiecewise(t *testing.T) {
	s := NewPiecewise([]float64{0, 10, 20}, []float64{0, 100, 110})
	tests := []struct {
		in, want float64
	}{
		{-5, 0},
		{0, 0},
		{5, 50},
		{10, 100},
		{15, 105},
		{20, 110},
		{99, 110},
	}
	for _, tt := range tests {
		if got := s.Map(tt.in); !approx(got, tt.want) {
			t.Errorf("Map(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPiecewiseSanitizesDomain(t *testing.T) {
	// Breakpoints derived from a small maximum can step backwards.
	s := NewPiecewise([]float64{1, 0.5, 0.6, 1}, []float64{1, 2, 3, 4})
	for i := 1; i < len(s.Domain); i++ {
		if s.Domain[i] < s.Domain[i-1] {
			t.Fatalf("domain not non-decreasing: %v", s.Domain)
		}
	}
	prev := math.Inf(-1)
	for v := 0.0; v <= 2; v += 0.05 {
		got := s.Map(v)
		if got < prev {
			t.Fatalf("Map not monotone at %v: %v < %v", v, got, prev)
		}
		prev = got
	}
}

func TestLog(t *testing.T) {
	s := NewLog(1, 1000, 100, 10)
	tests := []struct {
		in, want float64
	}{
		{1, 100},
		{10, 70},
		{100, 40},
		{1000, 10},
		{0, 100},
		{-4, 100},
		{5000, 10},
	}
	for _, tt := range tests {
		if got := s.Map(tt.in); !approx(got, tt.want) {
			t.Errorf("Map(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFunc(t *testing.T) {
	var s Scale = Func(func(v float64) float64 { return 2 * v })
	if got := s.Map(3); got != 6 {
		t.Errorf("Map(3) = %v, want 6", got)
	}
}
