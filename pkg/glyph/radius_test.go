package glyph

import (
	"math"
	"strconv"
	"testing"

	"github.com/matzehuels/skewer/pkg/textmetrics"
)

func TestComputeRadiusSingle(t *testing.T) {
	ua := UnitArea(12)
	want := math.Sqrt(ua / math.Pi)
	if got := ComputeRadius(1, 1, ua); got != want {
		t.Errorf("ComputeRadius(1, 1) = %v, want %v", got, want)
	}
	if got := NewRadiusScale(1, ua, textmetrics.Approx{}).Radius(1); got != want {
		t.Errorf("RadiusScale.Radius(1) = %v, want %v", got, want)
	}
	if math.Abs(want-6) > 1e-12 {
		t.Errorf("unit radius for diameter 12 = %v, want 6", want)
	}
}

func TestMaxArea(t *testing.T) {
	const ua = 100.0
	tests := []struct {
		max  int
		want float64
	}{
		{1, 100},  // 90 clamped up to the unit area
		{2, 180},  // ×2×0.9
		{10, 900}, // ×10×0.9
		{11, 1000},
		{100, 1000},
		{101, 1400},
		{1000, 1400},
		{1001, 2000},
		{1_000_000, 2000},
	}
	for _, tt := range tests {
		if got := MaxArea(tt.max, ua); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("MaxArea(%d) = %v, want %v", tt.max, got, tt.want)
		}
	}
}

func TestComputeRadiusBreakpoints(t *testing.T) {
	const ua = 100.0
	// max 100 → maxArea 1000, Δ 900; count 50 sits on the 0.8Δ breakpoint.
	got := ComputeRadius(50, 100, ua)
	want := math.Sqrt((ua + 0.8*900) / math.Pi)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("ComputeRadius(50, 100) = %v, want %v", got, want)
	}
	got = ComputeRadius(100, 100, ua)
	want = math.Sqrt(1000 / math.Pi)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("ComputeRadius(100, 100) = %v, want %v", got, want)
	}
}

func TestComputeRadiusMonotonic(t *testing.T) {
	ua := UnitArea(12)
	for _, maxCount := range []int{2, 7, 10, 55, 100, 640, 1000, 5000} {
		prev := 0.0
		for c := 1; c <= maxCount; c++ {
			r := ComputeRadius(c, maxCount, ua)
			if r < prev {
				t.Fatalf("max %d: radius(%d) = %v < radius(%d) = %v", maxCount, c, r, c-1, prev)
			}
			prev = r
		}
	}
}

func TestRadiusScaleMonotonicWithLabelFloor(t *testing.T) {
	rs := NewRadiusScale(20000, UnitArea(12), textmetrics.Approx{})
	prev := 0.0
	for c := 1; c <= 20000; c++ {
		r := rs.Radius(c)
		if r < prev {
			t.Fatalf("radius(%d) = %v < radius(%d) = %v", c, r, c-1, prev)
		}
		prev = r
	}
}

func TestRadiusBounded(t *testing.T) {
	ua := UnitArea(12)
	measurers := map[string]textmetrics.Measurer{"plain": nil, "approx": textmetrics.Approx{}}
	for name, m := range measurers {
		for _, maxCount := range []int{5, 50, 500, 1000, 5000, 1_000_000} {
			limit := math.Sqrt(MaxArea(maxCount, ua) / math.Pi)
			rs := NewRadiusScale(maxCount, ua, m)
			for _, c := range []int{1, 2, 9, 99, 999, 9999, maxCount / 2, maxCount, 1_000_000, 10_000_000} {
				if r := ComputeRadius(c, maxCount, ua); r > limit+1e-9 {
					t.Errorf("ComputeRadius(%d, %d) = %v exceeds %v", c, maxCount, r, limit)
				}
				if r := rs.Radius(c); r > limit+1e-9 {
					t.Errorf("%s: RadiusScale(%d).Radius(%d) = %v exceeds %v", name, maxCount, c, r, limit)
				}
			}
			if rs.CapRadius() != limit {
				t.Errorf("%s: CapRadius(%d) = %v, want %v", name, maxCount, rs.CapRadius(), limit)
			}
		}
	}
}

func TestRadiusLabelFit(t *testing.T) {
	approx := textmetrics.Approx{}
	half := func(count int, fs float64) float64 {
		return math.Hypot(approx.Measure(strconv.Itoa(count), fs), fs) / 2
	}
	tests := []struct {
		name      string
		unitArea  float64
		maxCount  int
		count     int
		wantR     func(rs *RadiusScale) float64
		wantFont  func(rs *RadiusScale) float64
		fontFits  bool
		fontBelow float64
	}{
		{
			name:     "label fits at full size",
			unitArea: UnitArea(12), maxCount: 10, count: 2,
			wantR:    func(*RadiusScale) float64 { return ComputeRadius(2, 10, UnitArea(12)) },
			wantFont: func(*RadiusScale) float64 { return CountFontSize(ComputeRadius(2, 10, UnitArea(12))) },
			fontFits: true,
		},
		{
			name:     "minimum font raises the disc",
			unitArea: UnitArea(4), maxCount: 100, count: 10,
			wantR:    func(*RadiusScale) float64 { return half(10, textmetrics.FontSizeMin) },
			wantFont: func(*RadiusScale) float64 { return textmetrics.FontSizeMin },
			fontFits: true,
		},
		{
			name:     "raised disc stops at the cap",
			unitArea: UnitArea(4), maxCount: 9999, count: 9999,
			wantR:    func(rs *RadiusScale) float64 { return rs.CapRadius() },
			wantFont: func(*RadiusScale) float64 { return textmetrics.FontSizeMin },
		},
		{
			name:     "font shrinks inside a capped disc",
			unitArea: UnitArea(12), maxCount: 1_000_000, count: 1_000_000,
			wantR:     func(rs *RadiusScale) float64 { return rs.CapRadius() },
			fontFits:  true,
			fontBelow: textmetrics.FontSizeMax,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := NewRadiusScale(tt.maxCount, tt.unitArea, approx)
			r, fs := rs.Radius(tt.count), rs.CountFont(tt.count)
			if want := tt.wantR(rs); math.Abs(r-want) > 1e-9 {
				t.Errorf("Radius(%d) = %v, want %v", tt.count, r, want)
			}
			if tt.wantFont != nil {
				if want := tt.wantFont(rs); math.Abs(fs-want) > 1e-9 {
					t.Errorf("CountFont(%d) = %v, want %v", tt.count, fs, want)
				}
			}
			if fs < textmetrics.FontSizeMin || fs > textmetrics.FontSizeMax {
				t.Errorf("CountFont(%d) = %v outside font bounds", tt.count, fs)
			}
			if tt.fontFits && half(tt.count, fs) > r+1e-9 {
				t.Errorf("label at %v needs radius %v, disc is %v", fs, half(tt.count, fs), r)
			}
			if tt.fontBelow > 0 && fs >= tt.fontBelow {
				t.Errorf("CountFont(%d) = %v, want below %v", tt.count, fs, tt.fontBelow)
			}
		})
	}

	// single occurrences never carry a count label
	rs := NewRadiusScale(9999, UnitArea(4), approx)
	if r := rs.Radius(1); r != rs.UnitRadius() {
		t.Errorf("Radius(1) = %v, want unit radius %v", r, rs.UnitRadius())
	}
	if fs := rs.CountFont(1); fs != 0 {
		t.Errorf("CountFont(1) = %v, want 0", fs)
	}
}

func TestRadiusScaleClampsCount(t *testing.T) {
	rs := NewRadiusScale(10, UnitArea(12), nil)
	if rs.Radius(0) != rs.Radius(1) {
		t.Error("count 0 should clamp to 1")
	}
	if rs.Radius(500) != rs.MaxRadius() {
		t.Error("count above max should clamp to max")
	}
}

func BenchmarkRadiusScale(b *testing.B) {
	rs := NewRadiusScale(1000, UnitArea(12), textmetrics.Approx{})
	for i := 0; i < b.N; i++ {
		rs.Radius(i%1000 + 1)
	}
}
