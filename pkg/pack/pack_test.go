package pack

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/matzehuels/skewer/pkg/glyph"
)

func row(half float64, ideal ...float64) []*glyph.Unit {
	units := make([]*glyph.Unit, len(ideal))
	for i, x := range ideal {
		units[i] = &glyph.Unit{Key: fmt.Sprint(i), IdealX: x, CurrentX: x, HalfLeft: half, HalfRight: half, Count: 1}
	}
	return units
}

func xs(units []*glyph.Unit) []float64 {
	out := make([]float64, len(units))
	for i, u := range units {
		out[i] = u.CurrentX
	}
	return out
}

func near(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestPackCascade(t *testing.T) {
	tests := []struct {
		name string
		vp   glyph.Viewport
		want []float64
	}{
		{"left bound at 10", glyph.Viewport{Left: 10, Right: 200}, []float64{15, 25, 35}},
		{"left bound at 0", glyph.Viewport{Left: 0, Right: 200}, []float64{10, 20, 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			units := row(5, 10, 12, 14)
			if over := Pack(units, tt.vp); over != 0 {
				t.Errorf("overflow = %v", over)
			}
			if got := xs(units); !near(got, tt.want) {
				t.Errorf("x = %v, want %v", got, tt.want)
			}
			if err := Verify(units); err != nil {
				t.Error(err)
			}
			if units[2].XOffset != tt.want[2]-14 {
				t.Errorf("XOffset = %v", units[2].XOffset)
			}
		})
	}
}

func TestPackLeavesFreeUnits(t *testing.T) {
	units := row(5, 20, 50, 80)
	Pack(units, glyph.NewViewport(200))
	if got := xs(units); !near(got, []float64{20, 50, 80}) {
		t.Errorf("x = %v", got)
	}
	if Displacement(units) != 0 {
		t.Errorf("displacement = %v", Displacement(units))
	}
}

func TestPackAsymmetricFootprint(t *testing.T) {
	units := row(5, 10, 12)
	units[0].HalfRight = 25 // unrotated label
	Pack(units, glyph.NewViewport(200))
	// 10 + 25 + 5
	if got := xs(units); !near(got, []float64{10, 40}) {
		t.Errorf("x = %v", got)
	}
}

func TestPackOverflow(t *testing.T) {
	units := row(10, 50, 55, 60, 65, 70)
	over := Pack(units, glyph.NewViewport(100))
	// edges from 40: 50, 70, 90, 110, 130 → right edge 140
	if math.Abs(over-40) > 1e-9 {
		t.Errorf("overflow = %v, want 40", over)
	}
	if err := Verify(units); err != nil {
		t.Error(err)
	}
}

func TestPackWideUnit(t *testing.T) {
	units := row(150, 5)
	over := Pack(units, glyph.NewViewport(200))
	if units[0].CurrentX != 5 {
		t.Errorf("wide unit moved to %v", units[0].CurrentX)
	}
	if over != 0 {
		t.Errorf("overflow = %v", over)
	}
}

func TestPackEmpty(t *testing.T) {
	if over := Pack(nil, glyph.NewViewport(100)); over != 0 {
		t.Errorf("overflow = %v", over)
	}
	if err := Verify(nil); err != nil {
		t.Error(err)
	}
}

func randomRow(r *rand.Rand, n int, width float64) []*glyph.Unit {
	units := make([]*glyph.Unit, n)
	for i := range units {
		x := r.Float64() * width
		units[i] = &glyph.Unit{
			Key: fmt.Sprint(i), IdealX: x, CurrentX: x,
			HalfLeft: 2 + r.Float64()*8, HalfRight: 2 + r.Float64()*30, Count: 1,
		}
	}
	Sort(units)
	return units
}

func TestPackProperties(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		units := randomRow(r, 5+r.Intn(60), 1000)
		vp := glyph.NewViewport(1000)
		Pack(units, vp)
		if err := Verify(units); err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		first := xs(units)
		Pack(units, vp)
		if !near(first, xs(units)) {
			t.Fatalf("trial %d: second pack moved units", trial)
		}
	}
}

func TestRepack(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for trial := 0; trial < 50; trial++ {
		units := randomRow(r, 5+r.Intn(40), 1000)
		vp := glyph.NewViewport(1000)
		// stale positions from some earlier pass
		for _, u := range units {
			u.CurrentX += r.Float64() * 40
		}
		Repack(units, vp)
		if err := Verify(units); err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		fresh := make([]*glyph.Unit, len(units))
		for i, u := range units {
			c := *u
			fresh[i] = &c
		}
		Pack(fresh, vp)
		if Displacement(units) < Displacement(fresh)-1e-6 {
			t.Fatalf("trial %d: repack beat a fresh pack", trial)
		}
	}
}

func TestStraightenPullsStaleSuffix(t *testing.T) {
	units := row(5, 10, 40, 50)
	units[1].CurrentX = 47.5
	units[2].CurrentX = 60
	Straighten(units, glyph.NewViewport(200))
	// unit 1 can slide 7.5 before reaching its anchor; unit 2 then slides
	// the rest of the way home
	if got := xs(units); !near(got, []float64{10, 40, 50}) {
		t.Errorf("x = %v", got)
	}
}

func TestStraightenRespectsNeighbours(t *testing.T) {
	units := row(5, 10, 12, 30)
	units[0].CurrentX = 10
	units[1].CurrentX = 30
	units[2].CurrentX = 45
	Straighten(units, glyph.NewViewport(200))
	// unit 1 stops against unit 0; unit 2 reaches its anchor
	if got := xs(units); !near(got, []float64{10, 20, 30}) {
		t.Errorf("x = %v", got)
	}
	if err := Verify(units); err != nil {
		t.Error(err)
	}
}

func TestStraightenNeverCrossesAnchor(t *testing.T) {
	units := row(5, 10, 100)
	units[0].CurrentX = 30
	units[1].CurrentX = 100.5
	Straighten(units, glyph.NewViewport(200))
	// the suffix move for unit 0 is capped by unit 1's half-pixel of slack
	if got := xs(units); !near(got, []float64{29.5, 100}) {
		t.Errorf("x = %v", got)
	}
}

func TestVerify(t *testing.T) {
	units := row(5, 10, 20)
	if err := Verify(units); err != nil {
		t.Errorf("touching units: %v", err)
	}
	units[1].CurrentX = 15
	if err := Verify(units); err == nil {
		t.Error("expected overlap error")
	}
	units = row(5, 10, 20)
	units[0].CurrentX = 9
	if err := Verify(units); err == nil {
		t.Error("expected left-displacement error")
	}
	units = row(5, 20, 10)
	if err := Verify(units); err == nil {
		t.Error("expected order error")
	}
}

func BenchmarkPack(b *testing.B) {
	r := rand.New(rand.NewSource(1))
	units := randomRow(r, 300, 1000)
	vp := glyph.NewViewport(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Pack(units, vp)
	}
}
