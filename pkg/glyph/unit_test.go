package glyph

import (
	"testing"

	"github.com/matzehuels/skewer/pkg/textmetrics"
)

func TestUnitGeometry(t *testing.T) {
	u := &Unit{Key: "a", CurrentX: 50, IdealX: 40, HalfLeft: 5, HalfRight: 15, Count: 3}
	if u.Width() != 20 || u.Left() != 45 || u.Right() != 65 {
		t.Errorf("geometry = %v/%v/%v", u.Width(), u.Left(), u.Right())
	}
	if u.SettleWidth() != 20 {
		t.Errorf("SettleWidth = %v, want 20", u.SettleWidth())
	}
	u.Count = 1
	if u.SettleWidth() != 20 {
		t.Errorf("single unrotated SettleWidth = %v, want 20", u.SettleWidth())
	}
	u.Rotated = true
	if u.SettleWidth() != 10 {
		t.Errorf("rotated SettleWidth = %v, want 10", u.SettleWidth())
	}
	u.RecordOffset()
	if u.XOffset != 10 {
		t.Errorf("XOffset = %v, want 10", u.XOffset)
	}
}

func TestUnitOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Unit
		want bool
	}{
		{"touching", Unit{CurrentX: 10, HalfLeft: 5, HalfRight: 5}, Unit{CurrentX: 20, HalfLeft: 5, HalfRight: 5}, false},
		{"apart", Unit{CurrentX: 10, HalfLeft: 5, HalfRight: 5}, Unit{CurrentX: 30, HalfLeft: 5, HalfRight: 5}, false},
		{"overlap", Unit{CurrentX: 10, HalfLeft: 5, HalfRight: 5}, Unit{CurrentX: 19, HalfLeft: 5, HalfRight: 5}, true},
		{"label overlap", Unit{CurrentX: 10, HalfLeft: 5, HalfRight: 20}, Unit{CurrentX: 25, HalfLeft: 5, HalfRight: 5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(&tt.b); got != tt.want {
				t.Errorf("a.Overlaps(b) = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(&tt.a); got != tt.want {
				t.Errorf("b.Overlaps(a) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestState(t *testing.T) {
	for _, s := range []State{Folded, Unfolded} {
		b, err := s.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var got State
		if err := got.UnmarshalText(b); err != nil || got != s {
			t.Errorf("round trip %v: got %v, %v", s, got, err)
		}
	}
	var s State
	if err := s.UnmarshalText([]byte("open")); err == nil {
		t.Error("expected error for unknown state")
	}
}

func TestUnitCheck(t *testing.T) {
	good := &Unit{Key: "k", Count: 1, Radius: 6, HalfLeft: 8, HalfRight: 8}
	if err := good.Check(); err != nil {
		t.Errorf("Check() = %v", err)
	}
	bad := *good
	bad.Count = 0
	if err := bad.Check(); err == nil {
		t.Error("expected error for zero count")
	}
}

func TestViewport(t *testing.T) {
	vp := Viewport{Left: 100, Right: 300}
	if vp.Width() != 200 || vp.Center() != 200 {
		t.Errorf("Width/Center = %v/%v", vp.Width(), vp.Center())
	}
	if !vp.Contains(100) || !vp.Contains(300) || vp.Contains(301) {
		t.Error("Contains bounds wrong")
	}
	if err := (Viewport{Left: 5, Right: 5}).Validate(); err == nil {
		t.Error("expected error for empty viewport")
	}
}

func TestSizingApply(t *testing.T) {
	s := Sizing{Rim: 2, LabelGap: 3, LabelFontSize: 10, RotateSingleLabels: true, Measurer: textmetrics.Approx{CharWidth: 0.5}}

	single := &Unit{Count: 1, Label: "R273H"}
	s.Apply(single, 6)
	if !single.Rotated || single.HalfLeft != 8 || single.HalfRight != 8 {
		t.Errorf("single: rotated=%v half=%v/%v", single.Rotated, single.HalfLeft, single.HalfRight)
	}
	if single.LabelWidth != 25 {
		t.Errorf("LabelWidth = %v, want 25", single.LabelWidth)
	}

	multi := &Unit{Count: 4, Label: "R273H"}
	s.Apply(multi, 10)
	if multi.Rotated || multi.HalfLeft != 12 || multi.HalfRight != 12+3+25 {
		t.Errorf("multi: rotated=%v half=%v/%v", multi.Rotated, multi.HalfLeft, multi.HalfRight)
	}

	noLabel := &Unit{Count: 4}
	s.Apply(noLabel, 10)
	if noLabel.HalfRight != 12 {
		t.Errorf("unlabelled HalfRight = %v, want 12", noLabel.HalfRight)
	}
}

func TestSizingSizeAll(t *testing.T) {
	s := Sizing{Rim: 2, LabelFontSize: 10, RotateSingleLabels: true, Measurer: textmetrics.Approx{}}
	rs := NewRadiusScale(1_000_000, UnitArea(12), textmetrics.Approx{})
	units := []*Unit{{Count: 1}, {Count: 1_000_000}}
	s.SizeAll(units, rs)

	if units[0].CountFont != 0 || units[0].Radius != rs.UnitRadius() {
		t.Errorf("single: font=%v radius=%v", units[0].CountFont, units[0].Radius)
	}
	big := units[1]
	if big.Radius != rs.Radius(big.Count) || big.CountFont != rs.CountFont(big.Count) {
		t.Errorf("big: radius=%v font=%v", big.Radius, big.CountFont)
	}
	if big.Radius > rs.CapRadius()+1e-9 || big.CountFont < textmetrics.FontSizeMin {
		t.Errorf("big disc out of bounds: radius=%v cap=%v font=%v", big.Radius, rs.CapRadius(), big.CountFont)
	}
}
