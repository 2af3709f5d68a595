// Package pack places unfolded units along a horizontal track without
// overlap.
//
// Placement runs in two phases. [LeftPack] walks units in ideal-x order and
// pushes each one right just far enough to clear its predecessor. It never
// moves a unit left of its ideal x, so displacement is entirely rightward
// and can overflow the viewport's right edge; callers fold units until the
// overflow goes away. [Straighten] then walks the row again and slides
// suffixes left one pixel at a time while that shortens the stems, which
// matters when units start from stale positions ([Repack]).
//
// All functions expect units sorted ascending by IdealX (see [Sort]) and
// mutate CurrentX in place. IdealX is never written.
package pack

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/skewer/pkg/errors"
	"github.com/matzehuels/skewer/pkg/glyph"
)

// Step is the straightening increment in pixels.
const Step = 1.0

const eps = 1e-9

// Sort orders units by IdealX, keeping the input order on ties.
func Sort(units []*glyph.Unit) {
	slices.SortStableFunc(units, func(a, b *glyph.Unit) int { return cmp.Compare(a.IdealX, b.IdealX) })
}

// Pack runs [LeftPack] then [Straighten] and records each unit's offset.
// It depends only on IdealX and the footprints, so packing twice gives the
// same positions. It returns the overflow past vp.Right.
func Pack(units []*glyph.Unit, vp glyph.Viewport) float64 {
	for _, u := range units {
		u.CurrentX = u.IdealX
	}
	return place(units, vp)
}

// Repack is the incremental form of [Pack]: each unit starts from the larger
// of its ideal and current x, so units already pushed right by an earlier
// pass stay put unless a neighbour forces them further. It returns the
// overflow past vp.Right.
func Repack(units []*glyph.Unit, vp glyph.Viewport) float64 {
	for _, u := range units {
		u.CurrentX = max(u.IdealX, u.CurrentX)
	}
	return place(units, vp)
}

func place(units []*glyph.Unit, vp glyph.Viewport) float64 {
	overflow := LeftPack(units, vp)
	if len(units) > 0 {
		Straighten(units, vp)
		overflow = max(0, units[len(units)-1].Right()-vp.Right)
	}
	for _, u := range units {
		u.RecordOffset()
	}
	return overflow
}

// LeftPack pushes each unit right of its predecessor's right edge, starting
// from the unit's CurrentX, with the first edge at vp.Left. A unit wider than
// the viewport ignores vp.Left and only clears its predecessor. It returns
// how far the last right edge passes vp.Right, or 0.
func LeftPack(units []*glyph.Unit, vp glyph.Viewport) float64 {
	cursor := math.Inf(-1)
	for i, u := range units {
		if i == 0 && u.Width() <= vp.Width() {
			cursor = vp.Left
		}
		if u.CurrentX-u.HalfLeft < cursor {
			u.CurrentX = cursor + u.HalfLeft
		}
		cursor = u.Right()
	}
	if len(units) == 0 {
		return 0
	}
	return max(0, cursor-vp.Right)
}

// Straighten slides suffixes of the row left in [Step] increments. For each
// unit i it repeatedly moves units i..n-1 left together and keeps the move
// while the summed stem offset of the suffix does not grow, no unit ends
// left of its ideal x, and unit i neither crosses its predecessor nor
// vp.Left. The final step of a run is clamped to the remaining slack.
func Straighten(units []*glyph.Unit, vp glyph.Viewport) {
	n := len(units)
	for i := 0; i < n; i++ {
		u := units[i]
		floor := vp.Left + u.HalfLeft
		if u.Width() > vp.Width() {
			floor = math.Inf(-1)
		}
		if i > 0 {
			floor = max(floor, units[i-1].Right()+u.HalfLeft)
		}
		for {
			step := min(Step, u.CurrentX-floor)
			for _, v := range units[i:] {
				step = min(step, v.CurrentX-v.IdealX)
			}
			if step <= eps {
				break
			}
			before := displacement(units[i:], 0)
			if displacement(units[i:], step) > before+eps {
				break
			}
			for _, v := range units[i:] {
				v.CurrentX -= step
			}
		}
	}
}

// displacement returns the summed |x - ideal| after shifting left by dx.
func displacement(units []*glyph.Unit, dx float64) float64 {
	var s float64
	for _, u := range units {
		s += math.Abs(u.CurrentX - dx - u.IdealX)
	}
	return s
}

// Displacement returns the summed |CurrentX - IdealX| over units.
func Displacement(units []*glyph.Unit) float64 { return displacement(units, 0) }

// Verify checks that units are ordered, do not overlap and are not left of
// their ideal x.
func Verify(units []*glyph.Unit) error {
	for i, u := range units {
		if u.CurrentX < u.IdealX-eps {
			return errors.New(errors.ErrCodeInternal, "unit %s placed left of its anchor: x=%v ideal=%v", u.Key, u.CurrentX, u.IdealX)
		}
		if i == 0 {
			continue
		}
		p := units[i-1]
		if u.IdealX < p.IdealX {
			return errors.New(errors.ErrCodeInternal, "units %s and %s not sorted by ideal x", p.Key, u.Key)
		}
		if u.CurrentX < p.CurrentX {
			return errors.New(errors.ErrCodeInternal, "units %s and %s swapped order", p.Key, u.Key)
		}
		if p.Overlaps(u) {
			return errors.New(errors.ErrCodeInternal, "units %s [%v, %v] and %s [%v, %v] overlap",
				p.Key, p.Left(), p.Right(), u.Key, u.Left(), u.Right())
		}
	}
	return nil
}
