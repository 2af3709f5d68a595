// Package axis implements the linear, multi-region genomic axis a track is
// drawn against.
//
// A [View] lays one or more genomic regions side by side, separated by a
// fixed pixel gap, and maps coordinates to pixel x. It implements
// feature.CoordMapper. Panning shifts every pixel position by the same
// amount without changing the regions, so a layout can be carried across a
// pan by adding the delta to each position.
package axis

import (
	"math"

	"github.com/matzehuels/skewer/pkg/errors"
	"github.com/matzehuels/skewer/pkg/feature"
	"github.com/matzehuels/skewer/pkg/scale"
)

// Region is one displayed genomic interval, 0-based half-open, drawn Width
// pixels wide.
type Region struct {
	Chr   string  `json:"chr"`
	Start int     `json:"start"`
	Stop  int     `json:"stop"`
	Width float64 `json:"width"`
}

// Len returns the region length in bases.
func (r Region) Len() int { return r.Stop - r.Start }

// Resolution returns pixels per base.
func (r Region) Resolution() float64 {
	if r.Len() <= 0 {
		return 0
	}
	return r.Width / float64(r.Len())
}

// View is an ordered set of regions on one pixel axis.
type View struct {
	Regions []Region
	Gap     float64 // pixels between consecutive regions
	Offset  float64 // accumulated pan, in pixels
}

// New validates regions and returns a view.
func New(regions []Region, gap float64) (*View, error) {
	if len(regions) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "view needs at least one region")
	}
	for i, r := range regions {
		if err := errors.ValidateCoordinate(r.Chr, r.Start); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "region %d", i)
		}
		if r.Len() <= 0 || r.Width <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "region %d (%s:%d-%d) must have positive length and width", i, r.Chr, r.Start, r.Stop)
		}
	}
	return &View{Regions: regions, Gap: gap}, nil
}

// Width returns the total pixel width of all regions and gaps.
func (v *View) Width() float64 {
	w := 0.0
	for i, r := range v.Regions {
		if i > 0 {
			w += v.Gap
		}
		w += r.Width
	}
	return w
}

// Resolution returns the smallest pixels-per-base among the regions; the
// coarsest region decides whether adjacent bases can be told apart.
func (v *View) Resolution() float64 {
	res := 0.0
	for i, r := range v.Regions {
		if rr := r.Resolution(); i == 0 || rr < res {
			res = rr
		}
	}
	return res
}

// SeekCoord implements feature.CoordMapper. A coordinate shown in several
// regions yields one hit per region, in region order.
func (v *View) SeekCoord(chr string, pos int) []feature.Hit {
	var hits []feature.Hit
	left := v.Offset
	for i, r := range v.Regions {
		if r.Chr == chr && pos >= r.Start && pos < r.Stop {
			x := left + (float64(pos-r.Start)+0.5)*r.Resolution()
			hits = append(hits, feature.Hit{X: x, Region: i})
		}
		left += r.Width + v.Gap
	}
	return hits
}

// SeekPosition returns the base drawn at pixel x. Pixels in a gap or outside
// every region do not map.
func (v *View) SeekPosition(x float64) (feature.Position, bool) {
	left := v.Offset
	for _, r := range v.Regions {
		if x >= left && x < left+r.Width {
			return r.baseAt(left, x), true
		}
		left += r.Width + v.Gap
	}
	return feature.Position{}, false
}

// Span returns the first and last bases drawn between pixels x0 and x1.
// ok is false when no region overlaps the interval.
func (v *View) Span(x0, x1 float64) (from, to feature.Position, ok bool) {
	left := v.Offset
	for _, r := range v.Regions {
		right := left + r.Width
		if x0 < right && x1 > left {
			if !ok {
				from, ok = r.baseAt(left, max(x0, left)), true
			}
			to = r.baseAt(left, min(x1, right))
		}
		left = right + v.Gap
	}
	return from, to, ok
}

// baseAt inverts the region's pixel scale at x, for a region drawn from left.
func (r Region) baseAt(left, x float64) feature.Position {
	px := scale.NewLinear(float64(r.Start), float64(r.Stop), left, left+r.Width)
	pos := int(math.Floor(px.Invert(x)))
	return feature.Position{Chr: r.Chr, Pos: max(r.Start, min(pos, r.Stop-1))}
}

// Pan shifts the view by dx pixels. Positive dx moves features right.
func (v *View) Pan(dx float64) { v.Offset += dx }

// Clone returns an independent copy of the view.
func (v *View) Clone() *View {
	c := *v
	c.Regions = append([]Region(nil), v.Regions...)
	return &c
}

var _ feature.CoordMapper = (*View)(nil)
