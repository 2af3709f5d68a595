package glyph

import (
	"math"
	"strconv"
	"sync"

	"github.com/matzehuels/skewer/pkg/scale"
	"github.com/matzehuels/skewer/pkg/textmetrics"
)

// CountFontRatio relates a disc radius to the font size of its count label.
const CountFontRatio = 1.0

// UnitArea returns the disc area of a single occurrence drawn at diameter d.
func UnitArea(diameter float64) float64 {
	r := diameter / 2
	return math.Pi * r * r
}

// MaxArea returns the disc area for the largest count on the track. The
// multiplier is a step function of maxCount so that tracks with a handful of
// occurrences do not blow up their biggest disc.
func MaxArea(maxCount int, unitArea float64) float64 {
	var a float64
	switch {
	case maxCount <= 10:
		a = unitArea * float64(maxCount) * 0.9
	case maxCount <= 100:
		a = unitArea * 10
	case maxCount <= 1000:
		a = unitArea * 14
	default:
		a = unitArea * 20
	}
	return max(a, unitArea)
}

// areaScale maps a count to a disc area. Half of the area range is spent on
// the lower half of the counts.
func areaScale(maxCount int, unitArea float64) scale.Piecewise {
	m := float64(maxCount)
	delta := MaxArea(maxCount, unitArea) - unitArea
	return scale.NewPiecewise(
		[]float64{1, 0.5 * m, 0.6 * m, 0.7 * m, 0.8 * m, m},
		[]float64{
			unitArea,
			unitArea + 0.8*delta,
			unitArea + 0.85*delta,
			unitArea + 0.9*delta,
			unitArea + 0.95*delta,
			unitArea + delta,
		},
	)
}

// ComputeRadius returns the disc radius for count on a track whose largest
// count is maxCount. Counts are clamped to [1, maxCount]. A single
// occurrence, or a track that never exceeds one, gets the unit radius.
func ComputeRadius(count, maxCount int, unitArea float64) float64 {
	base := math.Sqrt(unitArea / math.Pi)
	if maxCount <= 1 || count <= 1 {
		return base
	}
	count = min(count, maxCount)
	return math.Sqrt(areaScale(maxCount, unitArea).Map(float64(count)) / math.Pi)
}

// CountFontSize returns the font size of the count label drawn inside a disc.
func CountFontSize(radius float64) float64 {
	return textmetrics.ClampFontSize(radius * CountFontRatio)
}

// fontStep is the decrement used when shrinking a count label to fit.
const fontStep = 0.5

// RadiusScale memoizes radii for one track. With a measurer, the count label
// of a disc is shrunk down to textmetrics.FontSizeMin until it fits, and the
// disc grows only when the smallest font still overflows it. Radii never
// exceed the MaxArea radius. It is safe for concurrent use.
type RadiusScale struct {
	maxCount int
	unitArea float64
	area     scale.Piecewise
	measurer textmetrics.Measurer

	mu   sync.Mutex
	memo map[int]disc
}

type disc struct {
	radius   float64
	fontSize float64
}

// NewRadiusScale returns a scale for counts in [1, maxCount]. A nil measurer
// disables the label-fit floor.
func NewRadiusScale(maxCount int, unitArea float64, m textmetrics.Measurer) *RadiusScale {
	maxCount = max(maxCount, 1)
	return &RadiusScale{
		maxCount: maxCount,
		unitArea: unitArea,
		area:     areaScale(maxCount, unitArea),
		measurer: m,
		memo:     make(map[int]disc),
	}
}

// MaxCount returns the largest count the scale distinguishes.
func (s *RadiusScale) MaxCount() int { return s.maxCount }

// UnitRadius returns the radius of a single occurrence.
func (s *RadiusScale) UnitRadius() float64 { return math.Sqrt(s.unitArea / math.Pi) }

// CapRadius returns the radius of MaxArea, the bound on every radius.
func (s *RadiusScale) CapRadius() float64 {
	return math.Sqrt(MaxArea(s.maxCount, s.unitArea) / math.Pi)
}

// MaxRadius returns the radius at MaxCount.
func (s *RadiusScale) MaxRadius() float64 { return s.Radius(s.maxCount) }

// Radius returns the radius for count.
func (s *RadiusScale) Radius(count int) float64 { return s.lookup(count).radius }

// CountFont returns the font size of the count label drawn inside the disc
// for count. It is zero for single occurrences, which carry no count label.
func (s *RadiusScale) CountFont(count int) float64 { return s.lookup(count).fontSize }

func (s *RadiusScale) lookup(count int) disc {
	count = max(1, min(count, s.maxCount))

	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.memo[count]; ok {
		return d
	}
	d := disc{radius: s.UnitRadius()}
	if count > 1 && s.maxCount > 1 {
		d = s.fit(count, math.Sqrt(s.area.Map(float64(count))/math.Pi))
	}
	s.memo[count] = d
	return d
}

// fit picks the largest count font up to CountFontSize(r) whose label
// diagonal fits in r. When even FontSizeMin overflows, r is raised to that
// diagonal, bounded by CapRadius.
func (s *RadiusScale) fit(count int, r float64) disc {
	fs := CountFontSize(r)
	if s.measurer == nil {
		return disc{radius: r, fontSize: fs}
	}
	label := strconv.Itoa(count)
	half := func(fs float64) float64 {
		return math.Hypot(s.measurer.Measure(label, fs), fs) / 2
	}
	for fs > textmetrics.FontSizeMin && half(fs) > r+eps {
		fs = max(textmetrics.FontSizeMin, fs-fontStep)
	}
	if need := half(fs); need > r+eps {
		r = min(s.CapRadius(), need)
	}
	return disc{radius: r, fontSize: fs}
}
