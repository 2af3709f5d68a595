package glyph

import "github.com/matzehuels/skewer/pkg/textmetrics"

// Sizing turns radii and labels into unit footprints.
type Sizing struct {
	Rim           float64 // stroke and padding around the disc
	LabelGap      float64 // space between disc and unrotated label
	LabelFontSize float64
	// RotateSingleLabels draws the label of single-occurrence units along
	// the stem so they take only the disc's width.
	RotateSingleLabels bool
	Measurer           textmetrics.Measurer
}

// Apply sets u's radius, label width, rotation and footprint.
func (s Sizing) Apply(u *Unit, radius float64) {
	u.Radius = radius
	u.CountFont = 0
	u.Rotated = s.RotateSingleLabels && u.Count <= 1
	u.LabelWidth = 0
	if u.Label != "" && s.Measurer != nil {
		u.LabelWidth = s.Measurer.Measure(u.Label, s.LabelFontSize)
	}
	u.HalfLeft = radius + s.Rim
	u.HalfRight = radius + s.Rim
	if !u.Rotated && u.LabelWidth > 0 {
		u.HalfRight += s.LabelGap + u.LabelWidth
	}
}

// SizeAll applies s to every unit using radii and count fonts from rs.
func (s Sizing) SizeAll(units []*Unit, rs *RadiusScale) {
	for _, u := range units {
		s.Apply(u, rs.Radius(u.Count))
		if u.Count > 1 {
			u.CountFont = rs.CountFont(u.Count)
		}
	}
}
