// Package glyph defines the displayable unit of a feature track and its size.
//
// A [Unit] is one "skewer" or disc: one or more features sharing a genomic
// anchor, drawn as a disc at the end of a stem that points at the anchor's
// pixel position. Units carry both their ideal x (where the stem meets the
// axis) and the x the layout assigned, and remember the previous layout
// endpoint so a renderer can animate between the two.
//
// # Sizing
//
// Disc radius grows with the number of occurrences a unit represents, via
// [RadiusScale]. The area scale is piecewise linear so that differences
// among small counts stay visible while large cohorts saturate:
//
//	rs := glyph.NewRadiusScale(maxCount, glyph.UnitArea(12), measurer)
//	r := rs.Radius(unit.Count)
//
// [Sizing] turns a radius and a label into the unit's horizontal footprint
// (HalfLeft/HalfRight), reserving room for an unrotated label on the right.
package glyph
