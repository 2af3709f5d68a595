// Package feature defines the genomic inputs of a track layout.
//
// A [Feature] is one raw event fetched by a track: a point mutation, one end
// of a structural variant, a splice junction or a copy-number segment anchor.
// Features are immutable once fetched and owned by the calling track; the
// layout packages only read them.
//
// Pixel positions come from a [CoordMapper] supplied by the view. A mapper
// may return zero hits (the coordinate is not displayed), one hit, or several
// hits when the coordinate falls into more than one displayed sub-region.
// Layout code uses the first hit.
//
// A [Transcript] describes the coding exons of a gene so that features can be
// grouped by amino-acid position when the view is too coarse to separate
// individual bases.
package feature
