// Package pkg provides the core libraries for skewer track layout.
//
// # Overview
//
// Skewer lays out genome-browser feature tracks (variants, splice junctions,
// breakpoints) as glyphs on stems. Glyphs sit above the genomic axis and may
// be skewed sideways so neighbours never overlap; glyphs that cannot fit the
// view are folded onto a compact stack at their genomic position.
//
// The packages are organized by stage:
//
//  1. [feature], [axis] - input model and the coordinate mapper
//  2. [group] - merging features into units by position, codon or pixel bin
//  3. [glyph] - units, radius scale and footprints
//  4. [pack], [fold], [force] - placement
//  5. [pipeline] - orchestration (group → place → export) with [cache]
//
// # Architecture
//
//	features + regions
//	       ↓
//	  [axis] package (coordinate → pixel x)
//	       ↓
//	  [group] package (units with counts)
//	       ↓
//	  [glyph] package (radius, label, footprint)
//	       ↓
//	  [fold] + [pack]  or  [force]
//	       ↓
//	  layout JSON (placements with previous endpoints)
//
// # Quick Start
//
//	view, _ := axis.New([]axis.Region{{Chr: "chr17", Start: 7565000, Stop: 7590000, Width: 1000}}, 0)
//	track, _ := fold.New(fold.DefaultConfig(view.Width()))
//	if err := track.Load(features, view, view.Resolution(), nil); err != nil {
//	    return err
//	}
//	for _, p := range track.Placements() {
//	    fmt.Println(p.Label, p.X, p.State)
//	}
//
// # Support Packages
//
//   - [scale] - linear, piecewise and log scales
//   - [textmetrics] - label width measurement
//   - [errors] - structured error codes
//   - [observability] - layout and cache hooks
//   - [buildinfo] - version information
//
// [feature]: github.com/matzehuels/skewer/pkg/feature
// [axis]: github.com/matzehuels/skewer/pkg/axis
// [group]: github.com/matzehuels/skewer/pkg/group
// [glyph]: github.com/matzehuels/skewer/pkg/glyph
// [pack]: github.com/matzehuels/skewer/pkg/pack
// [fold]: github.com/matzehuels/skewer/pkg/fold
// [force]: github.com/matzehuels/skewer/pkg/force
// [pipeline]: github.com/matzehuels/skewer/pkg/pipeline
// [cache]: github.com/matzehuels/skewer/pkg/cache
// [scale]: github.com/matzehuels/skewer/pkg/scale
// [textmetrics]: github.com/matzehuels/skewer/pkg/textmetrics
// [errors]: github.com/matzehuels/skewer/pkg/errors
// [observability]: github.com/matzehuels/skewer/pkg/observability
// [buildinfo]: github.com/matzehuels/skewer/pkg/buildinfo
package pkg
