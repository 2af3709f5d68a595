package glyph

import (
	"fmt"
	"math"

	"github.com/matzehuels/skewer/pkg/errors"
)

// eps absorbs floating error in overlap and displacement checks.
const eps = 1e-9

// State is the display mode of a unit.
type State int

const (
	// Folded units collapse onto the shared baseline at their ideal x.
	Folded State = iota
	// Unfolded units are drawn at full size and packed horizontally.
	Unfolded
)

// String returns "folded" or "unfolded".
func (s State) String() string {
	if s == Unfolded {
		return "unfolded"
	}
	return "folded"
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(b []byte) error {
	switch string(b) {
	case "folded":
		*s = Folded
	case "unfolded":
		*s = Unfolded
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown state %q", b)
	}
	return nil
}

// Endpoint is one end of a visual transition.
type Endpoint struct {
	X           float64 `json:"x"`
	StackOffset float64 `json:"stack_offset"`
	State       State   `json:"state"`
}

// Unit is a group of features drawn as one glyph.
type Unit struct {
	// Key identifies the unit across re-layouts of the same feature set.
	Key string

	Chr   string
	Pos   int
	Type  string
	Label string

	// IdealX is the pixel x of the genomic anchor. Layout never changes it.
	IdealX float64
	// CurrentX is the x assigned by the last layout pass.
	CurrentX float64
	// XOffset is CurrentX - IdealX as of the last pass.
	XOffset float64

	// HalfLeft and HalfRight are the unfolded footprint on each side of CurrentX.
	HalfLeft, HalfRight float64

	Count  int      // occurrences represented, at least 1
	Groups []string // distinct sub-group keys among members

	Radius     float64
	CountFont  float64 // font size of the count drawn in the disc, 0 for singles
	LabelWidth float64
	Rotated    bool // label drawn along the stem, not beside the disc

	State State
	// StackOffset is the distance from the baseline along the stem axis.
	StackOffset float64

	// Magnitude and Y are used by data-driven vertical placement.
	Magnitude float64
	Y         float64

	// Members indexes the source features in the batch handed to the grouper.
	Members []int

	// Prev is the endpoint of the previous layout pass.
	Prev Endpoint
}

// Width returns the unfolded horizontal footprint.
func (u *Unit) Width() float64 { return u.HalfLeft + u.HalfRight }

// BodyWidth returns the footprint of the disc alone, as if the label were rotated.
func (u *Unit) BodyWidth() float64 { return 2 * u.HalfLeft }

// SettleWidth is the width counted when deciding how many units fit. A
// rotated label adds no width, so only the disc counts.
func (u *Unit) SettleWidth() float64 {
	if u.Rotated {
		return u.BodyWidth()
	}
	return u.Width()
}

// Left returns the left edge at CurrentX.
func (u *Unit) Left() float64 { return u.CurrentX - u.HalfLeft }

// Right returns the right edge at CurrentX.
func (u *Unit) Right() float64 { return u.CurrentX + u.HalfRight }

// Overlaps reports whether the footprints of u and o intersect.
func (u *Unit) Overlaps(o *Unit) bool {
	return u.Left() < o.Right()-eps && o.Left() < u.Right()-eps
}

// RecordOffset stores CurrentX - IdealX.
func (u *Unit) RecordOffset() { u.XOffset = u.CurrentX - u.IdealX }

// Endpoint returns the current layout endpoint.
func (u *Unit) Endpoint() Endpoint {
	return Endpoint{X: u.CurrentX, StackOffset: u.StackOffset, State: u.State}
}

// Snapshot stores the current endpoint as Prev.
func (u *Unit) Snapshot() { u.Prev = u.Endpoint() }

// Check reports non-finite positions or sizes and counts below one.
func (u *Unit) Check() error {
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"ideal x", u.IdealX},
		{"current x", u.CurrentX},
		{"radius", u.Radius},
		{"half width", u.HalfLeft},
		{"half width", u.HalfRight},
	} {
		if err := errors.ValidateFinite(v.name, v.val); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "unit %s", u.Key)
		}
	}
	if u.Count < 1 {
		return errors.New(errors.ErrCodeInternal, "unit %s has count %d", u.Key, u.Count)
	}
	if u.HalfLeft < 0 || u.HalfRight < 0 {
		return errors.New(errors.ErrCodeInternal, "unit %s has negative footprint", u.Key)
	}
	return nil
}

// String is a compact debug form.
func (u *Unit) String() string {
	return fmt.Sprintf("%s[x=%.1f ideal=%.1f n=%d %s]", u.Key, u.CurrentX, u.IdealX, u.Count, u.State)
}

// Viewport is the horizontal pixel range of a track.
type Viewport struct {
	Left  float64 `json:"left" toml:"left"`
	Right float64 `json:"right" toml:"right"`
}

// NewViewport returns the viewport [0, width].
func NewViewport(width float64) Viewport { return Viewport{Right: width} }

// Width returns Right - Left.
func (v Viewport) Width() float64 { return v.Right - v.Left }

// Center returns the midpoint.
func (v Viewport) Center() float64 { return (v.Left + v.Right) / 2 }

// Contains reports whether x lies within the viewport, bounds included.
func (v Viewport) Contains(x float64) bool { return x >= v.Left && x <= v.Right }

// Validate checks that the viewport is finite and has positive width.
func (v Viewport) Validate() error { return errors.ValidateViewport(v.Left, v.Right) }

// Distance returns |x - center|.
func (v Viewport) Distance(x float64) float64 { return math.Abs(x - v.Center()) }
