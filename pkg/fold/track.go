// Package fold decides which units of a track are drawn unfolded and keeps
// that decision stable while the view pans.
//
// A [Track] owns one batch of units. [Track.Load] regroups features from
// scratch and runs [Track.Settle], which folds everything outside the
// viewport and unfolds as many in-view units as fit, ranked by occurrence
// count, sub-group count and closeness to the viewport centre. Manual
// toggles ([Track.Unfold], [Track.Fold]) and pans ([Track.Apply] with a pan
// delta) change the layout incrementally instead of settling again.
//
// Every change records the previous endpoint of each unit in Unit.Prev so
// a renderer can animate from the old layout to the new one.
package fold

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/matzehuels/skewer/pkg/errors"
	"github.com/matzehuels/skewer/pkg/feature"
	"github.com/matzehuels/skewer/pkg/glyph"
	"github.com/matzehuels/skewer/pkg/group"
	"github.com/matzehuels/skewer/pkg/pack"
	"github.com/matzehuels/skewer/pkg/scale"
)

// ViewChange describes a change of the visible range. A non-nil PanDeltaPx
// means the same regions moved by that many pixels and units keep their
// identity; nil means the view changed in a way that needs a full regroup.
type ViewChange struct {
	Viewport   glyph.Viewport
	PanDeltaPx *float64
}

// Pan returns a ViewChange for a pure pan of dx pixels.
func Pan(vp glyph.Viewport, dx float64) ViewChange {
	return ViewChange{Viewport: vp, PanDeltaPx: &dx}
}

// Track is the fold state of one feature track. It is not safe for
// concurrent use.
type Track struct {
	cfg     Config
	grouper *group.Grouper

	batch    uuid.UUID
	units    []*glyph.Unit // sorted by IdealX
	byKey    map[string]*glyph.Unit
	radii    *glyph.RadiusScale
	stack    scale.Linear
	mode     group.Mode
	dropped  errors.DropCount
	overflow float64
}

// New returns an empty track.
func New(cfg Config) (*Track, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Track{
		cfg:     cfg,
		grouper: group.New(cfg.Group),
		byKey:   map[string]*glyph.Unit{},
	}, nil
}

// Config returns the effective configuration.
func (t *Track) Config() Config { return t.cfg }

// Viewport returns the current viewport.
func (t *Track) Viewport() glyph.Viewport { return t.cfg.Viewport }

// Batch identifies the current grouping. It changes on every regroup and is
// kept across pans.
func (t *Track) Batch() uuid.UUID { return t.batch }

// Units returns the units sorted by IdealX. The slice is owned by the track.
func (t *Track) Units() []*glyph.Unit { return t.units }

// Unit returns the unit with key.
func (t *Track) Unit(key string) (*glyph.Unit, bool) {
	u, ok := t.byKey[key]
	return u, ok
}

// Radii returns the radius scale of the current batch.
func (t *Track) Radii() *glyph.RadiusScale { return t.radii }

// Load regroups features and settles the result. Units whose key existed in
// the previous batch take their old endpoint as Prev; new units appear from
// their folded position.
func (t *Track) Load(features []feature.Feature, m feature.CoordMapper, resolution float64, tx *feature.Transcript) error {
	res, err := t.grouper.Group(features, m, resolution, tx)
	if err != nil {
		return err
	}
	t.LoadGrouped(res)
	return nil
}

// Grouper returns the grouper the track regroups with.
func (t *Track) Grouper() *group.Grouper { return t.grouper }

// LoadGrouped is [Track.Load] for features grouped by the caller.
func (t *Track) LoadGrouped(res group.Result) {
	prev := t.byKey
	t.batch = uuid.New()
	t.adopt(res)
	for _, u := range t.units {
		if old, ok := prev[u.Key]; ok {
			u.Prev = old.Endpoint()
		} else {
			u.Prev = glyph.Endpoint{X: u.IdealX, StackOffset: u.StackOffset, State: glyph.Folded}
		}
	}
	t.settle()
}

// adopt installs a grouping result, resizing every unit for the new batch.
func (t *Track) adopt(res group.Result) {
	t.units = res.Units
	t.mode = res.Mode
	t.dropped = res.Dropped
	t.byKey = lo.KeyBy(t.units, func(u *glyph.Unit) string { return u.Key })
	t.radii = glyph.NewRadiusScale(res.MaxCount, glyph.UnitArea(t.cfg.MinDiameter), t.cfg.Measurer)
	t.stack = scale.NewLinear(1, float64(res.MaxCount), t.cfg.BaselineOffset, t.cfg.MaxStemLength)
	t.cfg.sizing().SizeAll(t.units, t.radii)
	for _, u := range t.units {
		t.fold(u)
	}
}

// FoldOffset returns the stack offset of a folded unit with count items.
// Counts outside [1, MaxCount] take the nearest end of the stem.
func (t *Track) FoldOffset(count int) float64 { return t.stack.Clamp(float64(count)) }

func (t *Track) fold(u *glyph.Unit) {
	u.State = glyph.Folded
	u.CurrentX = u.IdealX
	u.StackOffset = t.FoldOffset(u.Count)
	u.RecordOffset()
}

func (t *Track) unfold(u *glyph.Unit) {
	u.State = glyph.Unfolded
	u.StackOffset = t.cfg.StemLength
}

func (t *Track) snapshot() {
	for _, u := range t.units {
		u.Snapshot()
	}
}

func (t *Track) inView(u *glyph.Unit) bool { return t.cfg.Viewport.Contains(u.IdealX) }

// unfolded returns the unfolded units in IdealX order.
func (t *Track) unfolded() []*glyph.Unit {
	return lo.Filter(t.units, func(u *glyph.Unit, _ int) bool { return u.State == glyph.Unfolded })
}

// Settle recomputes the folded/unfolded partition from scratch.
func (t *Track) Settle() {
	t.snapshot()
	t.settle()
}

func (t *Track) settle() {
	vp := t.cfg.Viewport
	inView := lo.Filter(t.units, func(u *glyph.Unit, _ int) bool { return t.inView(u) })
	for _, u := range t.units {
		t.fold(u)
	}

	total := lo.SumBy(inView, func(u *glyph.Unit) float64 { return u.SettleWidth() })
	if total <= vp.Width() {
		for _, u := range inView {
			t.unfold(u)
		}
	} else {
		ranked := slices.Clone(inView)
		slices.SortStableFunc(ranked, func(a, b *glyph.Unit) int {
			if c := cmp.Compare(b.Count, a.Count); c != 0 {
				return c
			}
			if c := cmp.Compare(len(b.Groups), len(a.Groups)); c != 0 {
				return c
			}
			return cmp.Compare(vp.Distance(a.IdealX), vp.Distance(b.IdealX))
		})
		limit := t.cfg.FitFraction * vp.Width()
		var used float64
		for _, u := range ranked {
			w := u.SettleWidth()
			if used+w > limit {
				break
			}
			used += w
			t.unfold(u)
		}
	}

	// Units crowded against the right edge can still be pushed past it.
	// Fold those and pack the rest again until the row fits.
	for {
		set := t.unfolded()
		over := pack.Pack(set, vp)
		if over <= 0 {
			t.overflow = 0
			return
		}
		folded := 0
		for _, u := range set {
			if u.Right() > vp.Right {
				t.fold(u)
				folded++
			}
		}
		if folded == 0 {
			t.overflow = over
			return
		}
	}
}

// Unfold unfolds the unit with key and repacks every unfolded unit from its
// current position. Neighbours may be pushed right; an overflow past the
// viewport is accepted and reported by [Track.Stats].
func (t *Track) Unfold(key string) error {
	u, ok := t.byKey[key]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "no unit %q", key)
	}
	if u.State == glyph.Unfolded {
		return nil
	}
	t.snapshot()
	t.unfold(u)
	t.overflow = pack.Repack(t.unfolded(), t.cfg.Viewport)
	return nil
}

// Fold folds the unit with key. Other units do not move; the gap it leaves
// is closed by the next [Track.Settle].
func (t *Track) Fold(key string) error {
	u, ok := t.byKey[key]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "no unit %q", key)
	}
	if u.State == glyph.Folded {
		return nil
	}
	t.snapshot()
	t.fold(u)
	set := t.unfolded()
	if len(set) == 0 {
		t.overflow = 0
	} else {
		t.overflow = max(0, set[len(set)-1].Right()-t.cfg.Viewport.Right)
	}
	return nil
}

// Toggle flips the state of the unit with key.
func (t *Track) Toggle(key string) error {
	u, ok := t.byKey[key]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "no unit %q", key)
	}
	if u.State == glyph.Unfolded {
		return t.Fold(key)
	}
	return t.Unfold(key)
}

// Apply updates the track for a view change. With a pan delta d, features
// are regrouped and matched to the previous units by key: a matched unit
// that is still in view keeps its state and continues from its old x moved
// by d, units that left the view fold, and unfolded units are repacked
// incrementally. Without a delta the track is reloaded.
func (t *Track) Apply(change ViewChange, features []feature.Feature, m feature.CoordMapper, resolution float64, tx *feature.Transcript) error {
	if err := change.Viewport.Validate(); err != nil {
		return err
	}
	if change.PanDeltaPx == nil {
		t.cfg.Viewport = change.Viewport
		return t.Load(features, m, resolution, tx)
	}
	d := *change.PanDeltaPx
	if err := errors.ValidateFinite("pan delta", d); err != nil {
		return err
	}

	res, err := t.grouper.Group(features, m, resolution, tx)
	if err != nil {
		return err
	}
	t.cfg.Viewport = change.Viewport
	prev := t.byKey
	t.adopt(res)

	for _, u := range t.units {
		old, ok := prev[u.Key]
		if !ok {
			u.Prev = u.Endpoint()
			continue
		}
		u.Prev = old.Endpoint()
		u.Prev.X += d
		if old.State == glyph.Unfolded && t.inView(u) {
			t.unfold(u)
			u.CurrentX = old.CurrentX + d
		}
	}
	t.overflow = pack.Repack(t.unfolded(), t.cfg.Viewport)
	return nil
}

// Placement is the layout of one unit handed to a renderer.
type Placement struct {
	Key         string         `json:"key"`
	Chr         string         `json:"chr"`
	Pos         int            `json:"pos"`
	Type        string         `json:"type,omitempty"`
	Label       string         `json:"label,omitempty"`
	X           float64        `json:"x"`
	IdealX      float64        `json:"ideal_x"`
	Radius      float64        `json:"radius"`
	CountFont   float64        `json:"count_font,omitempty"`
	StackOffset float64        `json:"stack_offset"`
	State       glyph.State    `json:"state"`
	Count       int            `json:"count"`
	Rotated     bool           `json:"rotated,omitempty"`
	Prev        glyph.Endpoint `json:"prev"`
}

// Placements returns one placement per unit in IdealX order.
func (t *Track) Placements() []Placement { return PlacementsOf(t.units) }

// PlacementsOf converts units to placements.
func PlacementsOf(units []*glyph.Unit) []Placement {
	return lo.Map(units, func(u *glyph.Unit, _ int) Placement {
		return Placement{
			Key:         u.Key,
			Chr:         u.Chr,
			Pos:         u.Pos,
			Type:        u.Type,
			Label:       u.Label,
			X:           u.CurrentX,
			IdealX:      u.IdealX,
			Radius:      u.Radius,
			CountFont:   u.CountFont,
			StackOffset: u.StackOffset,
			State:       u.State,
			Count:       u.Count,
			Rotated:     u.Rotated,
			Prev:        u.Prev,
		}
	})
}

// Stats summarizes the current layout.
type Stats struct {
	Units         int              `json:"units"`
	InView        int              `json:"in_view"`
	Unfolded      int              `json:"unfolded"`
	Folded        int              `json:"folded"`
	UnfoldedWidth float64          `json:"unfolded_width"`
	Displacement  float64          `json:"displacement"`
	Overflow      float64          `json:"overflow"`
	Mode          string           `json:"mode"`
	Dropped       errors.DropCount `json:"dropped"`
}

// Stats returns layout counters for the current batch.
func (t *Track) Stats() Stats {
	set := t.unfolded()
	return Stats{
		Units:         len(t.units),
		InView:        lo.CountBy(t.units, t.inView),
		Unfolded:      len(set),
		Folded:        len(t.units) - len(set),
		UnfoldedWidth: lo.SumBy(set, func(u *glyph.Unit) float64 { return u.Width() }),
		Displacement:  pack.Displacement(set),
		Overflow:      t.overflow,
		Mode:          t.mode.String(),
		Dropped:       t.dropped,
	}
}

// Verify checks the unfolded row for overlap and ordering.
func (t *Track) Verify() error { return pack.Verify(t.unfolded()) }
