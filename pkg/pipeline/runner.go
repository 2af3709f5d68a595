package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/matzehuels/skewer/pkg/axis"
	"github.com/matzehuels/skewer/pkg/cache"
	"github.com/matzehuels/skewer/pkg/errors"
	"github.com/matzehuels/skewer/pkg/fold"
	"github.com/matzehuels/skewer/pkg/force"
	"github.com/matzehuels/skewer/pkg/glyph"
	"github.com/matzehuels/skewer/pkg/group"
	"github.com/matzehuels/skewer/pkg/observability"
	"github.com/matzehuels/skewer/pkg/pack"
	"github.com/matzehuels/skewer/pkg/scale"
)

// Runner executes layouts with caching.
//
// The Runner holds no layout state, only the cache and logger, so several
// goroutines can share one Runner with different options. Interactive
// state lives in a [Session].
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Close releases the cache.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// Execute lays out one batch. Layouts are looked up in and stored to the
// runner's cache unless opts.Refresh is set.
func (r *Runner) Execute(ctx context.Context, b *Batch, opts Options) (res *Result, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if b == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "batch is nil")
	}

	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, opts.Strategy, len(b.Features))
	start := time.Now()
	defer func() { hooks.OnLayoutComplete(ctx, opts.Strategy, time.Since(start), err) }()

	view, err := b.View(opts.Gap)
	if err != nil {
		return nil, err
	}
	view.Pan(opts.Pan)
	cfg := opts.Track
	if cfg.Viewport == (glyph.Viewport{}) {
		cfg.Viewport = glyph.NewViewport(view.Width())
	}

	key, err := r.layoutKey(b, opts, cfg.Viewport, view.Resolution())
	if err != nil {
		return nil, err
	}
	res = &Result{CacheInfo: CacheInfo{Key: key}}
	if !opts.Refresh {
		if l, ok := r.cached(ctx, key); ok {
			res.Layout = l
			res.CacheInfo.LayoutHit = true
			res.Stats.LayoutTime = time.Since(start)
			r.Logger.Debug("layout cache hit", "key", key)
			return res, nil
		}
	}

	m, release, err := opts.measurer()
	if err != nil {
		return nil, err
	}
	defer release()
	cfg.Measurer = m

	layout, err := r.compute(ctx, b, view, cfg, opts, &res.Stats)
	if err != nil {
		return nil, err
	}
	res.Layout = layout
	res.Stats.LayoutTime = time.Since(start)

	r.Logger.Info("computed layout",
		"strategy", opts.Strategy,
		"units", len(layout.Units),
		"unfolded", layout.Stats.Unfolded,
		"dropped", layout.Stats.Dropped.Total(),
		"duration", res.Stats.LayoutTime)
	if layout.Message != "" {
		r.Logger.Warn(layout.Message)
	}

	if !opts.Refresh {
		r.store(ctx, key, layout)
	}
	return res, nil
}

func (r *Runner) compute(ctx context.Context, b *Batch, view *axis.View, cfg fold.Config, opts Options, stats *Stats) (Layout, error) {
	groupStart := time.Now()
	grouped, err := group.New(cfg.Group).Group(b.Features, view, view.Resolution(), b.Transcript)
	if err != nil {
		return Layout{}, err
	}
	stats.GroupTime = time.Since(groupStart)
	observability.Layout().OnGroup(ctx, grouped.Mode.String(), len(grouped.Units), grouped.Dropped.Total(), stats.GroupTime)
	r.Logger.Debug("grouped features",
		"features", len(b.Features),
		"units", len(grouped.Units),
		"mode", grouped.Mode,
		"duration", stats.GroupTime)

	layout := Layout{
		Strategy:   opts.Strategy,
		Viewport:   cfg.Viewport,
		Resolution: view.Resolution(),
		Message:    grouped.Dropped.Message(),
	}
	switch opts.Strategy {
	case StrategyForce:
		err = layoutForce(ctx, &layout, grouped, cfg, opts)
	default:
		err = layoutPack(ctx, &layout, grouped, cfg)
	}
	if err != nil {
		return Layout{}, err
	}
	return layout, nil
}

// layoutPack folds, unfolds and packs the units on a fresh track.
func layoutPack(ctx context.Context, l *Layout, grouped group.Result, cfg fold.Config) error {
	track, err := fold.New(cfg)
	if err != nil {
		return err
	}
	start := time.Now()
	track.LoadGrouped(grouped)
	if err := track.Verify(); err != nil {
		return err
	}
	l.Batch = track.Batch().String()
	l.Units = track.Placements()
	l.Stats = track.Stats()
	observability.Layout().OnSettle(ctx, l.Stats.Unfolded, l.Stats.Folded, l.Stats.Overflow, time.Since(start))
	return nil
}

// layoutForce sizes every unit and relaxes it around its ideal x and a
// log-scaled height for its magnitude.
func layoutForce(ctx context.Context, l *Layout, grouped group.Result, cfg fold.Config, opts Options) error {
	placer, err := force.New(opts.Force)
	if err != nil {
		return err
	}
	units := grouped.Units
	radii := glyph.NewRadiusScale(grouped.MaxCount, glyph.UnitArea(cfg.MinDiameter), cfg.Measurer)
	glyph.Sizing{
		Rim:                cfg.Rim,
		LabelGap:           cfg.LabelGap,
		LabelFontSize:      cfg.LabelFontSize,
		RotateSingleLabels: cfg.RotateSingleLabels,
		Measurer:           cfg.Measurer,
	}.SizeAll(units, radii)

	maxMag := lo.Max(lo.Map(units, func(u *glyph.Unit, _ int) float64 { return u.Magnitude }))
	y := scale.NewLog(1, max(maxMag, 1), opts.YAxis.Baseline, opts.YAxis.Baseline+opts.YAxis.Height)

	start := time.Now()
	sim := placer.Place(units, cfg.Viewport, y)
	observability.Layout().OnSimulate(ctx, sim.Iterations, sim.Converged, time.Since(start))

	for _, u := range units {
		u.State = glyph.Unfolded
		u.StackOffset = u.Y
		u.Prev = glyph.Endpoint{X: u.IdealX, StackOffset: u.Y, State: glyph.Unfolded}
	}
	l.Batch = uuid.NewString()
	l.Units = fold.PlacementsOf(units)
	l.Simulation = &sim
	l.Stats = fold.Stats{
		Units:         len(units),
		InView:        lo.CountBy(units, func(u *glyph.Unit) bool { return cfg.Viewport.Contains(u.IdealX) }),
		Unfolded:      len(units),
		UnfoldedWidth: lo.SumBy(units, func(u *glyph.Unit) float64 { return u.Width() }),
		Displacement:  pack.Displacement(units),
		Mode:          grouped.Mode.String(),
		Dropped:       grouped.Dropped,
	}
	return nil
}

func (r *Runner) layoutKey(b *Batch, opts Options, vp glyph.Viewport, resolution float64) (string, error) {
	batchHash, err := b.Hash()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash batch")
	}
	optsHash, err := cache.HashJSON(opts)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash options")
	}
	return r.Keyer.LayoutKey(batchHash, cache.LayoutKeyOpts{
		Strategy:    opts.Strategy,
		Left:        vp.Left,
		Right:       vp.Right,
		Resolution:  resolution,
		OptionsHash: optsHash,
	}), nil
}

func (r *Runner) cached(ctx context.Context, key string) (Layout, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "layout")
		return Layout{}, false
	}
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		// Unreadable entries are recomputed and overwritten.
		observability.Cache().OnCacheMiss(ctx, "layout")
		return Layout{}, false
	}
	observability.Cache().OnCacheHit(ctx, "layout")
	return l, true
}

func (r *Runner) store(ctx context.Context, key string, l Layout) {
	data, err := json.Marshal(l)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
		r.Logger.Debug("cache set failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "layout", len(data))
}
