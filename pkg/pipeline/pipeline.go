// Package pipeline wires grouping, sizing and placement into one call.
//
// A [Runner] takes a [Batch] (regions, an optional coding transcript and
// features) plus [Options] and produces a [Layout]:
//
//  1. Group: features are mapped onto the axis and merged into units
//  2. Place: units are sized and either folded/packed ("pack") or
//     relaxed against a log-scaled y axis ("force")
//  3. Export: every unit becomes a placement with its previous endpoint
//
// Layouts are memoized in a [cache.Cache] keyed by the batch and options.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(64), nil, logger)
//	opts, err := pipeline.LoadOptions("skewer.toml")
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Execute(ctx, batch, opts)
//
// For interactive use, [Runner.Session] returns a stateful track that can
// be panned and toggled.
package pipeline

import (
	"io"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/skewer/pkg/errors"
	"github.com/matzehuels/skewer/pkg/fold"
	"github.com/matzehuels/skewer/pkg/force"
	"github.com/matzehuels/skewer/pkg/glyph"
	"github.com/matzehuels/skewer/pkg/textmetrics"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// StrategyPack folds and packs units along the axis.
	StrategyPack = "pack"
	// StrategyForce relaxes units around a data-driven y position.
	StrategyForce = "force"

	// DefaultStrategy is the default placement strategy.
	DefaultStrategy = StrategyPack

	// FontApprox and FontGoRegular select the label measurer.
	FontApprox    = "approx"
	FontGoRegular = "goregular"
	DefaultFont   = FontApprox

	// DefaultCacheEntries bounds the in-memory layout cache.
	DefaultCacheEntries = 64
)

// YAxis places the force strategy's data values.
type YAxis struct {
	// Baseline is the offset of the smallest value from the axis.
	Baseline float64 `toml:"baseline" json:"baseline"`
	// Height is the span between the smallest and largest value.
	Height float64 `toml:"height" json:"height"`
}

// =============================================================================
// Options
// =============================================================================

// Options holds every tunable of a layout run. It can be read from TOML
// ([LoadOptions]) and is hashed into the layout cache key.
type Options struct {
	Strategy string `toml:"strategy" json:"strategy"`
	// Gap separates consecutive regions, in pixels.
	Gap float64 `toml:"gap" json:"gap"`
	// Pan shifts the view before layout, in pixels.
	Pan  float64 `toml:"pan" json:"pan"`
	Font string  `toml:"font" json:"font"`

	// Track.Viewport left empty spans the whole axis.
	Track fold.Config  `toml:"track" json:"track"`
	Force force.Config `toml:"force" json:"force"`
	YAxis YAxis        `toml:"y_axis" json:"y_axis"`

	CacheEntries int  `toml:"cache_entries" json:"-"`
	Refresh      bool `toml:"-" json:"-"` // bypass the cache

	validated bool
}

// DefaultOptions returns options with every default applied.
func DefaultOptions() Options {
	o := Options{Track: fold.DefaultConfig(0)}
	o.SetDefaults()
	return o
}

// LoadOptions reads a TOML file over [DefaultOptions]. Unknown keys are an
// INVALID_CONFIG error.
func LoadOptions(path string) (Options, error) {
	o := DefaultOptions()
	md, err := toml.DecodeFile(path, &o)
	if err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Options{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	return o, nil
}

// WriteTOML writes the options as TOML.
func (o Options) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(o)
}

// SetDefaults fills zero values.
func (o *Options) SetDefaults() {
	if o.Strategy == "" {
		o.Strategy = DefaultStrategy
	}
	if o.Font == "" {
		o.Font = DefaultFont
	}
	if o.CacheEntries == 0 {
		o.CacheEntries = DefaultCacheEntries
	}
	if o.YAxis.Baseline == 0 {
		o.YAxis.Baseline = fold.DefaultBaselineOffset
	}
	if o.YAxis.Height == 0 {
		o.YAxis.Height = fold.DefaultStemLength
	}
	o.Track.SetDefaults()
	o.Force.SetDefaults()
}

// Validate checks every section.
func (o *Options) Validate() error {
	if err := errors.ValidateStrategy(o.Strategy, StrategyPack, StrategyForce); err != nil {
		return err
	}
	if err := errors.ValidateStrategy(o.Font, FontApprox, FontGoRegular); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "font")
	}
	if o.Gap < 0 || o.CacheEntries < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "gap and cache_entries must not be negative")
	}
	if err := errors.ValidateFinite("pan", o.Pan); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "pan")
	}
	if o.YAxis.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "y_axis.height must be positive, got %v", o.YAxis.Height)
	}
	track := o.Track
	if track.Viewport == (glyph.Viewport{}) {
		track.Viewport = glyph.NewViewport(1)
	}
	if err := track.Validate(); err != nil {
		return err
	}
	return o.Force.Validate()
}

// ValidateAndSetDefaults applies defaults and validates. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// measurer returns the label measurer selected by Font and a release func.
func (o *Options) measurer() (textmetrics.Measurer, func(), error) {
	if o.Font != FontGoRegular {
		return textmetrics.Approx{}, func() {}, nil
	}
	m, err := textmetrics.NewFontMeasurer(nil)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "load font")
	}
	return m, func() { _ = m.Close() }, nil
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a run.
type Result struct {
	Layout    Layout
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timings.
type Stats struct {
	GroupTime  time.Duration
	LayoutTime time.Duration
}

// CacheInfo records whether the layout came from the cache.
type CacheInfo struct {
	LayoutHit bool
	Key       string
}
