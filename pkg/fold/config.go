package fold

import (
	"github.com/matzehuels/skewer/pkg/errors"
	"github.com/matzehuels/skewer/pkg/glyph"
	"github.com/matzehuels/skewer/pkg/group"
	"github.com/matzehuels/skewer/pkg/textmetrics"
)

// Defaults for [Config].
const (
	DefaultMinDiameter    = 12.0
	DefaultRim            = 2.0
	DefaultLabelGap       = 3.0
	DefaultLabelFontSize  = 12.0
	DefaultFitFraction    = 0.8
	DefaultBaselineOffset = 8.0
	DefaultMaxStemLength  = 60.0
	DefaultStemLength     = 80.0
)

// Config holds the sizing and folding parameters of a track.
type Config struct {
	Group    group.Config   `toml:"group" json:"group"`
	Viewport glyph.Viewport `toml:"viewport" json:"viewport"`

	MinDiameter        float64 `toml:"min_diameter" json:"min_diameter"`
	Rim                float64 `toml:"rim" json:"rim"`
	LabelGap           float64 `toml:"label_gap" json:"label_gap"`
	LabelFontSize      float64 `toml:"label_font_size" json:"label_font_size"`
	RotateSingleLabels bool    `toml:"rotate_single_labels" json:"rotate_single_labels"`

	// FitFraction is the share of the viewport the automatic selection may
	// fill when not every unit fits.
	FitFraction float64 `toml:"fit_fraction" json:"fit_fraction"`

	// Folded units stack between BaselineOffset (count 1) and
	// MaxStemLength (largest count). Unfolded units sit at StemLength.
	BaselineOffset float64 `toml:"baseline_offset" json:"baseline_offset"`
	MaxStemLength  float64 `toml:"max_stem_length" json:"max_stem_length"`
	StemLength     float64 `toml:"stem_length" json:"stem_length"`

	// Measurer measures labels. Nil means textmetrics.Approx.
	Measurer textmetrics.Measurer `toml:"-" json:"-"`
}

// DefaultConfig returns the default configuration for a track of the given
// pixel width.
func DefaultConfig(width float64) Config {
	c := Config{Viewport: glyph.NewViewport(width), RotateSingleLabels: true}
	c.SetDefaults()
	return c
}

// SetDefaults fills zero values. RotateSingleLabels is left alone.
func (c *Config) SetDefaults() {
	c.Group.SetDefaults()
	if c.MinDiameter == 0 {
		c.MinDiameter = DefaultMinDiameter
	}
	if c.Rim == 0 {
		c.Rim = DefaultRim
	}
	if c.LabelGap == 0 {
		c.LabelGap = DefaultLabelGap
	}
	if c.LabelFontSize == 0 {
		c.LabelFontSize = DefaultLabelFontSize
	}
	if c.FitFraction == 0 {
		c.FitFraction = DefaultFitFraction
	}
	if c.BaselineOffset == 0 {
		c.BaselineOffset = DefaultBaselineOffset
	}
	if c.MaxStemLength == 0 {
		c.MaxStemLength = DefaultMaxStemLength
	}
	if c.StemLength == 0 {
		c.StemLength = DefaultStemLength
	}
	if c.Measurer == nil {
		c.Measurer = textmetrics.Approx{}
	}
}

// Validate checks ranges.
func (c Config) Validate() error {
	if err := c.Group.Validate(); err != nil {
		return err
	}
	if err := c.Viewport.Validate(); err != nil {
		return err
	}
	if c.MinDiameter <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "min_diameter must be positive, got %v", c.MinDiameter)
	}
	if c.Rim < 0 || c.LabelGap < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "rim and label_gap must not be negative")
	}
	if c.FitFraction <= 0 || c.FitFraction > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "fit_fraction must be in (0, 1], got %v", c.FitFraction)
	}
	if c.MaxStemLength < c.BaselineOffset {
		return errors.New(errors.ErrCodeInvalidConfig, "max_stem_length (%v) is below baseline_offset (%v)", c.MaxStemLength, c.BaselineOffset)
	}
	return nil
}

func (c Config) sizing() glyph.Sizing {
	return glyph.Sizing{
		Rim:                c.Rim,
		LabelGap:           c.LabelGap,
		LabelFontSize:      c.LabelFontSize,
		RotateSingleLabels: c.RotateSingleLabels,
		Measurer:           c.Measurer,
	}
}
