package group

import "github.com/matzehuels/skewer/pkg/errors"

// Defaults for [Config].
const (
	DefaultMinBPWidth     = 4.0
	DefaultBinPx          = 2.0
	DefaultCodonTolerance = 3.0
)

// Config tunes how features are merged into units.
type Config struct {
	// MinBPWidth is the pixels-per-base at or above which features group by
	// exact coordinate.
	MinBPWidth float64 `toml:"min_bp_width" json:"min_bp_width"`
	// BinPx is the bin width used below MinBPWidth.
	BinPx float64 `toml:"bin_px" json:"bin_px"`
	// CodonTolerance, times the resolution, is the pixel distance within
	// which neighbouring amino-acid clusters merge.
	CodonTolerance float64 `toml:"codon_tolerance" json:"codon_tolerance"`
	// Strict aborts on the first malformed or unmappable feature instead of
	// dropping it.
	Strict bool `toml:"strict" json:"strict"`
}

// DefaultConfig returns the default grouping configuration.
func DefaultConfig() Config {
	c := Config{}
	c.SetDefaults()
	return c
}

// SetDefaults fills zero values.
func (c *Config) SetDefaults() {
	if c.MinBPWidth == 0 {
		c.MinBPWidth = DefaultMinBPWidth
	}
	if c.BinPx == 0 {
		c.BinPx = DefaultBinPx
	}
	if c.CodonTolerance == 0 {
		c.CodonTolerance = DefaultCodonTolerance
	}
}

// Validate checks that thresholds are positive.
func (c Config) Validate() error {
	if c.MinBPWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "min_bp_width must be positive, got %v", c.MinBPWidth)
	}
	if c.BinPx <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "bin_px must be positive, got %v", c.BinPx)
	}
	if c.CodonTolerance < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "codon_tolerance must not be negative, got %v", c.CodonTolerance)
	}
	return nil
}
