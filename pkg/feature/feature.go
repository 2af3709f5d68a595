package feature

import (
	"fmt"

	"github.com/matzehuels/skewer/pkg/errors"
)

// Position is a genomic coordinate (0-based).
type Position struct {
	Chr string `json:"chr"`
	Pos int    `json:"pos"`
}

// String returns "chr:pos".
func (p Position) String() string { return fmt.Sprintf("%s:%d", p.Chr, p.Pos) }

// Feature is one raw genomic event.
type Feature struct {
	ID  string `json:"id,omitempty"`
	Chr string `json:"chr"`
	Pos int    `json:"pos"`

	// Partner is the second breakpoint of a structural variant or fusion.
	// It is used as the anchor when Pos does not map into the view.
	Partner *Position `json:"partner,omitempty"`

	Type  string `json:"type,omitempty"`  // class tag, e.g. "missense", "deletion"
	Label string `json:"label,omitempty"` // display name, e.g. "R273H"

	// GroupKey identifies the sub-group (cohort, sample set) the feature
	// belongs to. Empty means Type + ":" + Label.
	GroupKey string `json:"group,omitempty"`

	// Weight is the number of occurrences the feature stands for. Zero is
	// read as one.
	Weight int `json:"weight,omitempty"`

	// Magnitude is a data value plotted on a perpendicular axis, such as the
	// read count supporting a splice junction.
	Magnitude float64 `json:"magnitude,omitempty"`
}

// Anchor returns the primary position.
func (f Feature) Anchor() Position { return Position{Chr: f.Chr, Pos: f.Pos} }

// Occurrences returns the effective weight (at least one).
func (f Feature) Occurrences() int {
	if f.Weight < 1 {
		return 1
	}
	return f.Weight
}

// Group returns the effective sub-group key.
func (f Feature) Group() string {
	if f.GroupKey != "" {
		return f.GroupKey
	}
	return f.Type + ":" + f.Label
}

// Validate reports malformed coordinates or weights.
func (f Feature) Validate() error {
	if err := errors.ValidateCoordinate(f.Chr, f.Pos); err != nil {
		return err
	}
	if f.Partner != nil {
		if err := errors.ValidateCoordinate(f.Partner.Chr, f.Partner.Pos); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFeature, err, "invalid partner breakpoint")
		}
	}
	if err := errors.ValidateWeight(f.Weight); err != nil {
		return err
	}
	if err := errors.ValidateFinite("magnitude", f.Magnitude); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFeature, err, "invalid feature %s", f.Anchor())
	}
	return nil
}
