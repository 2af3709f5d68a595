package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxChromLength bounds chromosome names; real assemblies stay well below it.
const maxChromLength = 256

// ValidateCoordinate validates a genomic coordinate.
//
// The rules are intentionally conservative:
//   - chromosome name is non-empty, at most 256 bytes, without control
//     characters or whitespace
//   - position is non-negative
func ValidateCoordinate(chr string, pos int) error {
	if chr == "" {
		return New(ErrCodeInvalidFeature, "chromosome cannot be empty")
	}
	if len(chr) > maxChromLength {
		return New(ErrCodeInvalidFeature, "chromosome name too long (max %d characters)", maxChromLength)
	}
	for _, r := range chr {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidFeature, "chromosome name contains invalid characters: %q", chr)
		}
	}
	if pos < 0 {
		return New(ErrCodeInvalidFeature, "position cannot be negative: %s:%d", chr, pos)
	}
	return nil
}

// ValidateWeight validates an occurrence weight. Zero is accepted and read
// as a single occurrence by callers.
func ValidateWeight(w int) error {
	if w < 0 {
		return New(ErrCodeInvalidFeature, "occurrence weight cannot be negative: %d", w)
	}
	return nil
}

// ValidateFinite rejects NaN and infinite values for the named quantity.
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s is not a finite number: %v", name, v)
	}
	return nil
}

// ValidateViewport validates the pixel bounds of a track.
func ValidateViewport(left, right float64) error {
	if err := ValidateFinite("viewport left", left); err != nil {
		return Wrap(ErrCodeInvalidViewport, err, "invalid viewport")
	}
	if err := ValidateFinite("viewport right", right); err != nil {
		return Wrap(ErrCodeInvalidViewport, err, "invalid viewport")
	}
	if right <= left {
		return New(ErrCodeInvalidViewport, "viewport must have positive width: [%v, %v]", left, right)
	}
	return nil
}

// ValidateStrategy validates a placement strategy name against the allowed set.
func ValidateStrategy(name string, allowed ...string) error {
	for _, a := range allowed {
		if name == a {
			return nil
		}
	}
	return New(ErrCodeInvalidStrategy, "invalid strategy: %q (must be one of: %s)", name, strings.Join(allowed, ", "))
}
