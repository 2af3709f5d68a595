// Package textmetrics measures label widths for glyph sizing.
//
// Layout code never draws text; it only needs to know how wide a label will
// be at a given font size so that unrotated labels reserve horizontal room
// and occurrence counts fit inside their discs. Two measurers are provided:
//
//   - [Approx]: a character-count heuristic with no font dependency
//   - [FontMeasurer]: real advances from an OpenType face (Go Regular by default)
//
// A renderer with access to the actual display font can supply its own
// [Measurer], typically via [Func].
package textmetrics

import "unicode/utf8"

const (
	// DefaultCharWidth is the average glyph advance as a fraction of the font size.
	DefaultCharWidth = 0.55

	// FontSizeMin and FontSizeMax bound derived font sizes.
	FontSizeMin = 8.0
	FontSizeMax = 24.0
)

// Measurer returns the rendered width in pixels of text at fontSize.
type Measurer interface {
	Measure(text string, fontSize float64) float64
}

// Func adapts a plain function to Measurer.
type Func func(text string, fontSize float64) float64

// Measure calls f.
func (f Func) Measure(text string, fontSize float64) float64 { return f(text, fontSize) }

// Approx estimates width as rune count × CharWidth × fontSize.
type Approx struct {
	CharWidth float64 // fraction of font size per rune; DefaultCharWidth when zero
}

// Measure implements Measurer.
func (a Approx) Measure(text string, fontSize float64) float64 {
	cw := a.CharWidth
	if cw == 0 {
		cw = DefaultCharWidth
	}
	return float64(utf8.RuneCountInString(text)) * cw * fontSize
}

// ClampFontSize bounds size to [FontSizeMin, FontSizeMax].
func ClampFontSize(size float64) float64 {
	return max(FontSizeMin, min(FontSizeMax, size))
}
