package textmetrics

import (
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontMeasurer measures text with an OpenType font. Faces are created lazily
// per font size and cached; the measurer is safe for concurrent use.
type FontMeasurer struct {
	font *opentype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

// NewFontMeasurer parses ttf (an OpenType/TrueType file). A nil ttf selects
// the embedded Go Regular font.
func NewFontMeasurer(ttf []byte) (*FontMeasurer, error) {
	if ttf == nil {
		ttf = goregular.TTF
	}
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return &FontMeasurer{font: f, faces: make(map[float64]font.Face)}, nil
}

// Measure implements Measurer. Sizes are rounded to a quarter point so the
// face cache stays small; an unusable size falls back to Approx.
func (m *FontMeasurer) Measure(text string, fontSize float64) float64 {
	if text == "" || fontSize <= 0 {
		return 0
	}
	face, err := m.face(math.Round(fontSize*4) / 4)
	if err != nil {
		return Approx{}.Measure(text, fontSize)
	}
	adv := font.MeasureString(face, text)
	return float64(adv) / 64
}

func (m *FontMeasurer) face(size float64) (font.Face, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(m.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	m.faces[size] = f
	return f, nil
}

// Close releases cached faces.
func (m *FontMeasurer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for size, f := range m.faces {
		_ = f.Close()
		delete(m.faces, size)
	}
	return nil
}
