package pipeline

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/skewer/pkg/axis"
	"github.com/matzehuels/skewer/pkg/cache"
	"github.com/matzehuels/skewer/pkg/errors"
	"github.com/matzehuels/skewer/pkg/feature"
	"github.com/matzehuels/skewer/pkg/fold"
	"github.com/matzehuels/skewer/pkg/force"
	"github.com/matzehuels/skewer/pkg/glyph"
)

// Batch is one track's input: the displayed regions, an optional coding
// transcript for amino-acid grouping, and the features.
//
//	{
//	  "regions": [{"chr": "chr7", "start": 117559000, "stop": 117560000, "width": 800}],
//	  "features": [{"id": "rs1", "chr": "chr7", "pos": 117559590, "label": "F508del", "weight": 3}]
//	}
type Batch struct {
	Regions    []axis.Region       `json:"regions"`
	Transcript *feature.Transcript `json:"transcript,omitempty"`
	Features   []feature.Feature   `json:"features"`
}

// ReadBatch decodes a JSON batch and indexes its transcript.
func ReadBatch(r io.Reader) (*Batch, error) {
	var b Batch
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode batch")
	}
	if b.Transcript != nil {
		if err := b.Transcript.Index(); err != nil {
			return nil, err
		}
	}
	return &b, nil
}

// LoadBatch reads a JSON batch from path, or from stdin when path is "-".
func LoadBatch(path string) (*Batch, error) {
	if path == "-" {
		return ReadBatch(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open batch")
	}
	defer f.Close()
	return ReadBatch(f)
}

// View builds the axis for the batch's regions.
func (b *Batch) View(gap float64) (*axis.View, error) {
	return axis.New(b.Regions, gap)
}

// Hash identifies the batch content for caching.
func (b *Batch) Hash() (string, error) {
	return cache.HashJSON(b)
}

// Layout is the exported result of a run.
type Layout struct {
	Batch      string           `json:"batch"`
	Strategy   string           `json:"strategy"`
	Viewport   glyph.Viewport   `json:"viewport"`
	Resolution float64          `json:"resolution"`
	Units      []fold.Placement `json:"units"`
	Stats      fold.Stats       `json:"stats"`
	Simulation *force.Result    `json:"simulation,omitempty"`
	// Message is the user-facing note about dropped features, if any.
	Message string `json:"message,omitempty"`
}

// WriteJSON writes the layout as indented JSON.
func (l Layout) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(l)
}
