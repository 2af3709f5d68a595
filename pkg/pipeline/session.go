package pipeline

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skewer/pkg/axis"
	"github.com/matzehuels/skewer/pkg/fold"
	"github.com/matzehuels/skewer/pkg/glyph"
)

// Session is a stateful pack layout of one batch that can be panned,
// toggled and reset. It is not safe for concurrent use.
type Session struct {
	batch   *Batch
	view    *axis.View
	track   *fold.Track
	logger  *log.Logger
	release func()
}

// Session starts an interactive layout of b. Call Close when done.
func (r *Runner) Session(b *Batch, opts Options) (*Session, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	view, err := b.View(opts.Gap)
	if err != nil {
		return nil, err
	}
	view.Pan(opts.Pan)
	cfg := opts.Track
	if cfg.Viewport == (glyph.Viewport{}) {
		cfg.Viewport = glyph.NewViewport(view.Width())
	}
	m, release, err := opts.measurer()
	if err != nil {
		return nil, err
	}
	cfg.Measurer = m
	track, err := fold.New(cfg)
	if err != nil {
		release()
		return nil, err
	}
	s := &Session{batch: b, view: view, track: track, logger: r.Logger, release: release}
	if err := track.Load(b.Features, view, view.Resolution(), b.Transcript); err != nil {
		release()
		return nil, err
	}
	return s, nil
}

// Track returns the underlying fold state.
func (s *Session) Track() *fold.Track { return s.track }

// Offset returns the accumulated pan in pixels.
func (s *Session) Offset() float64 { return s.view.Offset }

// Locus returns the genomic span under the viewport, such as
// "chr1:120-980", or "" when the viewport shows no region.
func (s *Session) Locus() string {
	vp := s.track.Viewport()
	from, to, ok := s.view.Span(vp.Left, vp.Right)
	if !ok {
		return ""
	}
	if from.Chr == to.Chr {
		return fmt.Sprintf("%s-%d", from, to.Pos)
	}
	return fmt.Sprintf("%s-%s", from, to)
}

// Pan moves every feature dx pixels. Units that stay in view keep their
// state; the batch identity is kept.
func (s *Session) Pan(dx float64) error {
	view := s.view.Clone()
	view.Pan(dx)
	change := fold.Pan(s.track.Viewport(), dx)
	if err := s.track.Apply(change, s.batch.Features, view, view.Resolution(), s.batch.Transcript); err != nil {
		return err
	}
	s.view = view
	s.logger.Debug("panned", "dx", dx, "offset", view.Offset, "unfolded", s.track.Stats().Unfolded)
	return nil
}

// Toggle flips the unit with key between folded and unfolded.
func (s *Session) Toggle(key string) error {
	return s.track.Toggle(key)
}

// Settle discards manual toggles and recomputes the automatic selection.
func (s *Session) Settle() {
	s.track.Settle()
}

// Layout exports the current state.
func (s *Session) Layout() Layout {
	stats := s.track.Stats()
	return Layout{
		Batch:      s.track.Batch().String(),
		Strategy:   StrategyPack,
		Viewport:   s.track.Viewport(),
		Resolution: s.view.Resolution(),
		Units:      s.track.Placements(),
		Stats:      stats,
		Message:    stats.Dropped.Message(),
	}
}

// Close releases the label measurer.
func (s *Session) Close() error {
	s.release()
	return nil
}
