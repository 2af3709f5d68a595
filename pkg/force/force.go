// Package force places units whose vertical position carries data.
//
// When a track plots a value on its y axis (such as the read count of a
// splice junction), packing discs along a row would destroy that value.
// [Placer] instead runs a short velocity-Verlet relaxation: every unit is
// pulled weakly towards its ideal x and strongly towards its data y, and
// overlapping discs push each other apart. When the discs together are
// wider than the viewport the collision strength is scaled down so dense
// regions compress instead of fighting the pull forces.
//
// The simulation is deterministic. Units that start on the same spot are
// separated by their order in the input, never by random jitter.
package force

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/skewer/pkg/errors"
	"github.com/matzehuels/skewer/pkg/glyph"
	"github.com/matzehuels/skewer/pkg/scale"
)

// Config holds simulation parameters. The defaults cool alpha from 1 to
// AlphaMin in MaxIterations ticks.
type Config struct {
	XStrength     float64 `toml:"x_strength" json:"x_strength"`
	YStrength     float64 `toml:"y_strength" json:"y_strength"`
	Margin        float64 `toml:"margin" json:"margin"`
	AlphaMin      float64 `toml:"alpha_min" json:"alpha_min"`
	AlphaDecay    float64 `toml:"alpha_decay" json:"alpha_decay"`
	VelocityDecay float64 `toml:"velocity_decay" json:"velocity_decay"`
	MaxIterations int     `toml:"max_iterations" json:"max_iterations"`
}

// DefaultConfig returns the default parameters.
func DefaultConfig() Config {
	c := Config{}
	c.SetDefaults()
	return c
}

// SetDefaults fills zero values.
func (c *Config) SetDefaults() {
	if c.XStrength == 0 {
		c.XStrength = 0.1
	}
	if c.YStrength == 0 {
		c.YStrength = 1
	}
	if c.Margin == 0 {
		c.Margin = 2
	}
	if c.AlphaMin == 0 {
		c.AlphaMin = 0.001
	}
	if c.MaxIterations == 0 {
		c.MaxIterations = 300
	}
	if c.AlphaDecay == 0 {
		c.AlphaDecay = 1 - math.Pow(c.AlphaMin, 1/float64(c.MaxIterations))
	}
	if c.VelocityDecay == 0 {
		c.VelocityDecay = 0.4
	}
}

// Validate checks parameter ranges.
func (c Config) Validate() error {
	if c.XStrength < 0 || c.YStrength < 0 || c.Margin < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "force strengths and margin must not be negative")
	}
	if c.AlphaMin <= 0 || c.AlphaMin >= 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "alpha_min must be in (0, 1), got %v", c.AlphaMin)
	}
	if c.AlphaDecay <= 0 || c.AlphaDecay >= 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "alpha_decay must be in (0, 1), got %v", c.AlphaDecay)
	}
	if c.VelocityDecay < 0 || c.VelocityDecay >= 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "velocity_decay must be in [0, 1), got %v", c.VelocityDecay)
	}
	if c.MaxIterations <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_iterations must be positive, got %d", c.MaxIterations)
	}
	return nil
}

// Result describes a finished simulation.
type Result struct {
	Iterations int `json:"iterations"`
	// Converged is true when alpha fell below AlphaMin before the
	// iteration bound.
	Converged       bool    `json:"converged"`
	CollideStrength float64 `json:"collide_strength"`
	Alpha           float64 `json:"alpha"`
}

// Placer runs the simulation.
type Placer struct {
	cfg Config
}

// New returns a placer with zero fields of cfg defaulted.
func New(cfg Config) (*Placer, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Placer{cfg: cfg}, nil
}

// Config returns the effective configuration.
func (p *Placer) Config() Config { return p.cfg }

type node struct {
	pos, vel r2.Vec
	target   r2.Vec
	r        float64
}

// jitter separates coincident nodes.
const jitter = 1e-6

// Place moves units towards (IdealX, y.Map(Magnitude)) and writes CurrentX,
// Y and XOffset. The result after the iteration bound is used as is.
func (p *Placer) Place(units []*glyph.Unit, vp glyph.Viewport, y scale.Scale) Result {
	cfg := p.cfg
	nodes := make([]node, len(units))
	var discs float64
	for i, u := range units {
		t := r2.Vec{X: u.IdealX, Y: y.Map(u.Magnitude)}
		nodes[i] = node{pos: t, target: t, r: u.Radius + cfg.Margin}
		discs += 2 * nodes[i].r
	}
	res := Result{CollideStrength: 1, Alpha: 1}
	if discs > vp.Width() && discs > 0 {
		res.CollideStrength = vp.Width() / discs
	}

	for res.Iterations < cfg.MaxIterations && res.Alpha >= cfg.AlphaMin {
		res.Alpha += -res.Alpha * cfg.AlphaDecay
		res.Iterations++
		tick(nodes, cfg, res.Alpha, res.CollideStrength)
	}
	res.Converged = res.Alpha < cfg.AlphaMin

	for i, u := range units {
		u.CurrentX = nodes[i].pos.X
		u.Y = nodes[i].pos.Y
		u.RecordOffset()
	}
	return res
}

func tick(nodes []node, cfg Config, alpha, collide float64) {
	for i := range nodes {
		n := &nodes[i]
		d := r2.Sub(n.target, n.pos)
		n.vel.X += d.X * cfg.XStrength * alpha
		n.vel.Y += d.Y * cfg.YStrength * alpha
	}
	separate(nodes, collide)
	for i := range nodes {
		n := &nodes[i]
		n.vel = r2.Scale(1-cfg.VelocityDecay, n.vel)
		n.pos = r2.Add(n.pos, n.vel)
	}
}

// separate resolves overlaps using the positions the nodes are about to
// reach, sharing each correction by the squared radii.
func separate(nodes []node, strength float64) {
	for i := range nodes {
		a := &nodes[i]
		for j := i + 1; j < len(nodes); j++ {
			b := &nodes[j]
			rr := a.r + b.r
			d := r2.Sub(r2.Add(a.pos, a.vel), r2.Add(b.pos, b.vel))
			l := r2.Norm(d)
			if l >= rr {
				continue
			}
			if l == 0 {
				// a comes first, so it yields to the left
				d = r2.Vec{X: -jitter * float64(j-i)}
				l = r2.Norm(d)
			}
			k := (rr - l) / l * strength
			d = r2.Scale(k, d)
			ra, rb := a.r*a.r, b.r*b.r
			w := rb / (ra + rb)
			a.vel = r2.Add(a.vel, r2.Scale(w, d))
			b.vel = r2.Sub(b.vel, r2.Scale(1-w, d))
		}
	}
}

// Overlaps counts pairs of units whose discs, grown by margin, intersect by
// more than tol pixels.
func Overlaps(units []*glyph.Unit, margin, tol float64) int {
	n := 0
	for i, a := range units {
		for _, b := range units[i+1:] {
			d := r2.Norm(r2.Sub(r2.Vec{X: a.CurrentX, Y: a.Y}, r2.Vec{X: b.CurrentX, Y: b.Y}))
			if d < a.Radius+b.Radius+2*margin-tol {
				n++
			}
		}
	}
	return n
}
