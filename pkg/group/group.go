// Package group merges raw features into displayable units.
//
// The grouping key depends on how many pixels one base occupies:
//
//   - at or above MinBPWidth, features sharing chromosome, position, type
//     and label become one unit ([Exact])
//   - below it, features whose coordinates fall into the same BinPx-wide
//     pixel bin merge, and the unit sits at the mean x of its members ([Bin])
//   - below it and on a coding transcript, features group by amino acid and
//     neighbouring amino-acid clusters closer than CodonTolerance bases'
//     worth of pixels merge ([Codon])
//
// Bin keys are derived from the genomic coordinate, not the pixel x, so a
// pure pan keeps every unit's key.
package group

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/matzehuels/skewer/pkg/errors"
	"github.com/matzehuels/skewer/pkg/feature"
	"github.com/matzehuels/skewer/pkg/glyph"
)

// Mode is the grouping key in effect for a unit.
type Mode int

const (
	Exact Mode = iota
	Codon
	Bin
)

func (m Mode) String() string {
	switch m {
	case Exact:
		return "exact"
	case Codon:
		return "codon"
	default:
		return "bin"
	}
}

// Result is the output of [Grouper.Group].
type Result struct {
	Units   []*glyph.Unit // sorted by IdealX
	Mode    Mode          // Exact, or Bin for coarse views (Codon units may be mixed in)
	Dropped errors.DropCount
	// MaxCount is the largest unit count, at least 1.
	MaxCount int
}

// Grouper groups features. The zero value uses [DefaultConfig].
type Grouper struct {
	cfg Config
}

// New returns a grouper using cfg, with zero fields defaulted.
func New(cfg Config) *Grouper {
	cfg.SetDefaults()
	return &Grouper{cfg: cfg}
}

// Config returns the effective configuration.
func (g *Grouper) Config() Config {
	if g.cfg.MinBPWidth == 0 {
		return DefaultConfig()
	}
	return g.cfg
}

type bucket struct {
	key     string
	mode    Mode
	aa      int
	anchor  feature.Position
	sumX    float64
	firstX  float64
	members []int
	count   int
	mag     float64
	groups  []string
	weights map[[2]string]int // (type, label) → weight
	order   [][2]string
}

func (b *bucket) add(i int, f feature.Feature, x float64) {
	if len(b.members) == 0 {
		b.firstX = x
		b.weights = make(map[[2]string]int)
	}
	b.members = append(b.members, i)
	b.sumX += x
	b.count += f.Occurrences()
	b.mag += f.Magnitude
	b.groups = append(b.groups, f.Group())
	tl := [2]string{f.Type, f.Label}
	if _, ok := b.weights[tl]; !ok {
		b.order = append(b.order, tl)
	}
	b.weights[tl] += f.Occurrences()
}

func (b *bucket) merge(o *bucket) {
	b.members = append(b.members, o.members...)
	b.sumX += o.sumX
	b.count += o.count
	b.mag += o.mag
	b.groups = append(b.groups, o.groups...)
	for _, tl := range o.order {
		if _, ok := b.weights[tl]; !ok {
			b.order = append(b.order, tl)
		}
		b.weights[tl] += o.weights[tl]
	}
}

func (b *bucket) x() float64 {
	if b.mode == Exact {
		return b.firstX
	}
	return b.sumX / float64(len(b.members))
}

func (b *bucket) unit() *glyph.Unit {
	// heaviest (type, label); ties go to the first seen
	top := b.order[0]
	for _, tl := range b.order[1:] {
		if b.weights[tl] > b.weights[top] {
			top = tl
		}
	}
	x := b.x()
	return &glyph.Unit{
		Key:       b.key,
		Chr:       b.anchor.Chr,
		Pos:       b.anchor.Pos,
		Type:      top[0],
		Label:     top[1],
		IdealX:    x,
		CurrentX:  x,
		Count:     b.count,
		Groups:    lo.Uniq(b.groups),
		Magnitude: b.mag,
		Members:   b.members,
	}
}

// Group maps features through m and merges them into units. resolution is
// the view's pixels per base; tx may be nil. Malformed and unmappable
// features are dropped and counted, or abort the call when the grouper is
// strict.
func (g *Grouper) Group(features []feature.Feature, m feature.CoordMapper, resolution float64, tx *feature.Transcript) (Result, error) {
	cfg := g.Config()
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if err := errors.ValidateFinite("resolution", resolution); err != nil || resolution <= 0 {
		return Result{}, errors.New(errors.ErrCodeInvalidInput, "resolution must be positive and finite, got %v", resolution)
	}

	mode := Exact
	if resolution < cfg.MinBPWidth {
		mode = Bin
	}

	var res Result
	res.Mode = mode
	index := make(map[string]*bucket)
	var buckets []*bucket

	for i, f := range features {
		if err := f.Validate(); err != nil {
			if cfg.Strict {
				return Result{}, errors.Wrap(errors.ErrCodeInvalidFeature, err, "feature %d", i)
			}
			res.Dropped.Invalid++
			continue
		}
		hit, anchor, ok := feature.Locate(m, f)
		if !ok {
			if cfg.Strict {
				return Result{}, errors.New(errors.ErrCodeUnmapped, "feature %d at %s does not map to the view", i, f.Anchor())
			}
			res.Dropped.Unmapped++
			continue
		}
		if math.IsNaN(hit.X) || math.IsInf(hit.X, 0) {
			if cfg.Strict {
				return Result{}, errors.New(errors.ErrCodeInvalidFeature, "feature %d at %s maps to x=%v", i, anchor, hit.X)
			}
			res.Dropped.Invalid++
			continue
		}

		key, km, aa := g.key(cfg, mode, f, anchor, resolution, tx)
		b, ok := index[key]
		if !ok {
			b = &bucket{key: key, mode: km, aa: aa, anchor: anchor}
			index[key] = b
			buckets = append(buckets, b)
		}
		b.add(i, f, hit.X)
	}

	slices.SortStableFunc(buckets, func(a, b *bucket) int { return cmp.Compare(a.x(), b.x()) })
	if mode == Bin {
		buckets = mergeCodons(buckets, cfg.CodonTolerance*resolution)
	}

	res.Units = lo.Map(buckets, func(b *bucket, _ int) *glyph.Unit { return b.unit() })
	res.MaxCount = 1
	for _, u := range res.Units {
		res.MaxCount = max(res.MaxCount, u.Count)
	}
	return res, nil
}

// keyEscaper escapes the key separator inside key fields.
var keyEscaper = strings.NewReplacer(`\`, `\\`, ":", `\:`)

func (g *Grouper) key(cfg Config, mode Mode, f feature.Feature, at feature.Position, resolution float64, tx *feature.Transcript) (string, Mode, int) {
	if mode == Exact {
		return fmt.Sprintf("%s:%d:%s:%s", keyEscaper.Replace(at.Chr), at.Pos, keyEscaper.Replace(f.Type), keyEscaper.Replace(f.Label)), Exact, 0
	}
	if aa, ok := tx.Codon(at.Chr, at.Pos); ok {
		return fmt.Sprintf("aa:%s:%d", tx.ID, aa), Codon, aa
	}
	bin := int(math.Floor(float64(at.Pos) * resolution / cfg.BinPx))
	return fmt.Sprintf("bin:%s:%d", keyEscaper.Replace(at.Chr), bin), Bin, 0
}

// mergeCodons folds each codon bucket into the preceding codon bucket when
// their x positions are within tol. Distances are measured from the first
// bucket of a merged run so runs do not chain across a whole transcript.
func mergeCodons(sorted []*bucket, tol float64) []*bucket {
	out := sorted[:0:0]
	var head *bucket
	var headX float64
	for _, b := range sorted {
		if b.mode != Codon {
			head = nil
			out = append(out, b)
			continue
		}
		if head != nil && b.x()-headX <= tol {
			head.merge(b)
			continue
		}
		head, headX = b, b.x()
		out = append(out, b)
	}
	// merged runs moved to their new mean
	slices.SortStableFunc(out, func(a, b *bucket) int { return cmp.Compare(a.x(), b.x()) })
	return out
}
