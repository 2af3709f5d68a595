package feature

import (
	"cmp"
	"slices"

	"github.com/biogo/store/interval"

	"github.com/matzehuels/skewer/pkg/errors"
)

// Exon is a coding segment in genomic coordinates, 0-based half-open.
type Exon struct {
	Start int `json:"start"`
	Stop  int `json:"stop"`
}

// Len returns the segment length in bases.
func (e Exon) Len() int { return e.Stop - e.Start }

// Transcript holds the coding exons of one isoform.
type Transcript struct {
	ID     string `json:"id"`
	Chr    string `json:"chr"`
	Strand string `json:"strand"` // "+" or "-"
	CDS    []Exon `json:"cds"`

	indexed  bool
	indexErr error
	// exons is CDS sorted by start; CDS itself is left as given.
	exons []Exon
	tree  *interval.IntTree
	// offsets[i] is the number of coding bases transcribed before exons[i].
	offsets []int
	codons  int
}

// cdsSegment is the interval tree element for one exon.
type cdsSegment struct {
	idx  int
	exon Exon
}

func (s cdsSegment) ID() uintptr { return uintptr(s.idx) }
func (s cdsSegment) Range() interval.IntRange {
	return interval.IntRange{Start: s.exon.Start, End: s.exon.Stop}
}
func (s cdsSegment) Overlap(b interval.IntRange) bool {
	return b.Start < s.exon.Stop && s.exon.Start < b.End
}

// point is a single-base tree query.
type point int

func (p point) Overlap(b interval.IntRange) bool {
	return b.Start <= int(p) && int(p) < b.End
}

// Index validates the exons and builds the lookup tree. Codon calls it on
// first use; the outcome is kept, so a transcript that fails to index never
// maps a coordinate.
func (t *Transcript) Index() error {
	t.indexErr = t.index()
	t.indexed = true
	return t.indexErr
}

func (t *Transcript) index() error {
	t.exons, t.tree, t.offsets, t.codons = nil, nil, nil, 0
	if t.Strand != "+" && t.Strand != "-" {
		return errors.New(errors.ErrCodeInvalidInput, "transcript %s: strand must be + or -, got %q", t.ID, t.Strand)
	}
	exons := slices.Clone(t.CDS)
	slices.SortStableFunc(exons, func(a, b Exon) int { return cmp.Compare(a.Start, b.Start) })
	for i, e := range exons {
		if e.Len() <= 0 {
			return errors.New(errors.ErrCodeInvalidInput, "transcript %s: empty CDS segment [%d, %d)", t.ID, e.Start, e.Stop)
		}
		if i > 0 && e.Start < exons[i-1].Stop {
			return errors.New(errors.ErrCodeInvalidInput, "transcript %s: overlapping CDS segments", t.ID)
		}
	}

	offsets := make([]int, len(exons))
	acc := 0
	if t.Strand == "+" {
		for i, e := range exons {
			offsets[i] = acc
			acc += e.Len()
		}
	} else {
		for i := len(exons) - 1; i >= 0; i-- {
			offsets[i] = acc
			acc += exons[i].Len()
		}
	}

	var tree interval.IntTree
	for i, e := range exons {
		if err := tree.Insert(cdsSegment{idx: i, exon: e}, true); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "transcript %s: index CDS", t.ID)
		}
	}
	tree.AdjustRanges()

	t.exons, t.tree, t.offsets = exons, &tree, offsets
	t.codons = t.CodingLen() / 3
	return nil
}

// CodingLen returns the number of coding bases.
func (t *Transcript) CodingLen() int {
	n := 0
	for _, e := range t.CDS {
		n += e.Len()
	}
	return n
}

// Codon returns the 0-based amino-acid index of a genomic coordinate, or
// ok=false when the coordinate is not coding in this transcript. Bases of a
// trailing partial codon are not coding.
func (t *Transcript) Codon(chr string, pos int) (aa int, ok bool) {
	if t == nil || chr != t.Chr {
		return 0, false
	}
	if !t.indexed {
		_ = t.Index()
	}
	if t.indexErr != nil {
		return 0, false
	}
	hits := t.tree.Get(point(pos))
	if len(hits) == 0 {
		return 0, false
	}
	seg := hits[0].(cdsSegment)
	var within int
	if t.Strand == "+" {
		within = pos - seg.exon.Start
	} else {
		within = seg.exon.Stop - 1 - pos
	}
	aa = (t.offsets[seg.idx] + within) / 3
	if aa >= t.codons {
		return 0, false
	}
	return aa, true
}
