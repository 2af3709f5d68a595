package feature

import (
	"math"
	"testing"

	"github.com/matzehuels/skewer/pkg/errors"
)

func TestFeatureDefaults(t *testing.T) {
	f := Feature{Chr: "chr17", Pos: 100, Type: "missense", Label: "R175H"}
	if got := f.Occurrences(); got != 1 {
		t.Errorf("Occurrences() = %d, want 1", got)
	}
	if got := f.Group(); got != "missense:R175H" {
		t.Errorf("Group() = %q, want %q", got, "missense:R175H")
	}

	f.Weight = 7
	f.GroupKey = "BRCA"
	if got := f.Occurrences(); got != 7 {
		t.Errorf("Occurrences() = %d, want 7", got)
	}
	if got := f.Group(); got != "BRCA" {
		t.Errorf("Group() = %q, want BRCA", got)
	}
}

func TestFeatureValidate(t *testing.T) {
	tests := []struct {
		name    string
		f       Feature
		wantErr bool
	}{
		{"valid", Feature{Chr: "chr1", Pos: 10, Weight: 2}, false},
		{"valid partner", Feature{Chr: "chr1", Pos: 10, Partner: &Position{Chr: "chr9", Pos: 500}}, false},
		{"missing chr", Feature{Pos: 10}, true},
		{"negative pos", Feature{Chr: "chr1", Pos: -5}, true},
		{"negative weight", Feature{Chr: "chr1", Pos: 5, Weight: -1}, true},
		{"bad partner", Feature{Chr: "chr1", Pos: 5, Partner: &Position{Pos: 3}}, true},
		{"nan magnitude", Feature{Chr: "chr1", Pos: 5, Magnitude: math.NaN()}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.f.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidFeature) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidFeature)
			}
		})
	}
}

func TestLocate(t *testing.T) {
	m := MapperFunc(func(chr string, pos int) []Hit {
		switch {
		case chr == "chr1" && pos < 1000:
			return []Hit{{X: float64(pos) / 10}}
		case chr == "chr2":
			// Position shown in two sub-regions.
			return []Hit{{X: 500, Region: 1}, {X: 900, Region: 2}}
		}
		return nil
	})

	tests := []struct {
		name       string
		f          Feature
		wantOK     bool
		wantX      float64
		wantAnchor Position
	}{
		{"primary", Feature{Chr: "chr1", Pos: 250}, true, 25, Position{"chr1", 250}},
		{"first of many", Feature{Chr: "chr2", Pos: 7}, true, 500, Position{"chr2", 7}},
		{"partner", Feature{Chr: "chr5", Pos: 1, Partner: &Position{"chr1", 40}}, true, 4, Position{"chr1", 40}},
		{"unmapped", Feature{Chr: "chr5", Pos: 1}, false, 0, Position{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, anchor, ok := Locate(m, tt.f)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if hit.X != tt.wantX {
				t.Errorf("X = %v, want %v", hit.X, tt.wantX)
			}
			if anchor != tt.wantAnchor {
				t.Errorf("anchor = %v, want %v", anchor, tt.wantAnchor)
			}
		})
	}
}

func TestPositionString(t *testing.T) {
	if got := (Position{Chr: "chrX", Pos: 42}).String(); got != "chrX:42" {
		t.Errorf("String() = %q", got)
	}
}
