// Package scale maps data values onto pixel ranges.
//
// Three scales cover what the track layouts need:
//   - [Linear]: two-point interpolation, used for fold stacking offsets
//   - [Piecewise]: multi-breakpoint interpolation, used by the disc area scale
//   - [Log]: base-10 interpolation, used for read-count axes of junction tracks
//
// All scales are plain values; mapping is a pure function.
package scale

import "math"

// Scale maps a domain value to a range value.
type Scale interface {
	Map(v float64) float64
}

// Linear interpolates between Domain[0]→Range[0] and Domain[1]→Range[1].
// Values outside the domain are extrapolated unless passed through Clamp.
type Linear struct {
	Domain [2]float64
	Range  [2]float64
}

// NewLinear returns a linear scale from [d0, d1] to [r0, r1].
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{Domain: [2]float64{d0, d1}, Range: [2]float64{r0, r1}}
}

// Map returns the range value for v. A degenerate domain maps everything to Range[0].
func (s Linear) Map(v float64) float64 {
	span := s.Domain[1] - s.Domain[0]
	if span == 0 {
		return s.Range[0]
	}
	t := (v - s.Domain[0]) / span
	return s.Range[0] + t*(s.Range[1]-s.Range[0])
}

// Clamp maps v after clamping it to the domain.
func (s Linear) Clamp(v float64) float64 {
	lo, hi := s.Domain[0], s.Domain[1]
	if lo > hi {
		lo, hi = hi, lo
	}
	return s.Map(math.Max(lo, math.Min(hi, v)))
}

// Invert returns the domain value for a range value.
func (s Linear) Invert(y float64) float64 {
	return Linear{Domain: s.Range, Range: s.Domain}.Map(y)
}

// Piecewise interpolates linearly between consecutive breakpoints.
//
// Domain must be non-decreasing; breakpoints that would step backwards are
// raised to their predecessor by [NewPiecewise], and zero-width segments are
// skipped. Values outside the domain clamp to the first or last range value.
type Piecewise struct {
	Domain []float64
	Range  []float64
}

// NewPiecewise returns a piecewise scale over the shorter of domain and rng,
// with the domain made non-decreasing.
func NewPiecewise(domain, rng []float64) Piecewise {
	n := min(len(domain), len(rng))
	d := make([]float64, n)
	r := make([]float64, n)
	copy(r, rng[:n])
	for i := 0; i < n; i++ {
		d[i] = domain[i]
		if i > 0 && d[i] < d[i-1] {
			d[i] = d[i-1]
		}
	}
	return Piecewise{Domain: d, Range: r}
}

// Map returns the range value for v.
func (s Piecewise) Map(v float64) float64 {
	n := len(s.Domain)
	switch {
	case n == 0:
		return 0
	case v <= s.Domain[0]:
		return s.Range[0]
	case v >= s.Domain[n-1]:
		return s.Range[n-1]
	}
	for i := 1; i < n; i++ {
		if v > s.Domain[i] {
			continue
		}
		d0, d1 := s.Domain[i-1], s.Domain[i]
		if d1 == d0 {
			return s.Range[i]
		}
		t := (v - d0) / (d1 - d0)
		return s.Range[i-1] + t*(s.Range[i]-s.Range[i-1])
	}
	return s.Range[n-1]
}

// Log interpolates in log10 space between Domain and Range. Non-positive
// values and values below Domain[0] clamp to Range[0]; values above Domain[1]
// clamp to Range[1].
type Log struct {
	Domain [2]float64
	Range  [2]float64
}

// NewLog returns a log scale from [d0, d1] to [r0, r1]. A non-positive d0 is
// replaced by 1, the smallest count a read-count axis shows.
func NewLog(d0, d1, r0, r1 float64) Log {
	if d0 <= 0 {
		d0 = 1
	}
	if d1 < d0 {
		d1 = d0
	}
	return Log{Domain: [2]float64{d0, d1}, Range: [2]float64{r0, r1}}
}

// Map returns the range value for v.
func (s Log) Map(v float64) float64 {
	if v <= s.Domain[0] {
		return s.Range[0]
	}
	if v >= s.Domain[1] {
		return s.Range[1]
	}
	l0, l1 := math.Log10(s.Domain[0]), math.Log10(s.Domain[1])
	if l1 == l0 {
		return s.Range[0]
	}
	t := (math.Log10(v) - l0) / (l1 - l0)
	return s.Range[0] + t*(s.Range[1]-s.Range[0])
}

// Func adapts a plain function to Scale.
type Func func(float64) float64

// Map calls f(v).
func (f Func) Map(v float64) float64 { return f(v) }
