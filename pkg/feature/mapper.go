package feature

// Hit is one pixel position of a genomic coordinate.
type Hit struct {
	X      float64 // pixel x on the track
	Region int     // index of the displayed sub-region containing the coordinate
}

// CoordMapper converts genomic coordinates to pixel positions.
type CoordMapper interface {
	SeekCoord(chr string, pos int) []Hit
}

// MapperFunc adapts a plain function to CoordMapper.
type MapperFunc func(chr string, pos int) []Hit

// SeekCoord calls f.
func (f MapperFunc) SeekCoord(chr string, pos int) []Hit { return f(chr, pos) }

// Locate maps a feature to its first hit, trying the partner breakpoint when
// the primary position does not map. ok is false when neither maps.
func Locate(m CoordMapper, f Feature) (hit Hit, anchor Position, ok bool) {
	if hits := m.SeekCoord(f.Chr, f.Pos); len(hits) > 0 {
		return hits[0], f.Anchor(), true
	}
	if f.Partner != nil {
		if hits := m.SeekCoord(f.Partner.Chr, f.Partner.Pos); len(hits) > 0 {
			return hits[0], *f.Partner, true
		}
	}
	return Hit{}, Position{}, false
}
