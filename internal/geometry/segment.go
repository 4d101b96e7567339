package geometry

// Segment is a closed line segment between two points.
type Segment struct {
	A, B Point
}

// Intersect reports whether s and t cross properly and returns the crossing
// point. Touching at an endpoint and collinear overlap are not crossings.
func Intersect(s, t Segment) (Point, bool) {
	r := s.B.Minus(s.A)
	q := t.B.Minus(t.A)

	rxq := cross(r, q)
	if rxq == 0 {
		return Point{}, false
	}
	d := t.A.Minus(s.A)
	u1 := cross(d, q) / rxq
	u2 := cross(d, r) / rxq
	if u1 > 0 && u1 < 1 && u2 > 0 && u2 < 1 {
		return s.A.Plus(r.Times(u1)), true
	}
	return Point{}, false
}

// FirstIntersection checks every unordered pair of segments and returns the
// first proper crossing found. The search is quadratic in len(segs).
func FirstIntersection(segs []Segment) (Point, bool) {
	for i := 0; i < len(segs); i++ {
		for j := i + 1; j < len(segs); j++ {
			if p, ok := Intersect(segs[i], segs[j]); ok {
				return p, true
			}
		}
	}
	return Point{}, false
}

// RingSegments closes pts into a ring and returns its edges in order.
func RingSegments(pts []Point) []Segment {
	if len(pts) < 2 {
		return nil
	}
	segs := make([]Segment, len(pts))
	for i := range pts {
		segs[i] = Segment{A: pts[i], B: pts[(i+1)%len(pts)]}
	}
	return segs
}
