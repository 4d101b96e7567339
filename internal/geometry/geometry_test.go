package geometry

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestCircularPointsLieOnCircle(t *testing.T) {
	center := Point{X: 2, Y: 7}
	pts := CircularPoints(center, 3, 12)
	if len(pts) != 12 {
		t.Fatalf("expected 12 points, got %d", len(pts))
	}
	for i, p := range pts {
		if d := Dist(center, p); !almostEqual(d, 3, 1e-12) {
			t.Fatalf("point %d at distance %v, want 3", i, d)
		}
	}
	if !almostEqual(pts[0].X, 5, 1e-12) || !almostEqual(pts[0].Y, 7, 1e-12) {
		t.Fatalf("first point %v, want (5,7)", pts[0])
	}
	if CircularPoints(center, 1, 0) != nil {
		t.Fatalf("expected nil for zero points")
	}
}

func TestNormedZeroVector(t *testing.T) {
	if got := Normed(Point{}); got.X != 0 || got.Y != 0 {
		t.Fatalf("Normed(0) = %v", got)
	}
	if got := Norm(Normed(Point{X: 3, Y: 4})); !almostEqual(got, 1, 1e-12) {
		t.Fatalf("unit length = %v", got)
	}
}

func TestBisectingVectorPointsOutward(t *testing.T) {
	// Vertex at the right of a counter-clockwise square.
	got := BisectingVector(Point{X: 1, Y: 0}, Point{X: 0, Y: -1}, Point{X: 0, Y: 1})
	if !almostEqual(got.X, 1, 1e-12) || !almostEqual(got.Y, 0, 1e-12) {
		t.Fatalf("bisector %v, want (1,0)", got)
	}
	// Reflex vertex: the notch between the neighbours is outside the ring.
	got = BisectingVector(Point{X: 0, Y: 0}, Point{X: 1, Y: -1}, Point{X: 1, Y: 1})
	if !almostEqual(got.X, 1, 1e-12) || !almostEqual(got.Y, 0, 1e-12) {
		t.Fatalf("reflex bisector %v, want (1,0)", got)
	}
}

func TestIntersect(t *testing.T) {
	cases := []struct {
		name string
		s, u Segment
		want bool
	}{
		{"crossing", Segment{Point{X: 0, Y: 0}, Point{X: 2, Y: 2}}, Segment{Point{X: 0, Y: 2}, Point{X: 2, Y: 0}}, true},
		{"disjoint", Segment{Point{X: 0, Y: 0}, Point{X: 1, Y: 0}}, Segment{Point{X: 0, Y: 1}, Point{X: 1, Y: 1}}, false},
		{"shared endpoint", Segment{Point{X: 0, Y: 0}, Point{X: 1, Y: 0}}, Segment{Point{X: 1, Y: 0}, Point{X: 1, Y: 1}}, false},
		{"collinear overlap", Segment{Point{X: 0, Y: 0}, Point{X: 2, Y: 0}}, Segment{Point{X: 1, Y: 0}, Point{X: 3, Y: 0}}, false},
		{"t junction", Segment{Point{X: 0, Y: 0}, Point{X: 2, Y: 0}}, Segment{Point{X: 1, Y: 0}, Point{X: 1, Y: 1}}, false},
	}
	for _, tc := range cases {
		p, got := Intersect(tc.s, tc.u)
		if got != tc.want {
			t.Fatalf("%s: Intersect = %v, want %v", tc.name, got, tc.want)
		}
		if got && (!almostEqual(p.X, 1, 1e-12) || !almostEqual(p.Y, 1, 1e-12)) {
			t.Fatalf("%s: crossing at %v, want (1,1)", tc.name, p)
		}
	}
}

func TestFirstIntersectionChecksLastSegment(t *testing.T) {
	ring := RingSegments(CircularPoints(Point{}, 1, 8))
	if _, ok := FirstIntersection(ring); ok {
		t.Fatalf("regular octagon reported as self-intersecting")
	}
	// Only the final segment crosses the ring.
	segs := append(ring, Segment{A: Point{X: 0, Y: 0}, B: Point{X: 5, Y: 0.1}})
	if _, ok := FirstIntersection(segs); !ok {
		t.Fatalf("expected crossing with the last segment")
	}
}

func TestFirstIntersectionBowtie(t *testing.T) {
	bowtie := RingSegments([]Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 1}})
	p, ok := FirstIntersection(bowtie)
	if !ok {
		t.Fatalf("bowtie not detected")
	}
	if !almostEqual(p.X, 0.5, 1e-12) || !almostEqual(p.Y, 0.5, 1e-12) {
		t.Fatalf("crossing at %v, want (0.5,0.5)", p)
	}
}
