package mesh

import (
	"errors"
	"math"
	"testing"

	"sann/internal/geometry"
)

func TestRingWalkVisitsEveryVertex(t *testing.T) {
	for _, n := range []int{3, 4, 17, 64} {
		m := Circular(geometry.Point{}, 1, n)
		seen := make(map[int]bool)
		id := 0
		for i := 0; i < n; i++ {
			if seen[id] {
				t.Fatalf("n=%d: vertex %d visited twice", n, id)
			}
			seen[id] = true
			id = m.Next(id)
		}
		if id != 0 {
			t.Fatalf("n=%d: walk ended at %d, want 0", n, id)
		}
		if len(seen) != n {
			t.Fatalf("n=%d: visited %d vertices", n, len(seen))
		}
		if err := m.Validate(); err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
	}
}

func TestRegularPolygonAreaAndPerimeter(t *testing.T) {
	m := Circular(geometry.Point{}, 1, 200)
	if a := m.Area(); a <= 3.13 || a >= 3.15 {
		t.Fatalf("area %v not in (3.13, 3.15)", a)
	}
	off := Circular(geometry.Point{X: 2, Y: 7}, 1, 200)
	if p := off.Perimeter(); p <= 6.26 || p >= 6.30 {
		t.Fatalf("perimeter %v not in (6.26, 6.30)", p)
	}
	if d := math.Abs(off.Area() - m.Area()); d > 1e-9 {
		t.Fatalf("area depends on translation: diff %v", d)
	}
}

func TestNextByAndOrderedPoints(t *testing.T) {
	m := Circular(geometry.Point{}, 1, 6)
	if got := m.NextBy(4, 3); got != 1 {
		t.Fatalf("NextBy(4,3) = %d, want 1", got)
	}
	if got := m.NextBy(1, -2); got != 5 {
		t.Fatalf("NextBy(1,-2) = %d, want 5", got)
	}
	pts := m.OrderedPoints()
	if len(pts) != 6 || pts[0] != m.Pos(0) || pts[5] != m.Pos(5) {
		t.Fatalf("unexpected ordered points %v", pts)
	}
}

func TestClosestVertexPairIsInRingOrder(t *testing.T) {
	m := FromPoints([]geometry.Point{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}})
	a, b := m.ClosestVertexPair(geometry.Point{X: 1.8, Y: 0.5})
	if a != 1 || b != 2 {
		t.Fatalf("pair (%d,%d), want (1,2)", a, b)
	}
	a, b = m.ClosestVertexPair(geometry.Point{X: 1.2, Y: -0.1})
	if a != 0 || b != 1 {
		t.Fatalf("pair (%d,%d), want (0,1)", a, b)
	}
	if m.Next(a) != b {
		t.Fatalf("pair not adjacent")
	}
}

func TestClosestVertexPairTiePrefersPrevious(t *testing.T) {
	m := FromPoints([]geometry.Point{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}})
	// Nearest is vertex 1; vertices 0 and 2 are equally far.
	a, b := m.ClosestVertexPair(geometry.Point{X: 1.5, Y: 0.5})
	if a != 0 || b != 1 {
		t.Fatalf("pair (%d,%d), want (0,1)", a, b)
	}
}

func TestValidateDetectsSubCycle(t *testing.T) {
	m := Circular(geometry.Point{}, 1, 6)
	// Split into two triangles 0-1-2 and 3-4-5.
	m.Vertices[2].Next = 0
	m.Vertices[0].Prev = 2
	m.Vertices[5].Next = 3
	m.Vertices[3].Prev = 5
	if err := m.Validate(); !errors.Is(err, ErrBrokenRing) {
		t.Fatalf("expected ErrBrokenRing, got %v", err)
	}
}

func TestInsertAfterRelinks(t *testing.T) {
	m := Circular(geometry.Point{}, 1, 5)
	mid := geometry.Midpoint(m.Pos(2), m.Pos(3))
	id := m.InsertAfter(2, mid)
	if id != 5 {
		t.Fatalf("new id %d, want 5", id)
	}
	if m.Next(2) != 5 || m.Prev(3) != 5 || m.Next(5) != 3 || m.Prev(5) != 2 {
		t.Fatalf("links not updated: %+v", m.Vertices)
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestMergeCompactsIDs(t *testing.T) {
	m := Circular(geometry.Point{}, 1, 8)
	survivorPos := geometry.Point{X: 9, Y: 9}
	// Collapse 6, 7 and 0 into one vertex.
	id, err := m.Merge(6, 2, survivorPos)
	if err != nil {
		t.Fatal(err)
	}
	if m.Len() != 6 {
		t.Fatalf("len %d, want 6", m.Len())
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	if m.Pos(id) != survivorPos {
		t.Fatalf("survivor at %v", m.Pos(id))
	}
	// Old vertices 1..5 shift down by one, survivor takes slot 5.
	if id != 5 {
		t.Fatalf("survivor id %d, want 5", id)
	}
	if m.Next(id) != 0 || m.Prev(id) != 4 {
		t.Fatalf("survivor links next=%d prev=%d", m.Next(id), m.Prev(id))
	}
}

func TestMergeRefusesDegenerateRing(t *testing.T) {
	m := Circular(geometry.Point{}, 1, 4)
	if _, err := m.Merge(0, 2, geometry.Point{}); err == nil {
		t.Fatalf("expected error when merge leaves two vertices")
	}
	if _, err := m.Merge(0, 1, geometry.Point{}); err != nil {
		t.Fatalf("merge to triangle: %v", err)
	}
}
