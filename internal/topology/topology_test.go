package topology

import (
	"testing"

	"sann/internal/geometry"
	"sann/internal/mesh"
)

func TestInsertPassSplitsOnlyLongEdge(t *testing.T) {
	m := mesh.FromPoints([]geometry.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1.5}, {X: 1, Y: 1}, {X: 0, Y: 1},
	})
	if !InsertPass(m, 1.3) {
		t.Fatalf("expected an insertion")
	}
	if m.Len() != 7 {
		t.Fatalf("len %d, want 7", m.Len())
	}
	if m.Next(2) != 6 || m.Prev(6) != 2 || m.Next(6) != 3 || m.Prev(3) != 6 {
		t.Fatalf("new vertex not linked between 2 and 3")
	}
	if p := m.Pos(6); p.X != 2 || p.Y != 0.75 {
		t.Fatalf("new vertex at %v, want (2,0.75)", p)
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	if InsertPass(m, 1.3) {
		t.Fatalf("second pass should find nothing to split")
	}
}

func TestInsertPassAddsAtMostOne(t *testing.T) {
	m := mesh.Circular(geometry.Point{}, 1, 6)
	if !InsertPass(m, 0.5) {
		t.Fatalf("expected an insertion")
	}
	if m.Len() != 7 {
		t.Fatalf("len %d, want 7", m.Len())
	}
	if m.Next(0) != 6 {
		t.Fatalf("first edge in ring order should be split first")
	}
}

// mergeFixture has outer vertices S(0) T(1) U(2) close together. Collapsing
// S and T pulls the outer edge inside inner vertex 0; collapsing S through U
// does not.
func mergeFixture() *mesh.ThickSurface {
	return &mesh.ThickSurface{Layers: [2]*mesh.Mesh{
		mesh.Outer: mesh.FromPoints([]geometry.Point{
			{X: 0, Y: 0.5}, {X: 0.1, Y: 0.3}, {X: 0.2, Y: 0.7}, {X: 1, Y: 0}, {X: 0.1, Y: -2}, {X: -1, Y: 0},
		}),
		mesh.Inner: mesh.FromPoints([]geometry.Point{
			{X: -0.1, Y: 0.42}, {X: 0, Y: -1}, {X: 0.5, Y: -0.2},
		}),
	}}
}

func TestFixtureIsSimple(t *testing.T) {
	if p, crossed := mergeFixture().Intersection(); crossed {
		t.Fatalf("fixture crosses at %v", p)
	}
}

func TestCheckedMergeSkipsCrossingCandidate(t *testing.T) {
	ts := mergeFixture()
	mg, ok := FindMerge(ts, mesh.Outer, 0, 0.3, 2, true)
	if !ok {
		t.Fatalf("expected a merge candidate")
	}
	if mg.Steps != 2 {
		t.Fatalf("steps %d, want 2", mg.Steps)
	}
	if geometry.Dist(mg.Survivor, geometry.Point{X: 0.1, Y: 0.6}) > 1e-12 {
		t.Fatalf("survivor at %v, want (0.1,0.6)", mg.Survivor)
	}

	merged, err := DeletePass(ts, mesh.Outer, 0.3, 2, true)
	if err != nil || !merged {
		t.Fatalf("DeletePass = %v, %v", merged, err)
	}
	if ts.Outer().Len() != 4 {
		t.Fatalf("outer len %d, want 4", ts.Outer().Len())
	}
	if _, crossed := ts.Intersection(); crossed {
		t.Fatalf("checked merge introduced a crossing")
	}
	if err := ts.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestUncheckedMergeTakesFirstCandidate(t *testing.T) {
	ts := mergeFixture()
	mg, ok := FindMerge(ts, mesh.Outer, 0, 0.3, 2, false)
	if !ok || mg.Steps != 1 {
		t.Fatalf("FindMerge = %+v, %v; want one step", mg, ok)
	}
	merged, err := DeletePass(ts, mesh.Outer, 0.3, 2, false)
	if err != nil || !merged {
		t.Fatalf("DeletePass = %v, %v", merged, err)
	}
	if ts.Outer().Len() != 5 {
		t.Fatalf("outer len %d, want 5", ts.Outer().Len())
	}
	if _, crossed := ts.Intersection(); !crossed {
		t.Fatalf("expected the unchecked merge to cross the inner ring")
	}
}

func TestFindMergeRespectsThresholdAndDepth(t *testing.T) {
	ts := mergeFixture()
	if _, ok := FindMerge(ts, mesh.Outer, 0, 0.2, 2, false); ok {
		t.Fatalf("no vertex is within 0.2 of S")
	}
	if _, ok := FindMerge(ts, mesh.Outer, 0, 0.3, 1, true); ok {
		t.Fatalf("depth 1 only offers the crossing candidate")
	}
}

func TestFindMergeKeepsTriangle(t *testing.T) {
	ts := mesh.CircularThickSurface(1, 0.5, 4)
	ts.Layers[mesh.Outer] = mesh.FromPoints([]geometry.Point{{X: 0, Y: 0}, {X: 0.01, Y: 0}, {X: 0.02, Y: 0.01}})
	if _, ok := FindMerge(ts, mesh.Outer, 0, 1, 3, false); ok {
		t.Fatalf("merging a triangle must be refused")
	}
}

func TestMaintainRunsEachLayer(t *testing.T) {
	ts := mesh.CircularThickSurface(1, 0.2, 8)
	var touched []mesh.Layer
	changed, err := Maintain(ts, Thresholds{Addition: 0.5, Deletion: 0.01, MaxMergeSteps: 2, Checked: true}, func(l mesh.Layer) {
		touched = append(touched, l)
	})
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Fatalf("expected maintenance to insert")
	}
	// Outer edges are about 0.77 long and inner edges about 0.61.
	if ts.Outer().Len() != 9 || ts.Inner().Len() != 9 {
		t.Fatalf("lens %d/%d, want 9/9", ts.Outer().Len(), ts.Inner().Len())
	}
	if len(touched) != 2 || touched[0] != mesh.Outer || touched[1] != mesh.Inner {
		t.Fatalf("hook calls %v", touched)
	}
}
