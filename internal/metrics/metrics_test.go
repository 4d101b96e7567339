package metrics

import (
	"math"
	"testing"

	"sann/internal/anneal"
	"sann/internal/geometry"
	"sann/internal/mesh"
)

func TestConvexHullDropsInteriorAndCollinear(t *testing.T) {
	pts := []geometry.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2},
		{X: 1, Y: 1}, {X: 0, Y: 2}, {X: 0.5, Y: 1.5},
	}
	hull := ConvexHull(pts)
	want := []geometry.Point{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}
	if len(hull) != len(want) {
		t.Fatalf("hull %v, want %v", hull, want)
	}
	for i := range want {
		if hull[i] != want[i] {
			t.Fatalf("hull %v, want %v", hull, want)
		}
	}
	if a := PolygonArea(hull); a != 4 {
		t.Fatalf("area %v, want 4", a)
	}
	if p := PolygonPerimeter(hull); p != 8 {
		t.Fatalf("perimeter %v, want 8", p)
	}
}

func TestHullOfFoldedRingIsLarger(t *testing.T) {
	// A square with a notch cut into its top edge.
	folded := &mesh.ThickSurface{Layers: [2]*mesh.Mesh{
		mesh.Outer: mesh.FromPoints([]geometry.Point{
			{X: -2, Y: -2}, {X: 2, Y: -2}, {X: 2, Y: 2}, {X: 0.5, Y: 2}, {X: 0, Y: 0.5}, {X: -0.5, Y: 2}, {X: -2, Y: 2},
		}),
		mesh.Inner: mesh.FromPoints([]geometry.Point{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 0, Y: -0.5}}),
	}}
	p := anneal.DefaultParams()
	area, _ := Lookup("convex area")
	outer, _ := Lookup("outer area")
	if area(folded, p) != 16 {
		t.Fatalf("convex area %v, want 16", area(folded, p))
	}
	if outer(folded, p) >= 16 {
		t.Fatalf("outer area %v should be below the hull's", outer(folded, p))
	}
	gray, _ := Lookup("convex gray area")
	if got := gray(folded, p); math.Abs(got-(16-folded.Inner().Area())) > 1e-12 {
		t.Fatalf("convex gray area %v", got)
	}
}

func TestEveryNameResolves(t *testing.T) {
	ts := mesh.CircularThickSurface(1, 0.2, 60)
	p := anneal.DefaultParams()
	fns, err := Resolve(Names())
	if err != nil {
		t.Fatal(err)
	}
	vals := Sample(fns, ts, p)
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("%s = %v", Names()[i], v)
		}
	}
	byName := map[string]float64{}
	for i, n := range Names() {
		byName[n] = vals[i]
	}
	if byName["num outer points"] != 60 {
		t.Fatalf("num outer points %v", byName["num outer points"])
	}
	// A convex ring is its own hull.
	if math.Abs(byName["convex area"]-byName["outer area"]) > 1e-9 {
		t.Fatalf("convex area %v != outer area %v", byName["convex area"], byName["outer area"])
	}
	if math.Abs(byName["P_ext"]-byName["P_con"]) > 1e-9 {
		t.Fatalf("P_ext %v != P_con %v", byName["P_ext"], byName["P_con"])
	}
	wantK := 0.5*byName["T"] + byName["P_ext"] - 1.5*byName["P_con"]
	if math.Abs(byName["K"]-wantK) > 1e-12 {
		t.Fatalf("K %v, want %v", byName["K"], wantK)
	}
}

func TestResolveRejectsUnknown(t *testing.T) {
	if _, err := Resolve([]string{"energy", "curvature"}); err == nil {
		t.Fatalf("expected an error for an unknown recorder")
	}
}
