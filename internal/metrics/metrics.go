// Package metrics defines the named scalar observables sampled from a surface
// during a run.
package metrics

import (
	"fmt"
	"math"

	"sann/internal/anneal"
	"sann/internal/geometry"
	"sann/internal/mesh"
)

// Func computes one observable.
type Func func(ts *mesh.ThickSurface, p anneal.Params) float64

type entry struct {
	name string
	fn   Func
}

var table = []entry{
	{"energy", func(ts *mesh.ThickSurface, p anneal.Params) float64 {
		return anneal.Energy(ts, p.InitialGrayMatterArea())
	}},
	{"outer perimeter", func(ts *mesh.ThickSurface, _ anneal.Params) float64 { return ts.Outer().Perimeter() }},
	{"inner perimeter", func(ts *mesh.ThickSurface, _ anneal.Params) float64 { return ts.Inner().Perimeter() }},
	{"outer area", func(ts *mesh.ThickSurface, _ anneal.Params) float64 { return ts.Outer().Area() }},
	{"inner area", func(ts *mesh.ThickSurface, _ anneal.Params) float64 { return ts.Inner().Area() }},
	{"gray matter area", func(ts *mesh.ThickSurface, _ anneal.Params) float64 { return ts.GrayMatterArea() }},
	{"num outer points", func(ts *mesh.ThickSurface, _ anneal.Params) float64 { return float64(ts.Outer().Len()) }},
	{"num inner points", func(ts *mesh.ThickSurface, _ anneal.Params) float64 { return float64(ts.Inner().Len()) }},
	{"convex area", func(ts *mesh.ThickSurface, _ anneal.Params) float64 { return PolygonArea(Hull(ts)) }},
	{"convex perimeter", func(ts *mesh.ThickSurface, _ anneal.Params) float64 { return PolygonPerimeter(Hull(ts)) }},
	{"convex gray area", func(ts *mesh.ThickSurface, _ anneal.Params) float64 {
		return PolygonArea(Hull(ts)) - ts.Inner().Area()
	}},
	{"P_ext", func(ts *mesh.ThickSurface, _ anneal.Params) float64 { return logOuterPerimeter(ts) }},
	{"P_con", func(ts *mesh.ThickSurface, _ anneal.Params) float64 { return logConvexPerimeter(ts) }},
	{"T", func(ts *mesh.ThickSurface, _ anneal.Params) float64 { return logThickness(ts) }},
	{"K", func(ts *mesh.ThickSurface, _ anneal.Params) float64 {
		return 0.5*logThickness(ts) + logOuterPerimeter(ts) - 1.5*logConvexPerimeter(ts)
	}},
}

// Hull is the convex hull of the outer boundary.
func Hull(ts *mesh.ThickSurface) []geometry.Point {
	return ConvexHull(ts.Outer().OrderedPoints())
}

func logOuterPerimeter(ts *mesh.ThickSurface) float64 {
	return math.Log10(ts.Outer().Perimeter())
}

func logConvexPerimeter(ts *mesh.ThickSurface) float64 {
	return math.Log10(PolygonPerimeter(Hull(ts)))
}

func logThickness(ts *mesh.ThickSurface) float64 {
	return math.Log10(ts.GrayMatterArea() / ts.Outer().Perimeter())
}

// Names lists every observable in canonical order.
func Names() []string {
	out := make([]string, len(table))
	for i, e := range table {
		out[i] = e.name
	}
	return out
}

// Lookup finds the observable called name.
func Lookup(name string) (Func, bool) {
	for _, e := range table {
		if e.name == name {
			return e.fn, true
		}
	}
	return nil, false
}

// Resolve maps names to their functions, failing on the first unknown name.
func Resolve(names []string) ([]Func, error) {
	fns := make([]Func, len(names))
	for i, n := range names {
		fn, ok := Lookup(n)
		if !ok {
			return nil, fmt.Errorf("unsupported recorder %q", n)
		}
		fns[i] = fn
	}
	return fns, nil
}

// Sample evaluates fns against ts.
func Sample(fns []Func, ts *mesh.ThickSurface, p anneal.Params) []float64 {
	out := make([]float64, len(fns))
	for i, fn := range fns {
		out[i] = fn(ts, p)
	}
	return out
}
