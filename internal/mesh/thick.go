package mesh

import (
	"fmt"
	"math"

	"sann/internal/geometry"
)

// Layer selects one boundary of a ThickSurface.
type Layer int

const (
	Outer Layer = iota
	Inner
)

// Layers lists both boundaries in index order.
var Layers = [...]Layer{Outer, Inner}

func (l Layer) String() string {
	switch l {
	case Outer:
		return "outer"
	case Inner:
		return "inner"
	default:
		return fmt.Sprintf("layer(%d)", int(l))
	}
}

// Across returns the other boundary.
func (l Layer) Across() Layer {
	if l == Outer {
		return Inner
	}
	return Outer
}

// ThickSurface is the outer and inner boundary of the simulated tissue band.
type ThickSurface struct {
	Layers [2]*Mesh
}

// CircularThickSurface builds two concentric regular polygons around the
// origin: the outer of the given radius and the inner thickness closer in.
func CircularThickSurface(radius, thickness float64, n int) *ThickSurface {
	return &ThickSurface{Layers: [2]*Mesh{
		Outer: Circular(geometry.Point{}, radius, n),
		Inner: Circular(geometry.Point{}, radius-thickness, n),
	}}
}

// Layer returns the mesh for l.
func (ts *ThickSurface) Layer(l Layer) *Mesh { return ts.Layers[l] }

// Outer returns the outer boundary.
func (ts *ThickSurface) Outer() *Mesh { return ts.Layers[Outer] }

// Inner returns the inner boundary.
func (ts *ThickSurface) Inner() *Mesh { return ts.Layers[Inner] }

// GrayMatterArea is the area of the band between the boundaries.
func (ts *ThickSurface) GrayMatterArea() float64 {
	return ts.Outer().Area() - ts.Inner().Area()
}

// ClosestVertexAcrossLayers returns the layer and id of the vertex nearest
// to p on either boundary. Ties go to the outer boundary.
func (ts *ThickSurface) ClosestVertexAcrossLayers(p geometry.Point) (Layer, int) {
	bestLayer, bestID, bestDist := Outer, -1, math.Inf(1)
	for _, l := range Layers {
		m := ts.Layers[l]
		id := m.ClosestVertex(p)
		if id < 0 {
			continue
		}
		if d := geometry.Dist(m.Pos(id), p); d < bestDist {
			bestLayer, bestID, bestDist = l, id, d
		}
	}
	return bestLayer, bestID
}

// Segments returns the edges of both boundaries, outer first.
func (ts *ThickSurface) Segments() []geometry.Segment {
	segs := ts.Outer().Segments()
	return append(segs, ts.Inner().Segments()...)
}

// Intersection runs the crossing check over every edge of both boundaries
// and returns the first crossing point.
func (ts *ThickSurface) Intersection() (geometry.Point, bool) {
	return geometry.FirstIntersection(ts.Segments())
}

// Validate checks the ring invariant of both boundaries.
func (ts *ThickSurface) Validate() error {
	for _, l := range Layers {
		if err := ts.Layers[l].Validate(); err != nil {
			return fmt.Errorf("%s: %w", l, err)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (ts *ThickSurface) Clone() *ThickSurface {
	return &ThickSurface{Layers: [2]*Mesh{ts.Layers[0].Clone(), ts.Layers[1].Clone()}}
}

// BestEffortAdd inserts p into whichever boundary has the vertex nearest to
// it, between that vertex and its nearer neighbour. The change is kept only
// if no edges cross afterwards.
func (ts *ThickSurface) BestEffortAdd(p geometry.Point) bool {
	l, id := ts.ClosestVertexAcrossLayers(p)
	if id < 0 {
		return false
	}
	return ts.tryCommit(func(c *ThickSurface) error {
		a, _ := c.Layers[l].ClosestVertexPair(p)
		c.Layers[l].InsertAfter(a, p)
		return nil
	})
}

// BestEffortDelete merges the vertex nearest to p into its predecessor. The
// survivor stays at the predecessor's position. The change is kept only if
// no edges cross afterwards.
func (ts *ThickSurface) BestEffortDelete(p geometry.Point) bool {
	l, id := ts.ClosestVertexAcrossLayers(p)
	if id < 0 {
		return false
	}
	return ts.tryCommit(func(c *ThickSurface) error {
		m := c.Layers[l]
		prev := m.Prev(id)
		_, err := m.Merge(prev, 1, m.Pos(prev))
		return err
	})
}

func (ts *ThickSurface) tryCommit(mutate func(*ThickSurface) error) bool {
	c := ts.Clone()
	if err := mutate(c); err != nil {
		return false
	}
	if _, crossed := c.Intersection(); crossed {
		return false
	}
	ts.Layers = c.Layers
	return true
}
