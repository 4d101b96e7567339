// Package mesh implements the index-linked polygon rings the annealer folds.
//
// A Mesh stores its vertices in a dense slice; each vertex names its ring
// neighbours by slice index. Walking Next from vertex 0 visits every vertex
// exactly once. Simplicity of the polygon is not enforced here; callers use
// ThickSurface.Intersection to reject crossings before committing a change.
package mesh

import (
	"errors"
	"fmt"
	"math"

	"sann/internal/geometry"
)

// ErrBrokenRing marks a mesh whose links no longer form a single cycle.
var ErrBrokenRing = errors.New("mesh ring is broken")

// MinVertices is the smallest ring that still bounds an area.
const MinVertices = 3

// Vertex is one ring element. ID always equals the vertex's slice index.
type Vertex struct {
	ID   int
	Pos  geometry.Point
	Next int
	Prev int
}

// Mesh is a closed polygon stored as an arena of linked vertices.
type Mesh struct {
	Vertices []Vertex
}

// FromPoints links pts into a ring in slice order.
func FromPoints(pts []geometry.Point) *Mesh {
	n := len(pts)
	m := &Mesh{Vertices: make([]Vertex, n)}
	for i, p := range pts {
		m.Vertices[i] = Vertex{
			ID:   i,
			Pos:  p,
			Next: (i + 1) % n,
			Prev: (i - 1 + n) % n,
		}
	}
	return m
}

// Circular builds a regular n-gon of the given radius.
func Circular(center geometry.Point, radius float64, n int) *Mesh {
	return FromPoints(geometry.CircularPoints(center, radius, n))
}

// Len returns the vertex count.
func (m *Mesh) Len() int { return len(m.Vertices) }

// Pos returns the position of vertex id.
func (m *Mesh) Pos(id int) geometry.Point { return m.Vertices[id].Pos }

// Next returns the id following id on the ring.
func (m *Mesh) Next(id int) int { return m.Vertices[id].Next }

// Prev returns the id preceding id on the ring.
func (m *Mesh) Prev(id int) int { return m.Vertices[id].Prev }

// NextBy walks k steps forward from id. Negative k walks backwards.
func (m *Mesh) NextBy(id, k int) int {
	for ; k > 0; k-- {
		id = m.Vertices[id].Next
	}
	for ; k < 0; k++ {
		id = m.Vertices[id].Prev
	}
	return id
}

// Ring returns vertex ids in ring order starting at vertex 0. The walk stops
// after Len steps even if the links are damaged.
func (m *Mesh) Ring() []int {
	if len(m.Vertices) == 0 {
		return nil
	}
	ids := make([]int, 0, len(m.Vertices))
	id := 0
	for range m.Vertices {
		ids = append(ids, id)
		id = m.Vertices[id].Next
		if id == 0 {
			break
		}
	}
	return ids
}

// OrderedPoints returns the positions in ring order starting at vertex 0.
func (m *Mesh) OrderedPoints() []geometry.Point {
	ids := m.Ring()
	pts := make([]geometry.Point, len(ids))
	for i, id := range ids {
		pts[i] = m.Vertices[id].Pos
	}
	return pts
}

// Area returns the signed enclosed area, positive for counter-clockwise rings.
func (m *Mesh) Area() float64 {
	var sum float64
	for _, v := range m.Vertices {
		next := m.Vertices[v.Next].Pos
		prev := m.Vertices[v.Prev].Pos
		sum += v.Pos.X * (next.Y - prev.Y)
	}
	return sum / 2
}

// Perimeter returns the summed edge lengths of the ring.
func (m *Mesh) Perimeter() float64 {
	var total float64
	for _, id := range m.Ring() {
		v := m.Vertices[id]
		total += geometry.Dist(v.Pos, m.Vertices[v.Next].Pos)
	}
	return total
}

// Segments returns the ring's edges in ring order.
func (m *Mesh) Segments() []geometry.Segment {
	ids := m.Ring()
	segs := make([]geometry.Segment, len(ids))
	for i, id := range ids {
		v := m.Vertices[id]
		segs[i] = geometry.Segment{A: v.Pos, B: m.Vertices[v.Next].Pos}
	}
	return segs
}

// ClosestVertex returns the id nearest to p. Ties go to the lower id.
// It returns -1 for an empty mesh.
func (m *Mesh) ClosestVertex(p geometry.Point) int {
	best, bestDist := -1, math.Inf(1)
	for _, v := range m.Vertices {
		if d := geometry.Dist(v.Pos, p); d < bestDist {
			best, bestDist = v.ID, d
		}
	}
	return best
}

// ClosestVertexPair returns the vertex nearest to p together with whichever
// of its neighbours is nearer to p. The pair comes back in ring order, so
// Next(a) == b. When both neighbours are equally far the previous one wins.
func (m *Mesh) ClosestVertexPair(p geometry.Point) (a, b int) {
	c := m.ClosestVertex(p)
	if c < 0 {
		return -1, -1
	}
	next, prev := m.Next(c), m.Prev(c)
	if geometry.Dist(m.Pos(next), p) < geometry.Dist(m.Pos(prev), p) {
		return c, next
	}
	return prev, c
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{Vertices: make([]Vertex, len(m.Vertices))}
	copy(out.Vertices, m.Vertices)
	return out
}

// Validate checks the single-cycle invariant.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	if n < MinVertices {
		return fmt.Errorf("%w: %d vertices", ErrBrokenRing, n)
	}
	for i, v := range m.Vertices {
		if v.ID != i {
			return fmt.Errorf("%w: vertex at slot %d has id %d", ErrBrokenRing, i, v.ID)
		}
		if v.Next < 0 || v.Next >= n || v.Prev < 0 || v.Prev >= n {
			return fmt.Errorf("%w: vertex %d links out of range (next %d, prev %d)", ErrBrokenRing, i, v.Next, v.Prev)
		}
		if m.Vertices[v.Next].Prev != i {
			return fmt.Errorf("%w: prev(next(%d)) = %d", ErrBrokenRing, i, m.Vertices[v.Next].Prev)
		}
	}
	seen := make([]bool, n)
	id := 0
	for step := 0; step < n; step++ {
		if seen[id] {
			return fmt.Errorf("%w: vertex %d revisited after %d steps", ErrBrokenRing, id, step)
		}
		seen[id] = true
		id = m.Vertices[id].Next
	}
	if id != 0 {
		return fmt.Errorf("%w: walk of %d steps ended at %d", ErrBrokenRing, n, id)
	}
	return nil
}

// InsertAfter adds a vertex at pos between id and its successor and returns
// the new vertex's id, which is always the previous Len.
func (m *Mesh) InsertAfter(id int, pos geometry.Point) int {
	next := m.Vertices[id].Next
	newID := len(m.Vertices)
	m.Vertices = append(m.Vertices, Vertex{ID: newID, Pos: pos, Next: next, Prev: id})
	m.Vertices[id].Next = newID
	m.Vertices[next].Prev = newID
	return newID
}

// Merge collapses the run from src to the vertex k steps ahead of it into a
// single survivor at pos. The survivor keeps src's slot; the other removed
// slots are dropped and every id is renumbered to stay dense. The returned
// id is the survivor's id after renumbering.
func (m *Mesh) Merge(src, k int, pos geometry.Point) (int, error) {
	n := len(m.Vertices)
	if src < 0 || src >= n {
		return 0, fmt.Errorf("merge: vertex %d out of range", src)
	}
	if k < 1 {
		return 0, fmt.Errorf("merge: step count %d must be positive", k)
	}
	if n-k < MinVertices {
		return 0, fmt.Errorf("merge: %d of %d vertices would leave fewer than %d", k+1, n, MinVertices)
	}

	removed := make([]bool, n)
	for i, id := 1, m.Next(src); i <= k; i, id = i+1, m.Next(id) {
		removed[id] = true
	}
	before := m.Prev(src)
	after := m.NextBy(src, k+1)

	remap := make([]int, n)
	count := 0
	for i := range m.Vertices {
		if removed[i] {
			remap[i] = -1
			continue
		}
		remap[i] = count
		count++
	}

	out := make([]Vertex, 0, count)
	for i, v := range m.Vertices {
		if removed[i] {
			continue
		}
		nv := Vertex{ID: remap[i], Pos: v.Pos, Next: remap[v.Next], Prev: remap[v.Prev]}
		if i == src {
			nv.Pos = pos
			nv.Next = remap[after]
			nv.Prev = remap[before]
		}
		if i == before {
			nv.Next = remap[src]
		}
		if i == after {
			nv.Prev = remap[src]
		}
		out = append(out, nv)
	}
	m.Vertices = out
	return remap[src], nil
}
