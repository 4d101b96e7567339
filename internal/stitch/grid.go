package stitch

import (
	"sann/internal/geometry"
	"sann/internal/mesh"
)

// CostGrid stores the alignment costs between the two rings in row-major
// order. Rows walk the inner ring, columns walk the outer ring.
type CostGrid struct {
	Rows, Cols int

	inner []int
	outer []int
	down  []float64
	right []float64
}

// NewCostGrid lays both rings out in ring order. Columns start at outer
// vertex 0 and rows start at the inner vertex nearest to it.
func NewCostGrid(ts *mesh.ThickSurface) *CostGrid {
	outer, inner := ts.Outer(), ts.Inner()
	g := &CostGrid{
		outer: outer.Ring(),
		inner: ringFrom(inner, inner.ClosestVertex(outer.Pos(0))),
	}
	g.Rows, g.Cols = len(g.inner), len(g.outer)
	g.down = make([]float64, g.Rows*g.Cols)
	g.right = make([]float64, g.Rows*g.Cols)
	for r, iid := range g.inner {
		for c, oid := range g.outer {
			idx := g.Index(r, c)
			if r+1 < g.Rows {
				g.down[idx] = geometry.Dist(outer.Pos(oid), inner.Pos(g.inner[r+1]))
			}
			if c+1 < g.Cols {
				g.right[idx] = geometry.Dist(inner.Pos(iid), outer.Pos(g.outer[c+1]))
			}
		}
	}
	return g
}

func ringFrom(m *mesh.Mesh, start int) []int {
	ids := make([]int, 0, m.Len())
	id := start
	for range m.Vertices {
		ids = append(ids, id)
		id = m.Next(id)
		if id == start {
			break
		}
	}
	return ids
}

// Index returns the linear slice index for cell (r, c).
func (g *CostGrid) Index(r, c int) int { return r*g.Cols + c }

// Cell is the inverse of Index.
func (g *CostGrid) Cell(idx int) (r, c int) { return idx / g.Cols, idx % g.Cols }

// Down is the cost of advancing the inner ring from cell (r, c).
func (g *CostGrid) Down(r, c int) float64 { return g.down[g.Index(r, c)] }

// Right is the cost of advancing the outer ring from cell (r, c).
func (g *CostGrid) Right(r, c int) float64 { return g.right[g.Index(r, c)] }

// Pair returns the vertex ids aligned at cell (r, c).
func (g *CostGrid) Pair(r, c int) (outerID, innerID int) {
	return g.outer[c], g.inner[r]
}
