package stitch

import (
	"fmt"
	"strings"

	"sann/internal/geometry"
	"sann/internal/mesh"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// Strategy selects how a Correspondence is built.
type Strategy int

const (
	// Dijkstra finds the cheapest monotone alignment over a CostGrid.
	Dijkstra Strategy = iota
	// Greedy walks both rings advancing whichever side is cheaper.
	Greedy
)

func (s Strategy) String() string {
	switch s {
	case Dijkstra:
		return "dijkstra"
	case Greedy:
		return "greedy"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy maps a strategy name to its value. The empty name selects
// Dijkstra.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "dijkstra", "smart":
		return Dijkstra, nil
	case "greedy":
		return Greedy, nil
	default:
		return 0, fmt.Errorf("unknown stitch strategy %q", name)
	}
}

// Build aligns the boundaries of ts and checks the result.
func Build(ts *mesh.ThickSurface, s Strategy) (*Correspondence, error) {
	var c *Correspondence
	switch s {
	case Dijkstra:
		c = buildDijkstra(ts)
	case Greedy:
		c = buildGreedy(ts)
	default:
		return nil, fmt.Errorf("build correspondence: unknown strategy %d", int(s))
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("build correspondence (%s): %w", s, err)
	}
	return c, nil
}

func buildGreedy(ts *mesh.ThickSurface) *Correspondence {
	outer, inner := ts.Outer(), ts.Inner()
	c := New(outer.Len(), inner.Len())

	o := 0
	i := inner.ClosestVertex(outer.Pos(0))
	c.Put(o, i)

	outerSteps, innerSteps := 0, 0
	for outerSteps < outer.Len() || innerSteps < inner.Len() {
		var advanceOuter bool
		switch {
		case outerSteps >= outer.Len():
			advanceOuter = false
		case innerSteps >= inner.Len():
			advanceOuter = true
		default:
			outerCost := geometry.Dist(inner.Pos(i), outer.Pos(outer.Next(o)))
			innerCost := geometry.Dist(outer.Pos(o), inner.Pos(inner.Next(i)))
			advanceOuter = outerCost < innerCost
		}
		if advanceOuter {
			o = outer.Next(o)
			outerSteps++
		} else {
			i = inner.Next(i)
			innerSteps++
		}
		c.Put(o, i)
	}
	return c
}

func buildDijkstra(ts *mesh.ThickSurface) *Correspondence {
	g := NewCostGrid(ts)
	c := New(ts.Outer().Len(), ts.Inner().Len())

	last := int64(g.Index(g.Rows-1, g.Cols-1))
	if last == 0 {
		c.Put(g.Pair(0, 0))
		return c
	}
	shortest := path.DijkstraFrom(simple.Node(0), gridGraph{g})
	nodes, _ := shortest.To(last)
	for _, n := range nodes {
		c.Put(g.Pair(g.Cell(int(n.ID()))))
	}
	return c
}

// gridGraph exposes a CostGrid as a directed graph whose only edges go one
// cell right or one cell down. Successors are always listed right then down
// so ties resolve the same way on every run.
type gridGraph struct {
	g *CostGrid
}

func (gg gridGraph) From(id int64) graph.Nodes {
	r, c := gg.g.Cell(int(id))
	var nodes []graph.Node
	if c+1 < gg.g.Cols {
		nodes = append(nodes, simple.Node(gg.g.Index(r, c+1)))
	}
	if r+1 < gg.g.Rows {
		nodes = append(nodes, simple.Node(gg.g.Index(r+1, c)))
	}
	if len(nodes) == 0 {
		return graph.Empty
	}
	return iterator.NewOrderedNodes(nodes)
}

func (gg gridGraph) Edge(uid, vid int64) graph.Edge {
	w, ok := gg.Weight(uid, vid)
	if !ok || uid == vid {
		return nil
	}
	return simple.WeightedEdge{F: simple.Node(uid), T: simple.Node(vid), W: w}
}

func (gg gridGraph) Weight(xid, yid int64) (float64, bool) {
	if xid == yid {
		return 0, true
	}
	r, c := gg.g.Cell(int(xid))
	if c+1 < gg.g.Cols && int(yid) == gg.g.Index(r, c+1) {
		return gg.g.Right(r, c), true
	}
	if r+1 < gg.g.Rows && int(yid) == gg.g.Index(r+1, c) {
		return gg.g.Down(r, c), true
	}
	return 0, false
}
