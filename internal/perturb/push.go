package perturb

import (
	"fmt"
	"sort"

	"sann/internal/geometry"
	"sann/internal/mesh"
	"sann/internal/stitch"
)

// Propagation selects how a change on the pushed layer reaches the other
// layer.
type Propagation int

const (
	// Stitched moves every correspondent of a changed vertex, see
	// ChangerOfChoice.
	Stitched Propagation = iota
	// Pushed moves the span of the other layer that faces the changed run,
	// see PushAcross.
	Pushed
)

func (p Propagation) String() string {
	switch p {
	case Stitched:
		return "stitch"
	case Pushed:
		return "push"
	default:
		return fmt.Sprintf("Propagation(%d)", int(p))
	}
}

// ParsePropagation maps a name to a Propagation. The empty string selects
// Stitched.
func ParsePropagation(name string) (Propagation, error) {
	switch name {
	case "", "stitch":
		return Stitched, nil
	case "push":
		return Pushed, nil
	default:
		return 0, fmt.Errorf("unknown propagation %q (want stitch or push)", name)
	}
}

// PushNearest is how many source changes PushAcross averages per target
// vertex.
const PushNearest = 7

// Carry describes how Neighbor carries a change across.
type Carry struct {
	Mode        Propagation
	Compression float64
	Corr        *stitch.Correspondence
}

func (c Carry) across(ts *mesh.ThickSurface, pushed mesh.Layer, changes *Field) *Field {
	target := ts.Layer(pushed.Across())
	if c.Mode == Pushed {
		return PushAcross(target, ts.Layer(pushed), changes, PushNearest)
	}
	return ChangerOfChoice(target, pushed, changes, c.Compression, c.Corr)
}

// PushAcross carries changes made on source over to target without using
// the stitching. The changed run's two end vertices are projected onto their
// nearest target vertices; the shorter target arc from the first projection
// up to (not including) the second is moved. Each moved vertex receives the
// mean delta of the nearest source changes, at most nearest of them.
//
// When the projections coincide only that vertex moves. When every source
// vertex changed there are no run ends and the whole target ring moves.
func PushAcross(target, source *mesh.Mesh, changes *Field, nearest int) *Field {
	out := NewField()
	if changes.Len() == 0 || target.Len() == 0 {
		return out
	}
	ds := changes.Displacements()

	var span []int
	first, last, ok := runEnds(source, changes, ds)
	if !ok {
		span = target.Ring()
	} else {
		a := target.ClosestVertex(source.Pos(first))
		b := target.ClosestVertex(source.Pos(last))
		span = shorterArc(target, a, b)
	}

	if nearest < 1 {
		nearest = 1
	}
	for _, id := range span {
		pos := target.Pos(id)
		near := nearestChanges(source, ds, pos, nearest)
		if len(near) == 0 {
			continue
		}
		var sum geometry.Point
		for _, d := range near {
			sum = sum.Plus(d.Delta)
		}
		out.Add(Displacement{ID: id, Ref: pos, Delta: sum.Times(1 / float64(len(near)))})
	}
	return out
}

// runEnds finds, scanning by id, the first changed vertex whose predecessor
// is unchanged and the first whose successor is unchanged.
func runEnds(m *mesh.Mesh, changes *Field, ds []Displacement) (first, last int, ok bool) {
	first, last = -1, -1
	for _, d := range ds {
		if d.ID < 0 || d.ID >= m.Len() {
			continue
		}
		if _, in := changes.Get(m.Prev(d.ID)); !in && first < 0 {
			first = d.ID
		}
		if _, in := changes.Get(m.Next(d.ID)); !in && last < 0 {
			last = d.ID
		}
	}
	return first, last, first >= 0 && last >= 0
}

// shorterArc walks from a towards b in both directions, excluding b, and
// returns the shorter walk. Ties go to the backward walk.
func shorterArc(m *mesh.Mesh, a, b int) []int {
	if a == b {
		return []int{a}
	}
	walk := func(dir int) []int {
		ids := []int{a}
		for cur := m.NextBy(a, dir); cur != b && len(ids) < m.Len(); cur = m.NextBy(cur, dir) {
			ids = append(ids, cur)
		}
		return ids
	}
	fwd, back := walk(1), walk(-1)
	if len(fwd) < len(back) {
		return fwd
	}
	return back
}

func nearestChanges(source *mesh.Mesh, ds []Displacement, pos geometry.Point, n int) []Displacement {
	sorted := make([]Displacement, 0, len(ds))
	for _, d := range ds {
		if d.ID >= 0 && d.ID < source.Len() {
			sorted = append(sorted, d)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return geometry.Dist(source.Pos(sorted[i].ID), pos) < geometry.Dist(source.Pos(sorted[j].ID), pos)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
