// Package topology keeps boundary resolution in step with the shape: it
// subdivides stretched edges and collapses vertices that have drawn close.
// Each pass performs at most one operation per mesh so the resolution
// changes at a bounded rate.
package topology

import (
	"fmt"

	"sann/internal/geometry"
	"sann/internal/mesh"
)

// Addition describes a vertex to insert after After at Pos.
type Addition struct {
	After int
	Pos   geometry.Point
}

// FindAddition scans the edges of m in ring order from vertex 0 and returns
// the first edge longer than threshold, split at its midpoint.
func FindAddition(m *mesh.Mesh, threshold float64) (Addition, bool) {
	for _, id := range m.Ring() {
		next := m.Next(id)
		if geometry.Dist(m.Pos(id), m.Pos(next)) > threshold {
			return Addition{After: id, Pos: geometry.Midpoint(m.Pos(id), m.Pos(next))}, true
		}
	}
	return Addition{}, false
}

// Insert applies a and returns the new vertex id.
func Insert(m *mesh.Mesh, a Addition) int {
	return m.InsertAfter(a.After, a.Pos)
}

// InsertPass splits at most one overlong edge of m and reports whether it
// did.
func InsertPass(m *mesh.Mesh, threshold float64) bool {
	a, ok := FindAddition(m, threshold)
	if !ok {
		return false
	}
	Insert(m, a)
	return true
}

// Merging collapses Src and the vertex Steps ahead of it, together with the
// vertices between them, into one survivor.
type Merging struct {
	Layer    mesh.Layer
	Src      int
	Steps    int
	Survivor geometry.Point
}

func (mg Merging) String() string {
	return fmt.Sprintf("%s %d+%d -> (%.4g, %.4g)", mg.Layer, mg.Src, mg.Steps, mg.Survivor.X, mg.Survivor.Y)
}

// FindMerge looks up to maxSteps vertices ahead of src on layer for one
// closer than threshold. When checked is set a candidate whose merge would
// make any edges cross is skipped in favour of the next one further along.
func FindMerge(ts *mesh.ThickSurface, layer mesh.Layer, src int, threshold float64, maxSteps int, checked bool) (Merging, bool) {
	m := ts.Layer(layer)
	for k := 1; k <= maxSteps; k++ {
		if m.Len()-k < mesh.MinVertices {
			break
		}
		other := m.NextBy(src, k)
		if geometry.Dist(m.Pos(src), m.Pos(other)) >= threshold {
			continue
		}
		mg := Merging{
			Layer:    layer,
			Src:      src,
			Steps:    k,
			Survivor: geometry.Midpoint(m.Pos(src), m.Pos(other)),
		}
		if checked && !mergeKeepsSimple(ts, mg) {
			continue
		}
		return mg, true
	}
	return Merging{}, false
}

// Merge applies mg to ts and returns the survivor's id. Vertex ids on the
// merged layer are renumbered.
func Merge(ts *mesh.ThickSurface, mg Merging) (int, error) {
	id, err := ts.Layer(mg.Layer).Merge(mg.Src, mg.Steps, mg.Survivor)
	if err != nil {
		return 0, fmt.Errorf("merge %s: %w", mg, err)
	}
	return id, nil
}

func mergeKeepsSimple(ts *mesh.ThickSurface, mg Merging) bool {
	c := ts.Clone()
	if _, err := Merge(c, mg); err != nil {
		return false
	}
	_, crossed := c.Intersection()
	return !crossed
}

// DeletePass tries every vertex of layer in ring order as a merge source and
// applies the first merge found. It reports whether a merge happened.
func DeletePass(ts *mesh.ThickSurface, layer mesh.Layer, threshold float64, maxSteps int, checked bool) (bool, error) {
	mg, ok := firstMerge(ts, layer, threshold, maxSteps, checked)
	if !ok {
		return false, nil
	}
	if _, err := Merge(ts, mg); err != nil {
		return false, err
	}
	return true, nil
}

func firstMerge(ts *mesh.ThickSurface, layer mesh.Layer, threshold float64, maxSteps int, checked bool) (Merging, bool) {
	for _, id := range ts.Layer(layer).Ring() {
		if mg, ok := FindMerge(ts, layer, id, threshold, maxSteps, checked); ok {
			return mg, true
		}
	}
	return Merging{}, false
}

// Thresholds groups the distances and search depth used by Maintain.
type Thresholds struct {
	Addition      float64
	Deletion      float64
	MaxMergeSteps int
	Checked       bool
}

// Maintain runs an insertion pass then a deletion pass on each boundary of
// ts, outer first. When before is non-nil it is called with each layer just
// ahead of modifying it. It reports whether any vertex was added or removed.
func Maintain(ts *mesh.ThickSurface, th Thresholds, before func(mesh.Layer)) (bool, error) {
	changed := false
	for _, l := range mesh.Layers {
		if a, ok := FindAddition(ts.Layer(l), th.Addition); ok {
			notify(before, l)
			Insert(ts.Layer(l), a)
			changed = true
		}
		if mg, ok := firstMerge(ts, l, th.Deletion, th.MaxMergeSteps, th.Checked); ok {
			notify(before, l)
			if _, err := Merge(ts, mg); err != nil {
				return changed, err
			}
			changed = true
		}
	}
	return changed, nil
}

func notify(before func(mesh.Layer), l mesh.Layer) {
	if before != nil {
		before(l)
	}
}
