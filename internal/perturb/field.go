// Package perturb proposes smooth random deformations of a boundary and
// carries them across to the opposite boundary.
package perturb

import (
	"sort"

	"sann/internal/geometry"
	"sann/internal/mesh"
)

// Displacement is a proposed move of one vertex. Ref is the vertex position
// when the move was proposed.
type Displacement struct {
	ID    int
	Ref   geometry.Point
	Delta geometry.Point
}

// Field collects displacements by vertex id. Adding a second displacement
// for an id keeps the first Ref and replaces the delta with the mean of the
// stored and new deltas.
type Field struct {
	byID map[int]Displacement
}

// NewField returns an empty field.
func NewField() *Field {
	return &Field{byID: make(map[int]Displacement)}
}

// Add merges d into the field.
func (f *Field) Add(d Displacement) {
	if old, ok := f.byID[d.ID]; ok {
		old.Delta = old.Delta.Plus(d.Delta).Times(0.5)
		f.byID[d.ID] = old
		return
	}
	f.byID[d.ID] = d
}

// Get returns the displacement stored for id.
func (f *Field) Get(id int) (Displacement, bool) {
	d, ok := f.byID[id]
	return d, ok
}

// Len returns the number of displaced vertices.
func (f *Field) Len() int {
	if f == nil {
		return 0
	}
	return len(f.byID)
}

// IDs returns the displaced vertex ids in ascending order.
func (f *Field) IDs() []int {
	if f == nil {
		return nil
	}
	ids := make([]int, 0, len(f.byID))
	for id := range f.byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Displacements returns the field's entries ordered by id. The combine rule
// is order dependent, so every consumer walks the field this way.
func (f *Field) Displacements() []Displacement {
	ids := f.IDs()
	out := make([]Displacement, len(ids))
	for i, id := range ids {
		out[i] = f.byID[id]
	}
	return out
}

// Apply moves every displaced vertex of m by its delta. Ids outside m are
// ignored.
func Apply(m *mesh.Mesh, f *Field) {
	for _, d := range f.Displacements() {
		if d.ID < 0 || d.ID >= m.Len() {
			continue
		}
		m.Vertices[d.ID].Pos = m.Vertices[d.ID].Pos.Plus(d.Delta)
	}
}

// Revert undoes Apply.
func Revert(m *mesh.Mesh, f *Field) {
	for _, d := range f.Displacements() {
		if d.ID < 0 || d.ID >= m.Len() {
			continue
		}
		m.Vertices[d.ID].Pos = m.Vertices[d.ID].Pos.Minus(d.Delta)
	}
}
