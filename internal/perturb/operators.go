package perturb

import (
	"fmt"

	"sann/internal/geometry"
	"sann/internal/mesh"
	"sann/internal/stitch"
	"sann/pkg/core"
)

// Range bounds the magnitude of a random displacement.
type Range struct {
	Low, High float64
}

// RandomChange displaces one uniformly chosen vertex of m by a vector whose
// length is drawn from r and whose direction is uniform. It draws from rng
// in a fixed order: vertex, magnitude, direction.
func RandomChange(m *mesh.Mesh, r Range, rng *core.RNG) *Field {
	f := NewField()
	if m.Len() == 0 {
		return f
	}
	id := rng.IntN(m.Len())
	magnitude := rng.Range(r.Low, r.High)
	theta := rng.Angle()
	f.Add(Displacement{ID: id, Ref: m.Pos(id), Delta: geometry.Polar(magnitude, theta)})
	return f
}

type smoothingMode int

const (
	byCount smoothingMode = iota
	byArcLength
)

// Smoothing describes how far a seed displacement spreads along the ring.
type Smoothing struct {
	mode   smoothingMode
	count  int
	radius float64
}

// ByCount spreads to n neighbours on each side with weight 1 - k/(n+1) at
// ring distance k.
func ByCount(n int) Smoothing { return Smoothing{mode: byCount, count: n} }

// ByArcLength spreads while the arc length L walked from the seed stays
// below r, with weight 1 - L/r.
func ByArcLength(r float64) Smoothing { return Smoothing{mode: byArcLength, radius: r} }

func (s Smoothing) String() string {
	if s.mode == byArcLength {
		return fmt.Sprintf("arc<%g", s.radius)
	}
	return fmt.Sprintf("count=%d", s.count)
}

// SmoothChangeOut spreads every displacement in seeds over its ring
// neighbourhood. Spreading never goes past half the ring in either
// direction. Overlapping contributions combine by averaging.
func SmoothChangeOut(m *mesh.Mesh, seeds *Field, s Smoothing) *Field {
	out := NewField()
	half := m.Len() / 2
	for _, seed := range seeds.Displacements() {
		out.Add(seed)
		for _, dir := range [2]int{1, -1} {
			spread(m, out, seed, dir, half, s)
		}
	}
	return out
}

func spread(m *mesh.Mesh, out *Field, seed Displacement, dir, half int, s Smoothing) {
	cur := seed.ID
	var walked float64
	for k := 1; k <= half; k++ {
		next := m.NextBy(cur, dir)
		var w float64
		switch s.mode {
		case byCount:
			if k > s.count {
				return
			}
			w = 1 - float64(k)/float64(s.count+1)
		case byArcLength:
			walked += geometry.Dist(m.Pos(cur), m.Pos(next))
			if walked >= s.radius {
				return
			}
			w = 1 - walked/s.radius
		}
		out.Add(Displacement{ID: next, Ref: m.Pos(next), Delta: seed.Delta.Times(w)})
		cur = next
	}
}

// ChangerOfChoice carries the changes made on the source layer over to the
// target mesh. Every correspondent of a changed source vertex receives the
// source delta scaled by compression.
func ChangerOfChoice(target *mesh.Mesh, source mesh.Layer, changes *Field, compression float64, c *stitch.Correspondence) *Field {
	out := NewField()
	for _, d := range changes.Displacements() {
		for _, id := range c.Correspondents(source, d.ID) {
			if id < 0 || id >= target.Len() {
				continue
			}
			out.Add(Displacement{ID: id, Ref: target.Pos(id), Delta: d.Delta.Times(compression)})
		}
	}
	return out
}

// Proposal is a pair of displacement fields, one per boundary.
type Proposal struct {
	Fields [2]*Field
}

// Field returns the displacements proposed for layer l.
func (p Proposal) Field(l mesh.Layer) *Field { return p.Fields[l] }

// Neighbor draws a random change on the pushed layer, smooths it out and
// carries it across to the other layer as carry describes.
func Neighbor(ts *mesh.ThickSurface, pushed mesh.Layer, r Range, s Smoothing, carry Carry, rng *core.RNG) Proposal {
	seed := RandomChange(ts.Layer(pushed), r, rng)
	smoothed := SmoothChangeOut(ts.Layer(pushed), seed, s)
	across := carry.across(ts, pushed, smoothed)

	var p Proposal
	p.Fields[pushed] = smoothed
	p.Fields[pushed.Across()] = across
	return p
}

// ApplyProposal applies both fields of p to ts.
func ApplyProposal(ts *mesh.ThickSurface, p Proposal) {
	for _, l := range mesh.Layers {
		Apply(ts.Layer(l), p.Fields[l])
	}
}

// RevertProposal undoes ApplyProposal.
func RevertProposal(ts *mesh.ThickSurface, p Proposal) {
	for _, l := range mesh.Layers {
		Revert(ts.Layer(l), p.Fields[l])
	}
}
