package render

import (
	"math"

	"sann/internal/anneal"
	"sann/internal/geometry"

	"github.com/jbeda/geom"
)

// Viewport maps world coordinates onto a W×H pixel area. World y grows
// upwards; screen y grows downwards. The aspect ratio is preserved and the
// world bounds are centred.
type Viewport struct {
	Bounds geom.Rect
	W, H   int

	scale      float64
	offX, offY float64
}

// NewViewport fits bounds into a w×h area leaving margin pixels on every side.
func NewViewport(bounds geom.Rect, w, h, margin int) Viewport {
	v := Viewport{Bounds: bounds, W: w, H: h}
	availW := float64(w - 2*margin)
	availH := float64(h - 2*margin)
	bw, bh := bounds.Width(), bounds.Height()
	if bw <= 0 || bh <= 0 || availW <= 0 || availH <= 0 {
		v.scale = 1
		return v
	}
	v.scale = math.Min(availW/bw, availH/bh)
	v.offX = (float64(w) - bw*v.scale) / 2
	v.offY = (float64(h) - bh*v.scale) / 2
	return v
}

// Scale reports pixels per world unit.
func (v Viewport) Scale() float64 { return v.scale }

// ToScreen converts a world point to pixel coordinates.
func (v Viewport) ToScreen(p geometry.Point) (float32, float32) {
	x := v.offX + (p.X-v.Bounds.Min.X)*v.scale
	y := float64(v.H) - v.offY - (p.Y-v.Bounds.Min.Y)*v.scale
	return float32(x), float32(y)
}

// ToWorld converts pixel coordinates back to a world point.
func (v Viewport) ToWorld(x, y float64) geometry.Point {
	return geometry.Point{
		X: v.Bounds.Min.X + (x-v.offX)/v.scale,
		Y: v.Bounds.Min.Y + (float64(v.H)-v.offY-y)/v.scale,
	}
}

// Contains reports whether every point of snap lies inside the bounds.
func (v Viewport) Contains(snap anneal.Snapshot) bool {
	for _, ring := range [][]geometry.Point{snap.Outer, snap.Inner} {
		for _, p := range ring {
			if !v.Bounds.ContainsCoord(p) {
				return false
			}
		}
	}
	return true
}

// SnapshotBounds is the bounding box of both boundaries, padded by pad on
// each side.
func SnapshotBounds(snap anneal.Snapshot, pad float64) geom.Rect {
	var r geom.Rect
	first := true
	for _, ring := range [][]geometry.Point{snap.Outer, snap.Inner} {
		for _, p := range ring {
			if first {
				r = geom.Rect{Min: p, Max: p}
				first = false
				continue
			}
			r.ExpandToContainCoord(p)
		}
	}
	r.Min = r.Min.Minus(geometry.Point{X: pad, Y: pad})
	r.Max = r.Max.Plus(geometry.Point{X: pad, Y: pad})
	return r
}
