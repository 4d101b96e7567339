//go:build ebiten

package ui

import (
	"image/color"

	"sann/internal/anneal"
	"sann/internal/metrics"
	"sann/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Overlay draws optional debugging visuals on top of the two boundaries.
type Overlay struct {
	painter      *render.MeshPainter
	showStitches bool
	showHull     bool
	ramp         []color.RGBA
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(painter *render.MeshPainter) *Overlay {
	return &Overlay{painter: painter}
}

// Update toggles the layers: 1 for stitch lines, 2 for the convex hull.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showStitches = !o.showStitches
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showHull = !o.showHull
	}
}

// Draw renders the enabled layers onto screen.
func (o *Overlay) Draw(screen *ebiten.Image, snap anneal.Snapshot, vp render.Viewport) {
	if o.showStitches {
		if len(o.ramp) != len(snap.Stitches) {
			o.ramp = render.HueRamp(len(snap.Stitches), 0.6, 0.9, o.painter.Stitch.A)
		}
		for i, s := range snap.Stitches {
			o.painter.Segment(screen, s[0], s[1], vp, o.ramp[i])
		}
	}
	if o.showHull && len(snap.Outer) >= 3 {
		o.painter.Ring(screen, metrics.ConvexHull(snap.Outer), vp, o.painter.Hull)
	}
}
