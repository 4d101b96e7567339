//go:build ebiten

package render

import (
	"image/color"

	"sann/internal/anneal"
	"sann/internal/geometry"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// MeshPainter strokes the two boundaries of a snapshot.
type MeshPainter struct {
	Outer       color.RGBA
	Inner       color.RGBA
	Stitch      color.RGBA
	Hull        color.RGBA
	Background  color.RGBA
	StrokeWidth float32
}

// NewMeshPainter returns a painter with the default palette.
func NewMeshPainter() *MeshPainter {
	return &MeshPainter{
		Outer:       color.RGBA{R: 230, G: 120, B: 140, A: 255},
		Inner:       color.RGBA{R: 240, G: 240, B: 230, A: 255},
		Stitch:      color.RGBA{R: 90, G: 130, B: 170, A: 160},
		Hull:        color.RGBA{R: 102, G: 102, B: 255, A: 200},
		Background:  color.RGBA{R: 12, G: 12, B: 16, A: 255},
		StrokeWidth: 1.5,
	}
}

// Draw clears the view and strokes both rings.
func (p *MeshPainter) Draw(screen *ebiten.Image, snap anneal.Snapshot, vp Viewport) {
	screen.Fill(p.Background)
	p.Ring(screen, snap.Outer, vp, p.Outer)
	p.Ring(screen, snap.Inner, vp, p.Inner)
}

// Ring strokes a closed polyline.
func (p *MeshPainter) Ring(screen *ebiten.Image, pts []geometry.Point, vp Viewport, col color.RGBA) {
	for i, a := range pts {
		b := pts[(i+1)%len(pts)]
		p.Segment(screen, a, b, vp, col)
	}
}

// Segment strokes one line between two world points.
func (p *MeshPainter) Segment(screen *ebiten.Image, a, b geometry.Point, vp Viewport, col color.RGBA) {
	x0, y0 := vp.ToScreen(a)
	x1, y1 := vp.ToScreen(b)
	vector.StrokeLine(screen, x0, y0, x1, y1, p.StrokeWidth, col, true)
}
