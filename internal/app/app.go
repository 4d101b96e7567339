//go:build ebiten

package app

import (
	"log/slog"
	"time"

	"sann/internal/anneal"
	"sann/internal/core"
	"sann/internal/geometry"
	"sann/internal/render"
	"sann/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// vertexEditor is implemented by sims that accept manual vertex edits.
type vertexEditor interface {
	AddVertexNear(p geometry.Point) (bool, error)
	RemoveVertexNear(p geometry.Point) (bool, error)
}

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.MeshPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	stepper *core.FixedStep
	log     *slog.Logger

	width, height int
	hudWidth      int
	viewport      render.Viewport
	snap          anneal.Snapshot
	counters      ui.Counters

	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, cfg *Config, log *slog.Logger) *Game {
	painter := render.NewMeshPainter()
	g := &Game{
		sim:      sim,
		painter:  painter,
		overlay:  ui.NewOverlay(painter),
		hud:      ui.NewHUD(sim, cfg.HUDWidth),
		stepper:  core.NewFixedStep(cfg.SPS),
		log:      log,
		width:    cfg.Width,
		height:   cfg.Height,
		hudWidth: cfg.HUDWidth,
		seed:     cfg.Seed,
	}
	g.refresh(true)
	return g
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) error {
	g.seed = seed
	if err := g.sim.Reset(seed); err != nil {
		return err
	}
	g.counters = ui.Counters{}
	g.tickOnce = false
	g.refresh(true)
	return nil
}

func (g *Game) refresh(refit bool) {
	g.snap = g.sim.Snapshot()
	if refit || !g.viewport.Contains(g.snap) {
		g.viewport = render.NewViewport(render.SnapshotBounds(g.snap, 0.25), g.width, g.height, 16)
	}
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.Reset(g.seed); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if err := g.Reset(time.Now().UnixNano()); err != nil {
			return err
		}
	}
	if err := g.handleMouse(); err != nil {
		return err
	}

	g.overlay.Update()

	steps := g.stepper.Due()
	if g.paused {
		steps = 0
	}
	if g.tickOnce {
		steps = 1
		g.tickOnce = false
	}
	for i := 0; i < steps; i++ {
		out, err := g.sim.Step()
		if err != nil {
			g.log.Error("step failed", "err", err)
			return err
		}
		g.counters.Add(out)
	}
	if steps > 0 {
		g.refresh(false)
	}

	g.hud.Update(g.width, ui.StatusOf(g.snap, g.counters, g.paused))
	return nil
}

// handleMouse adds a vertex on left click and removes the nearest one on
// right click. Clicks on the HUD are ignored.
func (g *Game) handleMouse() error {
	editor, ok := g.sim.(vertexEditor)
	if !ok {
		return nil
	}
	left := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	right := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
	if !left && !right {
		return nil
	}
	mx, my := ebiten.CursorPosition()
	if mx >= g.width {
		return nil
	}
	p := g.viewport.ToWorld(float64(mx), float64(my))
	var (
		changed bool
		err     error
	)
	if left {
		changed, err = editor.AddVertexNear(p)
	} else {
		changed, err = editor.RemoveVertexNear(p)
	}
	if err != nil {
		return err
	}
	if !changed {
		g.log.Debug("edit refused", "at", p, "add", left)
	}
	g.refresh(false)
	return nil
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Draw(screen, g.snap, g.viewport)
	g.overlay.Draw(screen, g.snap, g.viewport)
	g.hud.Draw(screen, g.width, g.height)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width + g.hudWidth, g.height
}
