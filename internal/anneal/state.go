// Package anneal drives the folding simulation: it proposes deformations,
// keeps boundary resolution in check, and accepts or rejects each candidate
// with the Metropolis rule.
package anneal

import (
	"fmt"
	"io"
	"log/slog"

	"sann/internal/geometry"
	"sann/internal/mesh"
	"sann/internal/stitch"
	"sann/pkg/core"
)

// Engine selects how a step stages its candidate.
type Engine int

const (
	// CloneCommit evaluates an independent copy and swaps it in on accept.
	CloneCommit Engine = iota
	// MutateRevert edits the live surface and undoes the edit on reject.
	MutateRevert
)

func (e Engine) String() string {
	switch e {
	case CloneCommit:
		return "clone"
	case MutateRevert:
		return "revert"
	default:
		return fmt.Sprintf("engine(%d)", int(e))
	}
}

// ParseEngine maps an engine name to its value. The empty name selects
// CloneCommit.
func ParseEngine(name string) (Engine, error) {
	switch name {
	case "", "clone":
		return CloneCommit, nil
	case "revert":
		return MutateRevert, nil
	default:
		return 0, fmt.Errorf("unknown engine %q", name)
	}
}

// State is the evolving simulation. It owns its random source; nothing else
// draws from it.
type State struct {
	Surface     *mesh.ThickSurface
	Corr        *stitch.Correspondence
	Temperature float64
	Timestep    uint64

	rng    *core.RNG
	engine Engine
	log    *slog.Logger
}

// Option configures a State.
type Option func(*State)

// WithLogger routes diagnostics to l.
func WithLogger(l *slog.Logger) Option {
	return func(s *State) {
		if l != nil {
			s.log = l
		}
	}
}

// WithEngine selects the step strategy.
func WithEngine(e Engine) Option {
	return func(s *State) { s.engine = e }
}

// New builds the initial annulus from p and aligns its boundaries.
func New(p Params, seed int64, opts ...Option) (*State, error) {
	if p.InitialNumPoints < mesh.MinVertices {
		return nil, fmt.Errorf("anneal: need at least %d points, got %d", mesh.MinVertices, p.InitialNumPoints)
	}
	if p.InitialThickness <= 0 || p.InitialThickness >= p.InitialRadius {
		return nil, fmt.Errorf("anneal: thickness %g must lie in (0, radius %g)", p.InitialThickness, p.InitialRadius)
	}
	s := &State{
		Surface:     mesh.CircularThickSurface(p.InitialRadius, p.InitialThickness, p.InitialNumPoints),
		Temperature: p.InitialTemperature,
		rng:         core.NewRNG(seed),
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.restitch(p.Stitch); err != nil {
		return nil, err
	}
	return s, nil
}

// Engine reports the step strategy in use.
func (s *State) Engine() Engine { return s.engine }

// Energy scores the current surface.
func (s *State) Energy(p Params) float64 {
	return Energy(s.Surface, p.InitialGrayMatterArea())
}

func (s *State) restitch(strategy stitch.Strategy) error {
	c, err := stitch.Build(s.Surface, strategy)
	if err != nil {
		return s.invariant("stitch", err, s.Surface)
	}
	s.Corr = c
	return nil
}

func (s *State) invariant(op string, err error, ts *mesh.ThickSurface) error {
	ierr := &InvariantError{
		Op:    op,
		Err:   err,
		Outer: ts.Outer().OrderedPoints(),
		Inner: ts.Inner().OrderedPoints(),
	}
	s.log.Error("invariant violated",
		"op", op,
		"err", err,
		"timestep", s.Timestep,
		"outer", ierr.Outer,
		"inner", ierr.Inner,
	)
	return ierr
}

// AddVertexNear inserts a vertex at pt on the nearest boundary if doing so
// keeps the surface simple, then realigns the boundaries.
func (s *State) AddVertexNear(pt geometry.Point, strategy stitch.Strategy) (bool, error) {
	if !s.Surface.BestEffortAdd(pt) {
		return false, nil
	}
	return true, s.restitch(strategy)
}

// RemoveVertexNear merges the vertex nearest to pt into its predecessor if
// doing so keeps the surface simple, then realigns the boundaries.
func (s *State) RemoveVertexNear(pt geometry.Point, strategy stitch.Strategy) (bool, error) {
	if !s.Surface.BestEffortDelete(pt) {
		return false, nil
	}
	return true, s.restitch(strategy)
}
