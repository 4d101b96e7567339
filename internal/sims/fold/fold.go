// Package fold exposes the annealer as a registered simulation so the CLI and
// the viewer can drive it by name.
package fold

import (
	"log/slog"

	"sann/internal/anneal"
	"sann/internal/core"
	"sann/internal/geometry"
)

// Sim wraps an anneal.State together with the parameters it runs under.
type Sim struct {
	name  string
	cfg   Config
	log   *slog.Logger
	state *anneal.State
}

// New builds a Sim from cfg. The name is what Name reports.
func New(name string, cfg Config, log *slog.Logger) (*Sim, error) {
	s := &Sim{name: name, cfg: cfg, log: log}
	if err := s.Reset(0); err != nil {
		return nil, err
	}
	return s, nil
}

// Name returns the registered name.
func (s *Sim) Name() string { return s.name }

// Config returns the configuration in effect.
func (s *Sim) Config() Config { return s.cfg }

// Params returns the annealer parameters in effect.
func (s *Sim) Params() anneal.Params { return s.cfg.Params }

// State exposes the underlying annealer state for metrics and recording.
func (s *Sim) State() *anneal.State { return s.state }

// Reset rebuilds the starting annulus. A zero seed reuses the configured one.
func (s *Sim) Reset(seed int64) error {
	if seed != 0 {
		s.cfg.Seed = seed
	}
	opts := []anneal.Option{anneal.WithEngine(s.cfg.Engine)}
	if s.log != nil {
		opts = append(opts, anneal.WithLogger(s.log.With("sim", s.name)))
	}
	st, err := anneal.New(s.cfg.Params, s.cfg.Seed, opts...)
	if err != nil {
		return err
	}
	s.state = st
	return nil
}

// Step advances the annealer by one timestep.
func (s *Sim) Step() (anneal.Outcome, error) {
	return s.state.Step(s.cfg.Params)
}

// Snapshot copies the current geometry.
func (s *Sim) Snapshot() anneal.Snapshot {
	return s.state.Snapshot(s.cfg.Params)
}

// AddVertexNear inserts a vertex at p if the surface stays simple.
func (s *Sim) AddVertexNear(p geometry.Point) (bool, error) {
	return s.state.AddVertexNear(p, s.cfg.Params.Stitch)
}

// RemoveVertexNear removes the vertex nearest to p if the surface stays simple.
func (s *Sim) RemoveVertexNear(p geometry.Point) (bool, error) {
	return s.state.RemoveVertexNear(p, s.cfg.Params.Stitch)
}

// Logger is the logger handed to sims built through the registry.
var Logger *slog.Logger

func init() {
	core.Register("fold", func(cfg map[string]string) (core.Sim, error) {
		c, err := FromMap(cfg)
		if err != nil {
			return nil, err
		}
		return New("fold", c, Logger)
	})
	core.Register("fold-revert", func(cfg map[string]string) (core.Sim, error) {
		c, err := FromMap(cfg)
		if err != nil {
			return nil, err
		}
		c.Engine = anneal.MutateRevert
		return New("fold-revert", c, Logger)
	})
}
