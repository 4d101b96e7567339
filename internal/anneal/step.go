package anneal

import (
	"fmt"

	"sann/internal/geometry"
	"sann/internal/mesh"
	"sann/internal/perturb"
	"sann/internal/topology"
)

// Outcome describes what a single step did.
type Outcome struct {
	Accepted        bool
	Infeasible      bool
	TopologyChanged bool
	EnergyBefore    float64
	EnergyAfter     float64
	Probability     float64
}

// Step proposes one candidate, decides on it and advances the schedule. A
// rejected candidate leaves the surface and correspondence as they were. An
// error is only returned for an InvariantError.
func (s *State) Step(p Params) (Outcome, error) {
	var (
		out Outcome
		err error
	)
	switch s.engine {
	case CloneCommit:
		out, err = s.stepClone(p)
	case MutateRevert:
		out, err = s.stepRevert(p)
	default:
		return Outcome{}, fmt.Errorf("anneal: unsupported %v", s.engine)
	}
	if err != nil {
		return out, err
	}
	s.Temperature = Temperature(s.Timestep, p.TemperatureParam)
	s.Timestep++
	return out, nil
}

func (s *State) propose(p Params, ts *mesh.ThickSurface) perturb.Proposal {
	carry := perturb.Carry{Mode: p.Propagation, Compression: p.CompressionFactor, Corr: s.Corr}
	return perturb.Neighbor(ts, mesh.Outer, p.magnitudes(), p.smoothing(), carry, s.rng)
}

// decide fills in the feasibility and acceptance of a candidate. The coin is
// drawn whether or not the candidate is feasible so the random stream does not
// depend on the oracle.
func (s *State) decide(p Params, cand *mesh.ThickSurface, out *Outcome) {
	target := p.InitialGrayMatterArea()
	out.EnergyAfter = Energy(cand, target)
	coin := s.rng.Float64()
	if at, crossed := cand.Intersection(); crossed {
		out.Infeasible = true
		s.log.Debug("candidate rejected", "timestep", s.Timestep, "reason", "intersection", "at", at)
		return
	}
	out.Probability = AcceptProbability(out.EnergyBefore, out.EnergyAfter, s.Temperature)
	out.Accepted = coin < out.Probability
	if !out.Accepted {
		s.log.Debug("candidate rejected",
			"timestep", s.Timestep,
			"reason", "energy",
			"before", out.EnergyBefore,
			"after", out.EnergyAfter,
			"p", out.Probability,
		)
	}
}

func (s *State) stepClone(p Params) (Outcome, error) {
	out := Outcome{EnergyBefore: s.Energy(p)}
	prop := s.propose(p, s.Surface)

	cand := s.Surface.Clone()
	perturb.ApplyProposal(cand, prop)
	changed, err := topology.Maintain(cand, p.thresholds(), nil)
	if err != nil {
		return out, s.invariant("maintain", err, cand)
	}
	out.TopologyChanged = changed

	s.decide(p, cand, &out)
	if !out.Accepted {
		return out, nil
	}
	s.Surface = cand
	return out, s.afterCommit(p, changed)
}

func (s *State) stepRevert(p Params) (Outcome, error) {
	out := Outcome{EnergyBefore: s.Energy(p)}
	prop := s.propose(p, s.Surface)

	perturb.ApplyProposal(s.Surface, prop)
	var journal [2][]mesh.Vertex
	changed, err := topology.Maintain(s.Surface, p.thresholds(), func(l mesh.Layer) {
		if journal[l] == nil {
			journal[l] = append([]mesh.Vertex(nil), s.Surface.Layer(l).Vertices...)
		}
	})
	if err != nil {
		return out, s.invariant("maintain", err, s.Surface)
	}
	out.TopologyChanged = changed

	s.decide(p, s.Surface, &out)
	if out.Accepted {
		return out, s.afterCommit(p, changed)
	}

	for _, l := range mesh.Layers {
		if journal[l] != nil {
			s.Surface.Layer(l).Vertices = journal[l]
		}
	}
	perturb.RevertProposal(s.Surface, prop)
	if _, crossed := s.Surface.Intersection(); crossed {
		return out, s.invariant("revert", ErrRevertedIntersection, s.Surface)
	}
	return out, nil
}

// afterCommit re-establishes the boundary alignment once a candidate whose
// vertex counts changed has been committed.
func (s *State) afterCommit(p Params, changed bool) error {
	if !changed {
		return nil
	}
	if err := s.Surface.Validate(); err != nil {
		return s.invariant("commit", err, s.Surface)
	}
	return s.restitch(p.Stitch)
}

// Snapshot is a read-only copy of what a renderer or recorder needs.
type Snapshot struct {
	Outer       []geometry.Point
	Inner       []geometry.Point
	Stitches    [][2]geometry.Point
	Timestep    uint64
	Energy      float64
	Temperature float64
}

// Snapshot copies the current surface and its stitch lines.
func (s *State) Snapshot(p Params) Snapshot {
	snap := Snapshot{
		Outer:       s.Surface.Outer().OrderedPoints(),
		Inner:       s.Surface.Inner().OrderedPoints(),
		Timestep:    s.Timestep,
		Energy:      s.Energy(p),
		Temperature: s.Temperature,
	}
	if s.Corr != nil {
		for _, pair := range s.Corr.Pairs() {
			snap.Stitches = append(snap.Stitches, [2]geometry.Point{
				s.Surface.Outer().Pos(pair[0]),
				s.Surface.Inner().Pos(pair[1]),
			})
		}
	}
	return snap
}
