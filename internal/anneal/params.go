package anneal

import (
	"math"

	"sann/internal/perturb"
	"sann/internal/stitch"
	"sann/internal/topology"
)

// Params is the per-run configuration of the annealer.
type Params struct {
	InitialRadius      float64
	InitialThickness   float64
	InitialNumPoints   int
	InitialTemperature float64

	CompressionFactor float64
	// SoftnessFactor is carried through configuration but no operator reads it.
	SoftnessFactor float64
	HowSmooth      int

	MaxMergeStepsAway     int
	NodeAdditionThreshold float64
	NodeDeletionThreshold float64

	LowHigh          [2]float64
	TemperatureParam float64

	Stitch stitch.Strategy
	// Propagation picks how an outer change reaches the inner boundary.
	Propagation perturb.Propagation
	// CheckMerges skips merges that would make the candidate cross itself.
	// Without it such a merge is taken and the oracle rejects the candidate.
	CheckMerges bool
}

// DefaultParams returns a small, stable configuration.
func DefaultParams() Params {
	return Params{
		InitialRadius:         1.0,
		InitialThickness:      0.2,
		InitialNumPoints:      50,
		InitialTemperature:    0,
		CompressionFactor:     1.0,
		SoftnessFactor:        0.5,
		HowSmooth:             3,
		MaxMergeStepsAway:     3,
		NodeAdditionThreshold: 0.2,
		NodeDeletionThreshold: 0.04,
		LowHigh:               [2]float64{0.001, 0.01},
		TemperatureParam:      0,
		Stitch:                stitch.Dijkstra,
		Propagation:           perturb.Stitched,
		CheckMerges:           true,
	}
}

// InitialGrayMatterArea is the band area of the starting annulus.
func (p Params) InitialGrayMatterArea() float64 {
	r := p.InitialRadius
	inner := r - p.InitialThickness
	return math.Pi * (r*r - inner*inner)
}

func (p Params) magnitudes() perturb.Range {
	return perturb.Range{Low: p.LowHigh[0], High: p.LowHigh[1]}
}

func (p Params) smoothing() perturb.Smoothing {
	return perturb.ByCount(p.HowSmooth)
}

func (p Params) thresholds() topology.Thresholds {
	return topology.Thresholds{
		Addition:      p.NodeAdditionThreshold,
		Deletion:      p.NodeDeletionThreshold,
		MaxMergeSteps: p.MaxMergeStepsAway,
		Checked:       p.CheckMerges,
	}
}
