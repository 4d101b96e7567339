package ui

import (
	"fmt"

	"sann/internal/anneal"
)

// Counters accumulates step outcomes between resets.
type Counters struct {
	Proposed   int
	Accepted   int
	Infeasible int
	Rebuilds   int
}

// Add folds one outcome into the counters.
func (c *Counters) Add(o anneal.Outcome) {
	c.Proposed++
	if o.Accepted {
		c.Accepted++
		if o.TopologyChanged {
			c.Rebuilds++
		}
	}
	if o.Infeasible {
		c.Infeasible++
	}
}

// Status is what the HUD prints above the controls.
type Status struct {
	Timestep    uint64
	Energy      float64
	Temperature float64
	Outer       int
	Inner       int
	Paused      bool
	Counters    Counters
}

// StatusOf builds a Status from a snapshot.
func StatusOf(snap anneal.Snapshot, c Counters, paused bool) Status {
	return Status{
		Timestep:    snap.Timestep,
		Energy:      snap.Energy,
		Temperature: snap.Temperature,
		Outer:       len(snap.Outer),
		Inner:       len(snap.Inner),
		Paused:      paused,
		Counters:    c,
	}
}

// Lines renders the status as display text.
func (s Status) Lines() []string {
	state := "running"
	if s.Paused {
		state = "paused"
	}
	rate := 0.0
	if s.Counters.Proposed > 0 {
		rate = 100 * float64(s.Counters.Accepted) / float64(s.Counters.Proposed)
	}
	return []string{
		fmt.Sprintf("t %d (%s)", s.Timestep, state),
		fmt.Sprintf("E %.5f", s.Energy),
		fmt.Sprintf("T %.4g", s.Temperature),
		fmt.Sprintf("points %d / %d", s.Outer, s.Inner),
		fmt.Sprintf("accepted %.1f%%", rate),
		fmt.Sprintf("crossing %d  rebuilt %d", s.Counters.Infeasible, s.Counters.Rebuilds),
	}
}
