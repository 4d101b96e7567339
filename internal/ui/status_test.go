package ui

import (
	"strings"
	"testing"

	"sann/internal/anneal"
	"sann/internal/geometry"
)

func TestCounters(t *testing.T) {
	var c Counters
	c.Add(anneal.Outcome{Accepted: true, TopologyChanged: true})
	c.Add(anneal.Outcome{Infeasible: true})
	c.Add(anneal.Outcome{Accepted: true})
	c.Add(anneal.Outcome{TopologyChanged: true})
	if c.Proposed != 4 || c.Accepted != 2 || c.Infeasible != 1 || c.Rebuilds != 1 {
		t.Fatalf("counters %+v", c)
	}
}

func TestStatusLines(t *testing.T) {
	snap := anneal.Snapshot{
		Timestep: 42,
		Energy:   3.25,
		Outer:    make([]geometry.Point, 7),
		Inner:    make([]geometry.Point, 5),
	}
	lines := StatusOf(snap, Counters{Proposed: 4, Accepted: 1}, true).Lines()
	joined := strings.Join(lines, "\n")
	for _, want := range []string{"t 42 (paused)", "E 3.25000", "points 7 / 5", "accepted 25.0%"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("status missing %q:\n%s", want, joined)
		}
	}
	if got := StatusOf(snap, Counters{}, false).Lines()[4]; got != "accepted 0.0%" {
		t.Fatalf("empty counters line %q", got)
	}
}
