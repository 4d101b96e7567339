package anneal

import (
	"errors"
	"math"
	"testing"

	"sann/internal/geometry"
	"sann/internal/mesh"
	"sann/internal/perturb"
	"sann/internal/stitch"
)

func TestEnergyOfStartingAnnulus(t *testing.T) {
	p := DefaultParams()
	ts := mesh.CircularThickSurface(p.InitialRadius, p.InitialThickness, 400)
	e := Energy(ts, p.InitialGrayMatterArea())
	want := math.Pi*0.8*0.8 + 1
	if math.Abs(e-want) > 0.02 {
		t.Fatalf("energy %v, want about %v", e, want)
	}
}

func TestEnergyPenalisesBandDrift(t *testing.T) {
	ts := mesh.CircularThickSurface(1, 0.2, 64)
	band := ts.GrayMatterArea()
	white := ts.Inner().Area()
	if got := Energy(ts, band); math.Abs(got-(white+1)) > 1e-12 {
		t.Fatalf("on-target energy %v, want %v", got, white+1)
	}
	if got := Energy(ts, band+0.5); math.Abs(got-(white+2.25)) > 1e-12 {
		t.Fatalf("drifted energy %v, want %v", got, white+2.25)
	}
}

func TestTemperatureSchedule(t *testing.T) {
	cases := []struct {
		step  uint64
		slope float64
		want  float64
	}{
		{0, 3, 0},
		{4, 0.5, 2},
		{10, -1, 0},
	}
	for _, c := range cases {
		if got := Temperature(c.step, c.slope); got != c.want {
			t.Fatalf("Temperature(%d, %v) = %v, want %v", c.step, c.slope, got, c.want)
		}
	}
}

func TestAcceptProbability(t *testing.T) {
	cases := []struct {
		name               string
		before, after, tmp float64
		want               float64
	}{
		{"infinite", 1, 100, PracticallyInfinity, 1},
		{"improvement", 2, 1, 1, math.E},
		{"worse", 1, 2, 1, 1 / math.E},
		{"cold improvement", 2, 1, 0, 1},
		{"cold worse", 1, 2, 0, 0},
		{"cold equal", 1, 1, 0, 0},
	}
	for _, c := range cases {
		got := AcceptProbability(c.before, c.after, c.tmp)
		if math.Abs(got-c.want) > 1e-12 {
			t.Fatalf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}

func TestParseEngine(t *testing.T) {
	for name, want := range map[string]Engine{"": CloneCommit, "clone": CloneCommit, "revert": MutateRevert} {
		got, err := ParseEngine(name)
		if err != nil || got != want {
			t.Fatalf("ParseEngine(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseEngine("parallel"); err == nil {
		t.Fatalf("expected an error for an unknown engine")
	}
}

func TestNewRejectsBadGeometry(t *testing.T) {
	p := DefaultParams()
	p.InitialNumPoints = 2
	if _, err := New(p, 1); err == nil {
		t.Fatalf("expected an error for two points")
	}
	p = DefaultParams()
	p.InitialThickness = p.InitialRadius
	if _, err := New(p, 1); err == nil {
		t.Fatalf("expected an error for a band as thick as the radius")
	}
}

func TestNewStitchesSurface(t *testing.T) {
	for _, strategy := range []stitch.Strategy{stitch.Dijkstra, stitch.Greedy} {
		p := DefaultParams()
		p.Stitch = strategy
		s, err := New(p, 7)
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Corr.Validate(); err != nil {
			t.Fatalf("%v: %v", strategy, err)
		}
		if s.Timestep != 0 || s.Temperature != p.InitialTemperature {
			t.Fatalf("unexpected schedule %d/%v", s.Timestep, s.Temperature)
		}
	}
}

func runSteps(t *testing.T, s *State, p Params, n int, check func(int, Outcome)) {
	t.Helper()
	for i := 0; i < n; i++ {
		out, err := s.Step(p)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if check != nil {
			check(i, out)
		}
	}
}

func TestLongRunStaysSimple(t *testing.T) {
	for _, engine := range []Engine{CloneCommit, MutateRevert} {
		p := DefaultParams()
		p.InitialNumPoints = 30
		s, err := New(p, 42, WithEngine(engine))
		if err != nil {
			t.Fatal(err)
		}
		accepted := 0
		runSteps(t, s, p, 1000, func(i int, out Outcome) {
			if out.Accepted {
				accepted++
			}
			if at, crossed := s.Surface.Intersection(); crossed {
				t.Fatalf("%v step %d: surface crosses at %v", engine, i, at)
			}
			for _, l := range mesh.Layers {
				n := s.Surface.Layer(l).Len()
				if n < mesh.MinVertices || n > 5000 {
					t.Fatalf("%v step %d: %v has %d vertices", engine, i, l, n)
				}
			}
			if err := s.Corr.Validate(); err != nil {
				t.Fatalf("%v step %d: %v", engine, i, err)
			}
		})
		if s.Timestep != 1000 {
			t.Fatalf("timestep %d, want 1000", s.Timestep)
		}
		if accepted == 0 {
			t.Fatalf("%v: no candidate accepted in 1000 steps", engine)
		}
	}
}

func TestRejectionLeavesStateUntouched(t *testing.T) {
	p := DefaultParams()
	p.InitialNumPoints = 24
	s, err := New(p, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 200; i++ {
		before := s.Snapshot(p)
		out, err := s.Step(p)
		if err != nil {
			t.Fatal(err)
		}
		if out.Accepted {
			continue
		}
		after := s.Snapshot(p)
		if len(after.Outer) != len(before.Outer) || len(after.Inner) != len(before.Inner) {
			t.Fatalf("step %d: rejected step changed vertex counts", i)
		}
		for j := range before.Outer {
			if after.Outer[j] != before.Outer[j] {
				t.Fatalf("step %d: rejected step moved outer vertex %d", i, j)
			}
		}
		if len(after.Stitches) != len(before.Stitches) {
			t.Fatalf("step %d: rejected step changed the correspondence", i)
		}
	}
}

func TestHotRunAcceptsEveryFeasibleCandidate(t *testing.T) {
	p := DefaultParams()
	p.InitialNumPoints = 24
	p.InitialTemperature = PracticallyInfinity
	p.TemperatureParam = PracticallyInfinity
	s, err := New(p, 11)
	if err != nil {
		t.Fatal(err)
	}
	runSteps(t, s, p, 100, func(i int, out Outcome) {
		// The first step resets the temperature to zero.
		if i == 1 {
			return
		}
		if !out.Infeasible && !out.Accepted {
			t.Fatalf("step %d: feasible candidate rejected at high temperature", i)
		}
	})
}

func TestEnginesAgree(t *testing.T) {
	p := DefaultParams()
	p.InitialNumPoints = 24
	clone, err := New(p, 99, WithEngine(CloneCommit))
	if err != nil {
		t.Fatal(err)
	}
	revert, err := New(p, 99, WithEngine(MutateRevert))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 300; i++ {
		a, err := clone.Step(p)
		if err != nil {
			t.Fatal(err)
		}
		b, err := revert.Step(p)
		if err != nil {
			t.Fatal(err)
		}
		if a.Accepted != b.Accepted || a.Infeasible != b.Infeasible || a.TopologyChanged != b.TopologyChanged {
			t.Fatalf("step %d: outcomes diverge %+v vs %+v", i, a, b)
		}
	}
	sa, sb := clone.Snapshot(p), revert.Snapshot(p)
	if len(sa.Outer) != len(sb.Outer) || len(sa.Inner) != len(sb.Inner) {
		t.Fatalf("vertex counts diverge")
	}
	for i := range sa.Outer {
		if geometry.Dist(sa.Outer[i], sb.Outer[i]) > 1e-9 {
			t.Fatalf("outer vertex %d diverges: %v vs %v", i, sa.Outer[i], sb.Outer[i])
		}
	}
	for i := range sa.Inner {
		if geometry.Dist(sa.Inner[i], sb.Inner[i]) > 1e-9 {
			t.Fatalf("inner vertex %d diverges: %v vs %v", i, sa.Inner[i], sb.Inner[i])
		}
	}
}

func TestThresholdsFollowCheckMerges(t *testing.T) {
	p := DefaultParams()
	if !p.thresholds().Checked {
		t.Fatalf("merges unchecked by default")
	}
	p.CheckMerges = false
	if p.thresholds().Checked {
		t.Fatalf("CheckMerges=false still checks merges")
	}
}

func TestPushedUncheckedRunStaysSimple(t *testing.T) {
	p := DefaultParams()
	p.InitialNumPoints = 30
	p.Propagation = perturb.Pushed
	p.CheckMerges = false
	clone, err := New(p, 17, WithEngine(CloneCommit))
	if err != nil {
		t.Fatal(err)
	}
	revert, err := New(p, 17, WithEngine(MutateRevert))
	if err != nil {
		t.Fatal(err)
	}
	accepted := 0
	for i := 0; i < 600; i++ {
		a, err := clone.Step(p)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		b, err := revert.Step(p)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if a.Accepted != b.Accepted || a.Infeasible != b.Infeasible {
			t.Fatalf("step %d: outcomes diverge %+v vs %+v", i, a, b)
		}
		if a.Accepted {
			accepted++
		}
		for _, s := range []*State{clone, revert} {
			if at, crossed := s.Surface.Intersection(); crossed {
				t.Fatalf("step %d: surface crosses at %v", i, at)
			}
			if err := s.Corr.Validate(); err != nil {
				t.Fatalf("step %d: %v", i, err)
			}
		}
	}
	if accepted == 0 {
		t.Fatalf("no pushed candidate accepted in 600 steps")
	}
}

func TestInvariantErrorUnwraps(t *testing.T) {
	err := error(&InvariantError{Op: "revert", Err: ErrRevertedIntersection})
	if !errors.Is(err, ErrInvariant) || !errors.Is(err, ErrRevertedIntersection) {
		t.Fatalf("errors.Is failed for %v", err)
	}
	var ie *InvariantError
	if !errors.As(err, &ie) || ie.Op != "revert" {
		t.Fatalf("errors.As failed for %v", err)
	}
}

func TestManualEditsRestitch(t *testing.T) {
	p := DefaultParams()
	p.InitialNumPoints = 16
	s, err := New(p, 5)
	if err != nil {
		t.Fatal(err)
	}
	outer := s.Surface.Outer().Len()
	added, err := s.AddVertexNear(geometry.Point{X: 1.05, Y: 0.05}, p.Stitch)
	if err != nil || !added {
		t.Fatalf("AddVertexNear = %v, %v", added, err)
	}
	if s.Surface.Outer().Len() != outer+1 || s.Corr.Size(mesh.Outer) != outer+1 {
		t.Fatalf("outer not grown and restitched")
	}
	removed, err := s.RemoveVertexNear(geometry.Point{X: 1.05, Y: 0.05}, p.Stitch)
	if err != nil || !removed {
		t.Fatalf("RemoveVertexNear = %v, %v", removed, err)
	}
	if s.Surface.Outer().Len() != outer || s.Corr.Size(mesh.Outer) != outer {
		t.Fatalf("outer not shrunk and restitched")
	}
}
