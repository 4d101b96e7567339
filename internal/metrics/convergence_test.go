package metrics

import "testing"

func TestDriftValues(t *testing.T) {
	var d Drift
	if v := d.Observe(1); v != 0 {
		t.Fatalf("first drift %v, want 0", v)
	}
	if v := d.Observe(3); v != 0.5 {
		t.Fatalf("second drift %v, want 0.5", v)
	}
	if v := d.Observe(2); v != 0 {
		t.Fatalf("drift at the mean %v, want 0", v)
	}
	if d.Count() != 3 || d.Mean() != 2 {
		t.Fatalf("count %d mean %v", d.Count(), d.Mean())
	}
}

func TestDriftSettles(t *testing.T) {
	var d Drift
	var last float64
	for i := 1; i <= 2000; i++ {
		x := 1.0
		if i%2 == 0 {
			x = 1.001
		}
		last = d.Observe(x)
	}
	if !Settled(last, 1e-8) {
		t.Fatalf("drift %v did not settle", last)
	}
	if Settled(0, 1e-8) || Settled(last, 0) || Settled(1, 1e-8) {
		t.Fatalf("Settled accepted a zero drift, a disabled threshold or a large drift")
	}
}
