package metrics

// Drift tracks how far each new sample of an observable sits from the
// running mean of all samples so far. The reported value is
// (x - mean)^2 / n, which shrinks as the observable settles.
type Drift struct {
	n   int
	sum float64
}

// Observe adds x and returns its drift.
func (d *Drift) Observe(x float64) float64 {
	d.n++
	d.sum += x
	dev := x - d.sum/float64(d.n)
	return dev * dev / float64(d.n)
}

// Mean is the running mean, zero before the first sample.
func (d *Drift) Mean() float64 {
	if d.n == 0 {
		return 0
	}
	return d.sum / float64(d.n)
}

// Count is the number of samples observed.
func (d *Drift) Count() int { return d.n }

// Settled reports whether a drift value counts as converged: positive and at
// most threshold. A zero drift only happens when a sample equals the mean
// exactly, which early on says nothing about convergence.
func Settled(drift, threshold float64) bool {
	return threshold > 0 && drift > 0 && drift <= threshold
}
