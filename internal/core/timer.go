package core

import "time"

// FixedStep paces annealing steps against wall-clock time. Each frame asks how
// many steps are owed; the answer is capped so a slow frame cannot trigger an
// unbounded burst.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	maxBurst    int
	now         func() time.Time
}

// FixedStepOption configures a FixedStep.
type FixedStepOption func(*FixedStep)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) FixedStepOption {
	return func(f *FixedStep) {
		if now != nil {
			f.now = now
		}
	}
}

// WithMaxBurst caps the steps returned by a single Due call.
func WithMaxBurst(n int) FixedStepOption {
	return func(f *FixedStep) {
		if n > 0 {
			f.maxBurst = n
		}
	}
}

// NewFixedStep constructs a FixedStep targeting the given steps per second.
// The first call to Due yields one step.
func NewFixedStep(sps int, opts ...FixedStepOption) *FixedStep {
	f := &FixedStep{maxBurst: 8, now: time.Now}
	for _, opt := range opts {
		opt(f)
	}
	f.SetRate(sps)
	f.accumulator = f.step
	return f
}

// SetRate changes the step rate. Non-positive rates fall back to 60.
func (f *FixedStep) SetRate(sps int) {
	if sps <= 0 {
		sps = 60
	}
	f.step = time.Second / time.Duration(sps)
}

// Rate reports the current steps per second.
func (f *FixedStep) Rate() int {
	return int(time.Second / f.step)
}

// Due returns how many steps should run now.
func (f *FixedStep) Due() int {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now

	n := int(f.accumulator / f.step)
	if n > f.maxBurst {
		n = f.maxBurst
		f.accumulator = 0
		return n
	}
	f.accumulator -= time.Duration(n) * f.step
	return n
}
