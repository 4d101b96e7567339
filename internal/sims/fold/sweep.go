package fold

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"sann/internal/metrics"
)

// SweepResult is the end state of one run in a sweep.
type SweepResult struct {
	Index    int
	Config   Config
	Energy   float64
	Metrics  []float64
	Accepted int
	Err      error
}

// Sweep runs every config for steps timesteps on a pool of workers and
// samples the named metrics at the end. Results come back in the order of
// configs. A run that hits an invariant error reports it in Err and does not
// stop the others.
func Sweep(ctx context.Context, configs []Config, steps, workers int, names []string) ([]SweepResult, error) {
	fns, err := metrics.Resolve(names)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	jobs := make(chan int)
	results := make(chan SweepResult)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results <- runOne(ctx, idx, configs[idx], steps, fns)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		defer close(jobs)
		for idx := range configs {
			select {
			case jobs <- idx:
			case <-ctx.Done():
				return
			}
		}
	}()

	out := make([]SweepResult, len(configs))
	done := make([]bool, len(configs))
	for res := range results {
		out[res.Index] = res
		done[res.Index] = true
	}
	for i := range out {
		if !done[i] {
			out[i] = SweepResult{Index: i, Config: configs[i], Err: ctx.Err()}
		}
	}
	return out, ctx.Err()
}

func runOne(ctx context.Context, idx int, cfg Config, steps int, fns []metrics.Func) SweepResult {
	res := SweepResult{Index: idx, Config: cfg}
	sim, err := New(fmt.Sprintf("sweep-%d", idx), cfg, nil)
	if err != nil {
		res.Err = err
		return res
	}
	for i := 0; i < steps; i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				res.Err = err
				return res
			}
		}
		out, err := sim.Step()
		if err != nil {
			res.Err = err
			return res
		}
		if out.Accepted {
			res.Accepted++
		}
	}
	st := sim.State()
	res.Energy = st.Energy(cfg.Params)
	res.Metrics = metrics.Sample(fns, st.Surface, cfg.Params)
	return res
}
