package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"strings"
	"time"

	"sann/internal/config"
	"sann/internal/sims/fold"

	"github.com/dustin/go-humanize"
)

type kvList []string

func (k *kvList) String() string {
	return strings.Join(*k, ",")
}

func (k *kvList) Set(v string) error {
	*k = append(*k, v)
	return nil
}

// axis is one swept parameter and the values it takes.
type axis struct {
	key    string
	values []string
}

type job struct {
	label string
	cfg   fold.Config
}

func main() {
	configPath := flag.String("config", "", "parameters TOML file used as the base")
	steps := flag.Int("steps", 20000, "timesteps per run")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	seeds := flag.Int("seeds", 1, "runs per parameter set, seeded from the base seed upwards")
	metricList := flag.String("metrics", "outer perimeter,gray matter area,K", "metrics reported per run")
	top := flag.Int("top", 10, "how many runs to print")
	var vary kvList
	flag.Var(&vary, "vary", "swept parameter key=v1|v2|... (repeatable)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	base := fold.DefaultConfig()
	if *configPath != "" {
		file, err := config.Load(*configPath)
		if err != nil {
			logger.Error("load config", "err", err)
			os.Exit(1)
		}
		base = fold.Config{Seed: file.Seed, Engine: file.Engine, Params: file.Params}
	}
	axes, err := parseAxes(vary)
	if err != nil {
		logger.Error("parse -vary", "err", err)
		os.Exit(2)
	}
	jobs, err := expand(base, axes, *seeds)
	if err != nil {
		logger.Error("parse -vary", "err", err)
		os.Exit(2)
	}
	names := splitList(*metricList)

	fmt.Printf("Sweeping %d runs (%d workers, %s steps each)\n", len(jobs), *workers, humanize.Comma(int64(*steps)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfgs := make([]fold.Config, len(jobs))
	for i, j := range jobs {
		cfgs[i] = j.cfg
	}
	start := time.Now()
	results, err := fold.Sweep(ctx, cfgs, *steps, *workers, names)
	if err != nil && len(results) == 0 {
		logger.Error("sweep", "err", err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	var failed int
	for _, res := range results {
		if res.Err != nil {
			failed++
			logger.Warn("run failed", "run", jobs[res.Index].label, "err", res.Err)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Energy < results[j].Energy
	})

	fmt.Printf("\nLowest energy runs (elapsed %s, %d failed):\n", elapsed.Round(time.Millisecond), failed)
	for i := 0; i < len(results) && i < *top; i++ {
		res := results[i]
		if res.Err != nil {
			break
		}
		fmt.Printf("%2d) energy=%.5f accepted=%s %s %s\n", i+1, res.Energy, humanize.Comma(int64(res.Accepted)),
			formatMetrics(names, res.Metrics), jobs[res.Index].label)
	}
}

func parseAxes(kvs kvList) ([]axis, error) {
	var axes []axis
	for _, kv := range kvs {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid -vary %q, expected key=v1|v2", kv)
		}
		key := strings.TrimSpace(parts[0])
		if !fold.IsKey(key) {
			return nil, fmt.Errorf("unknown parameter %q", key)
		}
		var values []string
		for _, v := range strings.Split(parts[1], "|") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("no values for %q", key)
		}
		axes = append(axes, axis{key: key, values: values})
	}
	return axes, nil
}

// expand builds the cartesian product of axes, each combination repeated for
// seeds consecutive seeds. It fails on the first combination that does not
// make a valid config.
func expand(base fold.Config, axes []axis, seeds int) ([]job, error) {
	if seeds < 1 {
		seeds = 1
	}
	combos := []map[string]string{{}}
	for _, ax := range axes {
		next := make([]map[string]string, 0, len(combos)*len(ax.values))
		for _, combo := range combos {
			for _, v := range ax.values {
				m := make(map[string]string, len(combo)+1)
				for k, cv := range combo {
					m[k] = cv
				}
				m[ax.key] = v
				next = append(next, m)
			}
		}
		combos = next
	}

	var jobs []job
	for _, combo := range combos {
		cfg, err := fold.Apply(base, combo)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", label(axes, combo, base.Seed), err)
		}
		for s := 0; s < seeds; s++ {
			c := cfg
			c.Seed = cfg.Seed + int64(s)
			jobs = append(jobs, job{label: label(axes, combo, c.Seed), cfg: c})
		}
	}
	return jobs, nil
}

func label(axes []axis, combo map[string]string, seed int64) string {
	parts := make([]string, 0, len(axes)+1)
	for _, ax := range axes {
		parts = append(parts, ax.key+"="+combo[ax.key])
	}
	parts = append(parts, fmt.Sprintf("seed=%d", seed))
	return strings.Join(parts, " ")
}

func formatMetrics(names []string, values []float64) string {
	parts := make([]string, 0, len(names))
	for i, name := range names {
		if i < len(values) {
			parts = append(parts, fmt.Sprintf("%s=%.4g", strings.ReplaceAll(name, " ", "_"), values[i]))
		}
	}
	return strings.Join(parts, " ")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
