package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"sann/internal/anneal"
	"sann/internal/config"
	"sann/internal/core"
	"sann/internal/geometry"
	"sann/internal/metrics"
	"sann/internal/record"
	"sann/internal/sims/fold"

	"github.com/guptarohit/asciigraph"
)

type kvList []string

func (k *kvList) String() string {
	return strings.Join(*k, ",")
}

func (k *kvList) Set(v string) error {
	*k = append(*k, v)
	return nil
}

type options struct {
	configPath  string
	sim         string
	steps       int
	seed        int64
	recordEvery int
	metrics     string
	output      string
	store       string
	db          string
	chart       string
	chartMetric string
	plot        bool
	verbose     bool
	overrides   kvList
	coords      string
	coordsEvery int
	converge    float64
}

// annealer is what the CLI needs from a registered sim beyond core.Sim.
type annealer interface {
	core.Sim
	Config() fold.Config
	State() *anneal.State
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "parameters TOML file")
	flag.StringVar(&opts.sim, "sim", "fold", "simulation: "+strings.Join(core.Names(), ", "))
	flag.IntVar(&opts.steps, "steps", 0, "timesteps to run (0 uses the file's steps, or 10000)")
	flag.Int64Var(&opts.seed, "seed", 0, "random seed (0 keeps the configured seed)")
	flag.IntVar(&opts.recordEvery, "record-every", 0, "sample metrics every N timesteps")
	flag.StringVar(&opts.metrics, "metrics", "", "comma separated recorders, overrides the file")
	flag.StringVar(&opts.output, "out", "", "CSV output path, overrides output_file_path")
	flag.StringVar(&opts.store, "store", "memory", "run store: memory or sqlite")
	flag.StringVar(&opts.db, "db", "sann.db", "sqlite database path")
	flag.StringVar(&opts.chart, "chart", "", "write a PNG chart of one recorded metric")
	flag.StringVar(&opts.chartMetric, "chart-metric", "energy", "metric drawn by -chart")
	flag.BoolVar(&opts.plot, "plot", true, "print an energy plot when done")
	flag.BoolVar(&opts.verbose, "v", false, "debug logging")
	flag.Var(&opts.overrides, "set", "parameter override key=value (repeatable)")
	flag.StringVar(&opts.coords, "coords", "", "directory for outer, inner and hull coordinate CSVs")
	flag.IntVar(&opts.coordsEvery, "coords-every", 1000, "rewrite the coordinate CSVs every N timesteps")
	flag.Float64Var(&opts.converge, "converge", 0, "stop once the K drift falls in (0, x], e.g. 1e-10 (0 runs all steps)")
	flag.Parse()

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	fold.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, logger); err != nil {
		logger.Error("run failed", "err", err)
		var inv *anneal.InvariantError
		if errors.As(err, &inv) {
			os.Exit(3)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, logger *slog.Logger) error {
	file, err := loadFile(opts.configPath)
	if err != nil {
		return err
	}
	overrides, err := parseOverrides(opts.overrides)
	if err != nil {
		return err
	}

	sim, err := newSim(opts.sim, fold.Config{Seed: file.Seed, Engine: file.Engine, Params: file.Params}, overrides, opts.seed)
	if err != nil {
		return err
	}
	cfg := sim.Config()

	steps := file.Steps
	if opts.steps > 0 {
		steps = opts.steps
	}
	if steps == 0 {
		steps = 10000
	}
	every := file.RecordEvery
	if opts.recordEvery > 0 {
		every = opts.recordEvery
	}
	names := file.Recorders
	if opts.metrics != "" {
		names = splitList(opts.metrics)
	}
	output := file.OutputFilePath
	if opts.output != "" {
		output = opts.output
	}

	logger.Info("starting", "sim", opts.sim, "engine", cfg.Engine, "seed", cfg.Seed, "steps", steps,
		"points", cfg.Params.InitialNumPoints, "stitch", cfg.Params.Stitch, "propagation", cfg.Params.Propagation)

	store, err := record.NewStore(opts.store, opts.db)
	if err != nil {
		return err
	}
	defer record.CloseIfSupported(store)
	if err := store.Init(ctx); err != nil {
		return err
	}

	var csvRec *record.CSVRecorder
	if output != "" && len(names) > 0 {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		csvRec, err = record.NewCSVRecorder(f, names)
		if err != nil {
			return err
		}
	}
	session, err := record.NewSession(ctx, store, record.SessionConfig{
		Sim:     opts.sim,
		Seed:    cfg.Seed,
		Metrics: names,
		Params:  cfg.Params,
		Every:   every,
		CSV:     csvRec,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	energies := make([]float64, 0, 256)
	plotEvery := steps / 200
	if plotEvery < 1 {
		plotEvery = 1
	}
	watch, err := newConvergence(opts.converge)
	if err != nil {
		return err
	}
	var accepted, infeasible, rebuilds int
	st := sim.State()
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			logger.Warn("interrupted", "timestep", st.Timestep)
			break
		}
		out, err := sim.Step()
		if err != nil {
			return err
		}
		if out.Accepted {
			accepted++
			if out.TopologyChanged {
				rebuilds++
			}
		}
		if out.Infeasible {
			infeasible++
		}
		if err := session.Observe(ctx, st.Timestep, st.Surface, cfg.Params); err != nil {
			return err
		}
		if i%plotEvery == 0 {
			e := out.EnergyBefore
			if out.Accepted {
				e = out.EnergyAfter
			}
			energies = append(energies, e)
		}
		if opts.coords != "" && opts.coordsEvery > 0 && st.Timestep%uint64(opts.coordsEvery) == 0 {
			if err := dumpCoords(opts.coords, sim.Snapshot(), st); err != nil {
				return err
			}
		}
		if watch != nil && watch.observe(st, cfg.Params, logger) {
			logger.Info("converged", "timestep", st.Timestep, "K", watch.k.Mean(), "drift", watch.last)
			break
		}
	}

	snap := sim.Snapshot()
	if err := session.Finish(ctx, snap); err != nil {
		return err
	}
	logger.Info("finished", "run", session.Run.ID, "timestep", snap.Timestep, "energy", snap.Energy,
		"accepted", accepted, "infeasible", infeasible, "rebuilds", rebuilds)

	if opts.coords != "" {
		if err := dumpCoords(opts.coords, snap, st); err != nil {
			return err
		}
		logger.Info("coordinates written", "dir", opts.coords)
	}

	if opts.chart != "" {
		if err := writeChart(ctx, opts.chart, session, opts.chartMetric); err != nil {
			return err
		}
		logger.Info("chart written", "path", opts.chart, "metric", opts.chartMetric)
	}

	if opts.plot && len(energies) > 1 {
		fmt.Println(asciigraph.Plot(energies, asciigraph.Height(12), asciigraph.Width(72), asciigraph.Caption("Energy")))
	}
	printShape(snap, metrics.Hull(st.Surface))
	return nil
}

// newSim builds name through the sim registry from base with the -set
// overrides and the -seed flag layered on top.
func newSim(name string, base fold.Config, overrides map[string]string, seed int64) (annealer, error) {
	m := fold.ToMap(base)
	for k, v := range overrides {
		m[k] = v
	}
	if seed != 0 {
		m["seed"] = strconv.FormatInt(seed, 10)
	}
	sim, err := core.New(name, m)
	if err != nil {
		return nil, err
	}
	a, ok := sim.(annealer)
	if !ok {
		return nil, fmt.Errorf("sim %q does not expose an annealer state", name)
	}
	return a, nil
}

// convergence watches the running K and energy drifts.
type convergence struct {
	threshold float64
	k, e      metrics.Drift
	fns       []metrics.Func
	last      float64
}

// newConvergence returns nil when threshold disables the check.
func newConvergence(threshold float64) (*convergence, error) {
	if threshold <= 0 {
		return nil, nil
	}
	fns, err := metrics.Resolve([]string{"K", "energy"})
	if err != nil {
		return nil, err
	}
	return &convergence{threshold: threshold, fns: fns}, nil
}

// observe samples the current surface and reports whether K has settled.
func (c *convergence) observe(st *anneal.State, p anneal.Params, logger *slog.Logger) bool {
	vals := metrics.Sample(c.fns, st.Surface, p)
	c.last = c.k.Observe(vals[0])
	eDrift := c.e.Observe(vals[1])
	if st.Timestep%100 == 0 {
		logger.Debug("drift", "timestep", st.Timestep, "K", vals[0], "K_drift", c.last,
			"energy", vals[1], "energy_drift", eDrift)
	}
	return metrics.Settled(c.last, c.threshold)
}

func dumpCoords(dir string, snap anneal.Snapshot, st *anneal.State) error {
	return record.WriteCoords(dir, snap.Outer, snap.Inner, metrics.Hull(st.Surface))
}

func loadFile(path string) (config.File, error) {
	if path == "" {
		def := fold.DefaultConfig()
		return config.File{Params: def.Params, Seed: def.Seed, Engine: def.Engine, RecordEvery: 1}, nil
	}
	return config.Load(path)
}

func parseOverrides(kvs kvList) (map[string]string, error) {
	if len(kvs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid -set %q, expected key=value", kv)
		}
		key := strings.TrimSpace(parts[0])
		if !fold.IsKey(key) {
			return nil, fmt.Errorf("unknown parameter %q in -set", key)
		}
		out[key] = strings.TrimSpace(parts[1])
	}
	return out, nil
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

func writeChart(ctx context.Context, path string, session *record.Session, metric string) error {
	samples, err := session.Samples(ctx)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := record.WriteChart(f, session.Run, samples, metric); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printShape(snap anneal.Snapshot, hull []geometry.Point) {
	fmt.Printf("OUTER = %s\n", formatPoints(snap.Outer))
	fmt.Printf("INNER = %s\n", formatPoints(snap.Inner))
	fmt.Printf("HULL = %s\n", formatPoints(hull))
}

func formatPoints(pts []geometry.Point) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, p := range pts {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "(%g, %g)", p.X, p.Y)
	}
	b.WriteByte(']')
	return b.String()
}
