package record

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sann/internal/anneal"
	"sann/internal/mesh"
	"sann/internal/metrics"
)

// Session samples the configured metrics every few timesteps and forwards
// them to a store and, optionally, a CSV file.
type Session struct {
	Run   Run
	store Store
	csv   *CSVRecorder
	fns   []metrics.Func
	every uint64
	log   *slog.Logger
}

// SessionConfig holds what a Session needs beyond the store.
type SessionConfig struct {
	Sim     string
	Seed    int64
	Metrics []string
	Params  anneal.Params
	Every   int
	CSV     *CSVRecorder
	Logger  *slog.Logger
}

// NewSession saves a new run in store and returns a Session for it.
func NewSession(ctx context.Context, store Store, cfg SessionConfig) (*Session, error) {
	fns, err := metrics.Resolve(cfg.Metrics)
	if err != nil {
		return nil, err
	}
	every := cfg.Every
	if every < 1 {
		every = 1
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	s := &Session{
		Run: Run{
			ID:      NewRunID(),
			Sim:     cfg.Sim,
			Seed:    cfg.Seed,
			Metrics: append([]string(nil), cfg.Metrics...),
			Params:  cfg.Params,
			Started: time.Now().UTC(),
		},
		store: store,
		csv:   cfg.CSV,
		fns:   fns,
		every: uint64(every),
		log:   log,
	}
	if err := store.SaveRun(ctx, s.Run); err != nil {
		return nil, fmt.Errorf("save run: %w", err)
	}
	log.Info("recording", "run", s.Run.ID, "metrics", len(fns), "every", every)
	return s, nil
}

// Observe records a sample when timestep falls on the sampling interval.
func (s *Session) Observe(ctx context.Context, timestep uint64, ts *mesh.ThickSurface, p anneal.Params) error {
	if len(s.fns) == 0 || timestep%s.every != 0 {
		return nil
	}
	sample := Sample{Timestep: timestep, Values: metrics.Sample(s.fns, ts, p)}
	if err := s.store.AppendSample(ctx, s.Run.ID, sample); err != nil {
		return err
	}
	if s.csv != nil {
		return s.csv.Record(sample)
	}
	return nil
}

// Finish stores the final shape and flushes the CSV output.
func (s *Session) Finish(ctx context.Context, snap anneal.Snapshot) error {
	if err := s.store.SaveShape(ctx, s.Run.ID, ShapeOf(snap)); err != nil {
		return err
	}
	if s.csv != nil {
		return s.csv.Flush()
	}
	return nil
}

// Samples returns everything recorded so far.
func (s *Session) Samples(ctx context.Context) ([]Sample, error) {
	return s.store.Samples(ctx, s.Run.ID)
}
