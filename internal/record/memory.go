package record

import (
	"context"
	"errors"
	"sync"
)

// MemoryStore keeps everything in process memory.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]Run
	samples     map[string][]Sample
	shapes      map[string]Shape
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]Run)
	s.samples = make(map[string][]Sample)
	s.shapes = make(map[string]Shape)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	run.Metrics = append([]string(nil), run.Metrics...)
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	return run, ok, nil
}

func (s *MemoryStore) AppendSample(_ context.Context, runID string, sample Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[runID]; !ok {
		return ErrUnknownRun
	}
	sample.Values = append([]float64(nil), sample.Values...)
	s.samples[runID] = append(s.samples[runID], sample)
	return nil
}

func (s *MemoryStore) Samples(_ context.Context, runID string) ([]Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]Sample(nil), s.samples[runID]...), nil
}

func (s *MemoryStore) SaveShape(_ context.Context, runID string, shape Shape) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[runID]; !ok {
		return ErrUnknownRun
	}
	s.shapes[runID] = shape
	return nil
}

func (s *MemoryStore) Shape(_ context.Context, runID string) (Shape, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shape, ok := s.shapes[runID]
	return shape, ok, nil
}
