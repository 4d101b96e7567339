package record

import (
	"context"
	"errors"
)

// ErrUnknownRun is returned when samples are appended to a run that was never
// saved.
var ErrUnknownRun = errors.New("unknown run")

// Store persists runs and what they recorded.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	AppendSample(ctx context.Context, runID string, sample Sample) error
	Samples(ctx context.Context, runID string) ([]Sample, error)
	SaveShape(ctx context.Context, runID string, shape Shape) error
	Shape(ctx context.Context, runID string) (Shape, bool, error)
}
