// Package record persists what a run observed: metric samples as CSV or in a
// store, final shapes, and charts.
package record

import (
	"time"

	"sann/internal/anneal"
	"sann/internal/geometry"

	"github.com/google/uuid"
)

// Run describes one annealing run.
type Run struct {
	ID      string
	Sim     string
	Seed    int64
	Metrics []string
	Params  anneal.Params
	Started time.Time
}

// Sample is one row of metric values.
type Sample struct {
	Timestep uint64
	Values   []float64
}

// Shape is the geometry of both boundaries at a timestep.
type Shape struct {
	Timestep uint64
	Outer    []geometry.Point
	Inner    []geometry.Point
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// ShapeOf copies the boundaries out of a snapshot.
func ShapeOf(s anneal.Snapshot) Shape {
	return Shape{
		Timestep: s.Timestep,
		Outer:    append([]geometry.Point(nil), s.Outer...),
		Inner:    append([]geometry.Point(nil), s.Inner...),
	}
}
