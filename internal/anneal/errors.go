package anneal

import (
	"errors"
	"fmt"

	"sann/internal/geometry"
)

var (
	// ErrInvariant is wrapped by every InvariantError.
	ErrInvariant = errors.New("internal invariant violated")
	// ErrRevertedIntersection means undoing a rejected candidate left a
	// surface that still crosses itself.
	ErrRevertedIntersection = errors.New("reverted state still intersects")
)

// InvariantError reports a state the annealer should never reach. It carries
// the geometry at the time of failure.
type InvariantError struct {
	Op    string
	Err   error
	Outer []geometry.Point
	Inner []geometry.Point
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("anneal: %s: %v (outer %d pts, inner %d pts)", e.Op, e.Err, len(e.Outer), len(e.Inner))
}

// Unwrap exposes both ErrInvariant and the underlying cause.
func (e *InvariantError) Unwrap() []error {
	return []error{ErrInvariant, e.Err}
}
