package anneal

import (
	"math"

	"sann/internal/mesh"
)

// PracticallyInfinity is the temperature at or above which every feasible
// candidate is accepted.
const PracticallyInfinity = 1e8

// Energy scores ts against the target band area. The inner area is the white
// matter term; the squared term penalises the band drifting from target.
func Energy(ts *mesh.ThickSurface, target float64) float64 {
	white := ts.Inner().Area()
	gray := math.Abs(ts.Outer().Area() - white)
	stretch := math.Abs(gray - target)
	return white + (1+stretch)*(1+stretch)
}

// Temperature is the linear schedule: timestep times slope, floored at zero.
func Temperature(timestep uint64, slope float64) float64 {
	t := float64(timestep) * slope
	if t < 0 {
		return 0
	}
	return t
}

// AcceptProbability is the Metropolis rule. At zero or negative temperature
// only strict improvements are accepted, so a candidate with exactly the
// current energy is rejected rather than taken as a free sideways move.
func AcceptProbability(before, after, temperature float64) float64 {
	switch {
	case temperature >= PracticallyInfinity:
		return 1
	case temperature > 0:
		return math.Exp((before - after) / temperature)
	case after < before:
		return 1
	default:
		return 0
	}
}
