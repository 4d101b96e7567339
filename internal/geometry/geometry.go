// Package geometry holds the planar primitives the folding simulation is built
// on. Points are geom.Coord values; everything here is a pure function.
package geometry

import (
	"math"

	"github.com/jbeda/geom"
)

// Point is a position or offset in the simulation plane.
type Point = geom.Coord

// Norm returns the Euclidean length of p.
func Norm(p Point) float64 {
	return p.Magnitude()
}

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Point) float64 {
	return a.DistanceFrom(b)
}

// Normed returns p scaled to unit length. The zero vector is returned as is.
func Normed(p Point) Point {
	if p.X == 0 && p.Y == 0 {
		return p
	}
	return p.Unit()
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return a.Plus(b).Times(0.5)
}

// Polar returns the offset of length r in direction theta.
func Polar(r, theta float64) Point {
	return Point{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
}

// CircularPoints returns n points evenly spaced counter-clockwise on the
// circle of the given radius, starting at angle zero.
func CircularPoints(center Point, radius float64, n int) []Point {
	if n <= 0 {
		return nil
	}
	pts := make([]Point, n)
	for i := range pts {
		theta := float64(i) * 2 * math.Pi / float64(n)
		pts[i] = center.Plus(Polar(radius, theta))
	}
	return pts
}

// BisectingVector returns the unit vector at middle that bisects the angle
// formed with its clockwise and counter-clockwise neighbours, pointing to the
// outside of a counter-clockwise ring. Straight angles fall back to the
// rotated edge direction.
func BisectingVector(middle, clockwise, counterClockwise Point) Point {
	toCW := Normed(clockwise.Minus(middle))
	toCCW := Normed(counterClockwise.Minus(middle))

	dir := toCW.Plus(toCCW).Times(0.5)
	if dir.X == 0 && dir.Y == 0 {
		dir = Point{X: -toCW.Y, Y: toCW.X}
	}
	// Outward normal of the chord between the neighbours. A reflex angle
	// makes the average point inward, so flip it.
	outward := Normed(Point{X: counterClockwise.Y - clockwise.Y, Y: clockwise.X - counterClockwise.X})
	if Dist(outward, dir) > Dist(outward, dir.Times(-1)) {
		return Normed(dir.Times(-1))
	}
	return Normed(dir)
}

func cross(a, b Point) float64 {
	return a.X*b.Y - a.Y*b.X
}
