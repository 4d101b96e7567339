package metrics

import (
	"sort"

	"sann/internal/geometry"
)

// ConvexHull returns the hull of pts counter-clockwise, starting from the
// lowest-leftmost point. Collinear points on the hull are dropped.
func ConvexHull(pts []geometry.Point) []geometry.Point {
	if len(pts) < 3 {
		return append([]geometry.Point(nil), pts...)
	}
	sorted := append([]geometry.Point(nil), pts...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	hull := make([]geometry.Point, 0, 2*len(sorted))
	for _, p := range sorted {
		for len(hull) >= 2 && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

func turn(o, a, b geometry.Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// PolygonArea is the shoelace area of an open ring.
func PolygonArea(pts []geometry.Point) float64 {
	var sum float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

// PolygonPerimeter is the closed length of an open ring.
func PolygonPerimeter(pts []geometry.Point) float64 {
	var sum float64
	for i, p := range pts {
		sum += geometry.Dist(p, pts[(i+1)%len(pts)])
	}
	return sum
}
