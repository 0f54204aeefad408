package physics

import (
	"slices"

	"github.com/jakecoffman/cp"
)

// ConvexHull returns the counter-clockwise convex hull of points using the
// monotone chain algorithm. Collinear points are dropped.
func ConvexHull(points []cp.Vector) []cp.Vector {
	if len(points) < 3 {
		return nil
	}
	pts := slices.Clone(points)
	slices.SortFunc(pts, func(a, b cp.Vector) int {
		switch {
		case a.X < b.X:
			return -1
		case a.X > b.X:
			return 1
		case a.Y < b.Y:
			return -1
		case a.Y > b.Y:
			return 1
		}
		return 0
	})
	pts = slices.Compact(pts)
	if len(pts) < 3 {
		return nil
	}

	hull := make([]cp.Vector, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	hull = hull[:len(hull)-1]
	if len(hull) < 3 {
		return nil
	}
	return hull
}

func cross(o, a, b cp.Vector) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}
