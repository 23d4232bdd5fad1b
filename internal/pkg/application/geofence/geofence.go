// Package geofence implements point in polygon tests for hazard zones.
//
// Coordinates are treated as a flat cartesian plane with longitude on the x axis and latitude
// on the y axis. No geodesic correction is applied, which is accurate enough at city block
// scale but degrades for zones spanning large distances or the antimeridian.
package geofence

import (
	"fmt"
	"math"

	"github.com/diwise/hazard-alerts/pkg/types"
)

const epsilon = 1e-12

// Contains reports whether pt lies inside the polygon or on its boundary, using the even-odd
// ray casting rule. Rings with fewer than four points or that are not closed fail with
// types.ErrInvalidGeometry.
func Contains(p types.Polygon, pt types.Point) (bool, error) {
	if err := validateRing(p); err != nil {
		return false, err
	}

	ring := p.Coordinates
	px, py := pt.Longitude, pt.Latitude
	inside := false

	for i := 1; i < len(ring); i++ {
		ax, ay := ring[i-1].Longitude, ring[i-1].Latitude
		bx, by := ring[i].Longitude, ring[i].Latitude

		if onSegment(ax, ay, bx, by, px, py) {
			return true, nil
		}

		if (ay > py) != (by > py) {
			xint := ax + (py-ay)*(bx-ax)/(by-ay)
			if px < xint {
				inside = !inside
			}
		}
	}

	return inside, nil
}

// Validate checks that the polygon is a closed, simple (non self-intersecting) ring with a
// non-zero area.
func Validate(p types.Polygon) error {
	if err := validateRing(p); err != nil {
		return err
	}

	ring := p.Coordinates
	edges := len(ring) - 1

	if math.Abs(signedArea(ring)) <= epsilon {
		return fmt.Errorf("%w: polygon %s has no area", types.ErrInvalidGeometry, p.ID)
	}

	for i := 0; i < edges; i++ {
		for j := i + 1; j < edges; j++ {
			if j == i+1 || (i == 0 && j == edges-1) {
				continue
			}
			if segmentsIntersect(ring[i], ring[i+1], ring[j], ring[j+1]) {
				return fmt.Errorf("%w: polygon %s is self-intersecting (edges %d and %d)", types.ErrInvalidGeometry, p.ID, i, j)
			}
		}
	}

	return nil
}

func validateRing(p types.Polygon) error {
	n := len(p.Coordinates)
	if n < 4 {
		return fmt.Errorf("%w: polygon %s has %d points, at least 4 are required", types.ErrInvalidGeometry, p.ID, n)
	}

	for _, c := range p.Coordinates {
		if !finite(c.Latitude) || !finite(c.Longitude) {
			return fmt.Errorf("%w: polygon %s contains a non finite coordinate", types.ErrInvalidGeometry, p.ID)
		}
	}

	if p.Coordinates[0] != p.Coordinates[n-1] {
		return fmt.Errorf("%w: polygon %s is not closed", types.ErrInvalidGeometry, p.ID)
	}

	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func cross(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func onSegment(ax, ay, bx, by, px, py float64) bool {
	if math.Abs(cross(ax, ay, bx, by, px, py)) > epsilon {
		return false
	}
	return px >= math.Min(ax, bx)-epsilon && px <= math.Max(ax, bx)+epsilon &&
		py >= math.Min(ay, by)-epsilon && py <= math.Max(ay, by)+epsilon
}

func orientation(a, b, c types.Point) int {
	v := cross(a.Longitude, a.Latitude, b.Longitude, b.Latitude, c.Longitude, c.Latitude)
	switch {
	case v > epsilon:
		return 1
	case v < -epsilon:
		return -1
	default:
		return 0
	}
}

func segmentsIntersect(p1, p2, q1, q2 types.Point) bool {
	o1 := orientation(p1, p2, q1)
	o2 := orientation(p1, p2, q2)
	o3 := orientation(q1, q2, p1)
	o4 := orientation(q1, q2, p2)

	if o1 != o2 && o3 != o4 && o1 != 0 && o2 != 0 && o3 != 0 && o4 != 0 {
		return true
	}

	on := func(a, b, c types.Point) bool {
		return onSegment(a.Longitude, a.Latitude, b.Longitude, b.Latitude, c.Longitude, c.Latitude)
	}

	return (o1 == 0 && on(p1, p2, q1)) ||
		(o2 == 0 && on(p1, p2, q2)) ||
		(o3 == 0 && on(q1, q2, p1)) ||
		(o4 == 0 && on(q1, q2, p2))
}

func signedArea(ring []types.Point) float64 {
	area := 0.0
	for i := 1; i < len(ring); i++ {
		area += ring[i-1].Longitude*ring[i].Latitude - ring[i].Longitude*ring[i-1].Latitude
	}
	return area / 2
}
