package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Tube is an infinite cylinder around an axis ray
type Tube struct {
	Surface
	Axis   core.Ray
	Radius float64
}

// NewTube creates a new tube
func NewTube(axis core.Ray, radius float64, surface Surface) (*Tube, error) {
	if core.AlignZero(radius) <= 0 {
		return nil, fmt.Errorf("%w: tube radius must be positive, got %g", core.ErrInvalidGeometry, radius)
	}
	return &Tube{Surface: surface, Axis: axis, Radius: radius}, nil
}

// Intersections returns the hits with the tube side, nearest first
func (t *Tube) Intersections(ray core.Ray, maxDistance float64) []Intersection {
	var result []Intersection
	for _, param := range t.roots(ray) {
		if withinRange(param, maxDistance) {
			result = append(result, Intersection{Geometry: t, Point: ray.PointAt(param), T: param})
		}
	}
	return result
}

// roots solves |(O + tD - A) - ((O + tD - A)·V)V|² = r² for t.
// The result is ascending, deduplicated, and empty for rays parallel to the axis.
func (t *Tube) roots(ray core.Ray) []float64 {
	v := t.Axis.Direction
	dv := ray.Direction.Dot(v)

	// Quadratic coefficients: a t² + b t + c = 0 with a unit ray direction
	a := core.AlignZero(1 - dv*dv)
	if a == 0 {
		return nil
	}

	b := 0.0
	c := -t.Radius * t.Radius
	if delta, err := ray.Origin.Subtract(t.Axis.Origin); err == nil {
		deltaV := delta.Dot(v)
		b = 2 * (delta.Dot(ray.Direction) - deltaV*dv)
		c += delta.LengthSquared() - deltaV*deltaV
	}

	discriminant := core.AlignZero(b*b - 4*a*c)
	if discriminant < 0 {
		return nil
	}
	if discriminant == 0 {
		return []float64{-b / (2 * a)}
	}

	sqrtD := math.Sqrt(discriminant)
	t1 := (-b - sqrtD) / (2 * a)
	t2 := (-b + sqrtD) / (2 * a)
	if core.IsZero(t2 - t1) {
		return []float64{t1}
	}
	return []float64{t1, t2}
}

// NormalAt returns the radial normal from the axis to the point
func (t *Tube) NormalAt(point core.Point) core.Vector {
	return mustNormal(point.Subtract(t.axisPoint(point)))
}

// axisPoint projects a point onto the axis
func (t *Tube) axisPoint(point core.Point) core.Point {
	offset, err := point.Subtract(t.Axis.Origin)
	if err != nil {
		return t.Axis.Origin
	}
	return t.Axis.PointAt(offset.Dot(t.Axis.Direction))
}

// Bounds reports that a tube is unbounded
func (t *Tube) Bounds() (core.BoundingBox, bool) {
	return core.BoundingBox{}, false
}
