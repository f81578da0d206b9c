package geometry

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Plane represents an infinite plane defined by a point and a unit normal
type Plane struct {
	Surface
	Point  core.Point  // A point on the plane
	Normal core.Vector // Unit normal
}

// NewPlane creates a new plane, normalizing the normal
func NewPlane(point core.Point, normal core.Vector, surface Surface) *Plane {
	return &Plane{Surface: surface, Point: point, Normal: normal.Normalize()}
}

// NewPlaneFromPoints creates the plane through three points.
// Coincident or collinear points fail.
func NewPlaneFromPoints(p0, p1, p2 core.Point, surface Surface) (*Plane, error) {
	edge1, err := p1.Subtract(p0)
	if err != nil {
		return nil, fmt.Errorf("%w: plane points %v and %v coincide", core.ErrInvalidGeometry, p0, p1)
	}
	edge2, err := p2.Subtract(p0)
	if err != nil {
		return nil, fmt.Errorf("%w: plane points %v and %v coincide", core.ErrInvalidGeometry, p0, p2)
	}
	normal, err := edge1.Cross(edge2)
	if err != nil || core.IsZero(normal.Length()/(edge1.Length()*edge2.Length())) {
		return nil, fmt.Errorf("%w: plane points %v, %v, %v are collinear", core.ErrInvalidGeometry, p0, p1, p2)
	}
	return NewPlane(p0, normal, surface), nil
}

// Intersections returns the single hit of the ray with the plane, if any
func (p *Plane) Intersections(ray core.Ray, maxDistance float64) []Intersection {
	t, ok := p.distance(ray)
	if !ok || !withinRange(t, maxDistance) {
		return nil
	}
	return []Intersection{{Geometry: p, Point: ray.PointAt(t), T: t}}
}

// distance returns the ray parameter where it crosses the plane
func (p *Plane) distance(ray core.Ray) (float64, bool) {
	// Parallel rays never cross the plane
	denominator := core.AlignZero(p.Normal.Dot(ray.Direction))
	if denominator == 0 {
		return 0, false
	}

	// The origin lies on the plane
	toPlane, err := p.Point.Subtract(ray.Origin)
	if err != nil {
		return 0, false
	}

	t := core.AlignZero(p.Normal.Dot(toPlane) / denominator)
	return t, t > 0
}

// NormalAt returns the plane normal
func (p *Plane) NormalAt(core.Point) core.Vector {
	return p.Normal
}

// Bounds reports that a plane is unbounded
func (p *Plane) Bounds() (core.BoundingBox, bool) {
	return core.BoundingBox{}, false
}
