package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Surface
	Center core.Point
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Point, radius float64, surface Surface) (*Sphere, error) {
	if core.AlignZero(radius) <= 0 {
		return nil, fmt.Errorf("%w: sphere radius must be positive, got %g", core.ErrInvalidGeometry, radius)
	}
	return &Sphere{Surface: surface, Center: center, Radius: radius}, nil
}

// Intersections returns the hits of the ray with the sphere, nearest first
func (s *Sphere) Intersections(ray core.Ray, maxDistance float64) []Intersection {
	// Vector from ray origin to sphere center
	u, err := s.Center.Subtract(ray.Origin)
	if err != nil {
		// Origin is the center: the ray leaves through exactly one point
		if core.AlignZero(s.Radius-maxDistance) > 0 {
			return nil
		}
		return []Intersection{s.hit(ray, s.Radius)}
	}

	tm := ray.Direction.Dot(u)
	dSquared := u.LengthSquared() - tm*tm
	thSquared := core.AlignZero(s.Radius*s.Radius - dSquared)
	if thSquared < 0 {
		return nil
	}

	// Tangent ray touches the sphere once
	th := math.Sqrt(thSquared)
	if core.IsZero(th) {
		if !withinRange(tm, maxDistance) {
			return nil
		}
		return []Intersection{s.hit(ray, tm)}
	}

	var result []Intersection
	for _, t := range [2]float64{tm - th, tm + th} {
		if withinRange(t, maxDistance) {
			result = append(result, s.hit(ray, t))
		}
	}
	return result
}

func (s *Sphere) hit(ray core.Ray, t float64) Intersection {
	return Intersection{Geometry: s, Point: ray.PointAt(t), T: t}
}

// NormalAt returns the outward normal (from center to point)
func (s *Sphere) NormalAt(point core.Point) core.Vector {
	return mustNormal(point.Subtract(s.Center))
}

// Bounds returns the axis-aligned bounding box for this sphere
func (s *Sphere) Bounds() (core.BoundingBox, bool) {
	r := s.Radius
	return core.NewBoundingBox(
		core.NewPoint(s.Center.X-r, s.Center.Y-r, s.Center.Z-r),
		core.NewPoint(s.Center.X+r, s.Center.Y+r, s.Center.Z+r),
	), true
}
