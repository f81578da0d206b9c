package core

// Ray represents a half-line with an origin and a unit direction
type Ray struct {
	Origin    Point
	Direction Vector
}

// NewRay creates a new ray, normalizing its direction
func NewRay(origin Point, direction Vector) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// NewOffsetRay creates a ray starting RayOffset away from point along the normal,
// on the side the direction points to
func NewOffsetRay(point Point, direction, normal Vector) Ray {
	nd := AlignZero(normal.Dot(direction))
	switch {
	case nd > 0:
		point = point.AddScaled(normal, RayOffset)
	case nd < 0:
		point = point.AddScaled(normal, -RayOffset)
	}
	return NewRay(point, direction)
}

// PointAt returns the point at parameter t along the ray.
// A zero t returns the origin itself.
func (r Ray) PointAt(t float64) Point {
	if IsZero(t) {
		return r.Origin
	}
	return r.Origin.AddScaled(r.Direction, t)
}

// ClosestPoint returns the point nearest the ray origin
func (r Ray) ClosestPoint(points []Point) (Point, bool) {
	return Closest(r, points, func(p Point) Point { return p })
}

// Closest returns the item whose location is nearest the ray origin.
// Ties keep the first item encountered; an empty slice reports false.
func Closest[T any](r Ray, items []T, location func(T) Point) (T, bool) {
	var closest T
	found := false
	best := 0.0
	for _, item := range items {
		d := r.Origin.DistanceSquared(location(item))
		if !found || d < best {
			closest = item
			best = d
			found = true
		}
	}
	return closest, found
}
