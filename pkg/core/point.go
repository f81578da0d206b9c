package core

import (
	"fmt"
	"math"
)

// Point is an immutable location in 3D space
type Point struct {
	X, Y, Z float64
}

// Origin is the point (0, 0, 0)
var Origin = Point{}

// NewPoint creates a new Point
func NewPoint(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z}
}

// Add moves the point along a vector
func (p Point) Add(v Vector) Point {
	return Point{p.X + v.x, p.Y + v.y, p.Z + v.z}
}

// Subtract returns the vector from other to p. It fails when the two points coincide.
func (p Point) Subtract(other Point) (Vector, error) {
	return NewVector(p.X-other.X, p.Y-other.Y, p.Z-other.Z)
}

// DistanceSquared returns the squared Euclidean distance between two points
func (p Point) DistanceSquared(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	dz := p.Z - other.Z
	return dx*dx + dy*dy + dz*dz
}

// Distance returns the Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	return math.Sqrt(p.DistanceSquared(other))
}

// Equals reports whether two points coincide within Epsilon on every axis
func (p Point) Equals(other Point) bool {
	return IsZero(p.X-other.X) && IsZero(p.Y-other.Y) && IsZero(p.Z-other.Z)
}

// Axis returns the coordinate along axis 0 (X), 1 (Y) or 2 (Z)
func (p Point) Axis(axis int) float64 {
	switch axis {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}

// AddScaled returns p + v*t without building the intermediate vector,
// so a zero t never produces a zero vector.
func (p Point) AddScaled(v Vector, t float64) Point {
	return Point{p.X + v.x*t, p.Y + v.y*t, p.Z + v.z*t}
}
