package core

import (
	"fmt"
	"math"
)

// Vector is a direction in 3D space. A Vector is never the zero vector:
// every constructor and every operation that could produce one fails with ErrZeroVector.
type Vector struct {
	x, y, z float64
}

// Axis unit vectors
var (
	AxisX = Vector{1, 0, 0}
	AxisY = Vector{0, 1, 0}
	AxisZ = Vector{0, 0, 1}
)

// NewVector creates a new Vector, rejecting (0, 0, 0)
func NewVector(x, y, z float64) (Vector, error) {
	if x == 0 && y == 0 && z == 0 {
		return Vector{}, ErrZeroVector
	}
	return Vector{x, y, z}, nil
}

// MustVector is like NewVector but panics on the zero vector.
// It is meant for literal directions.
func MustVector(x, y, z float64) Vector {
	v, err := NewVector(x, y, z)
	if err != nil {
		panic(fmt.Sprintf("core.MustVector(%g, %g, %g): %v", x, y, z, err))
	}
	return v
}

// X returns the x component
func (v Vector) X() float64 { return v.x }

// Y returns the y component
func (v Vector) Y() float64 { return v.y }

// Z returns the z component
func (v Vector) Z() float64 { return v.z }

// Axis returns the component along axis 0 (X), 1 (Y) or 2 (Z)
func (v Vector) Axis(axis int) float64 {
	switch axis {
	case 0:
		return v.x
	case 1:
		return v.y
	default:
		return v.z
	}
}

// Point returns the head of the vector as a point, relative to the origin
func (v Vector) Point() Point {
	return Point{v.x, v.y, v.z}
}

// Add returns the sum of two vectors
func (v Vector) Add(other Vector) (Vector, error) {
	return NewVector(v.x+other.x, v.y+other.y, v.z+other.z)
}

// Subtract returns the difference of two vectors
func (v Vector) Subtract(other Vector) (Vector, error) {
	return NewVector(v.x-other.x, v.y-other.y, v.z-other.z)
}

// Scale returns the vector multiplied by a scalar
func (v Vector) Scale(scalar float64) (Vector, error) {
	return NewVector(v.x*scalar, v.y*scalar, v.z*scalar)
}

// Negate returns the opposite vector
func (v Vector) Negate() Vector {
	return Vector{-v.x, -v.y, -v.z}
}

// Dot returns the dot product of two vectors
func (v Vector) Dot(other Vector) float64 {
	return v.x*other.x + v.y*other.y + v.z*other.z
}

// Cross returns the cross product. Parallel vectors yield ErrZeroVector.
func (v Vector) Cross(other Vector) (Vector, error) {
	return NewVector(
		v.y*other.z-v.z*other.y,
		v.z*other.x-v.x*other.z,
		v.x*other.y-v.y*other.x,
	)
}

// LengthSquared returns the squared magnitude of the vector
func (v Vector) LengthSquared() float64 {
	return v.x*v.x + v.y*v.y + v.z*v.z
}

// Length returns the magnitude of the vector
func (v Vector) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// Normalize returns a unit vector in the same direction
func (v Vector) Normalize() Vector {
	length := v.Length()
	return Vector{v.x / length, v.y / length, v.z / length}
}

// Orthogonal returns an arbitrary unit vector perpendicular to v
func (v Vector) Orthogonal() Vector {
	// Cross with the axis v is least aligned with
	ax, ay, az := math.Abs(v.x), math.Abs(v.y), math.Abs(v.z)
	var axis Vector
	switch {
	case ax <= ay && ax <= az:
		axis = AxisX
	case ay <= az:
		axis = AxisY
	default:
		axis = AxisZ
	}
	orthogonal, err := v.Cross(axis)
	if err != nil {
		// v is never parallel to its least aligned axis
		panic(err)
	}
	return orthogonal.Normalize()
}

// Reflect returns v mirrored about the unit normal n
func (v Vector) Reflect(n Vector) (Vector, error) {
	k := 2 * v.Dot(n)
	return NewVector(v.x-k*n.x, v.y-k*n.y, v.z-k*n.z)
}

// Equals reports whether two vectors match within Epsilon on every axis
func (v Vector) Equals(other Vector) bool {
	return IsZero(v.x-other.x) && IsZero(v.y-other.y) && IsZero(v.z-other.z)
}

func (v Vector) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.x, v.y, v.z)
}
