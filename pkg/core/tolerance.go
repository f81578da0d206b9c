package core

import "math"

// Epsilon is the single tolerance shared by every geometric predicate, the
// intersection solvers and the bounding box tests.
const Epsilon = 1e-10

// RayOffset is the distance secondary rays are moved off a surface along its
// normal so they do not re-hit the surface they start on.
const RayOffset = 0.1

// IsZero reports whether x is within Epsilon of zero
func IsZero(x float64) bool {
	return math.Abs(x) < Epsilon
}

// AlignZero returns 0 for values within Epsilon of zero and x otherwise
func AlignZero(x float64) float64 {
	if IsZero(x) {
		return 0
	}
	return x
}

// Sign returns -1, 0 or 1 for x after aligning it to zero
func Sign(x float64) int {
	x = AlignZero(x)
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
