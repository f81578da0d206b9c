package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Unbounded is the maximum distance for queries that accept any hit in front of the ray
var Unbounded = math.Inf(1)

// Intersection records a single ray hit. It is created per query and never retained.
type Intersection struct {
	Geometry Geometry   // Geometry that was hit; nil for point-only queries
	Point    core.Point // Hit point
	T        float64    // Distance along the ray
}

// Material returns the material of the hit geometry
func (i Intersection) Material() material.Material {
	if i.Geometry == nil {
		return material.Default()
	}
	return i.Geometry.Material()
}

// Normal returns the outward surface normal at the hit point
func (i Intersection) Normal() core.Vector {
	return i.Geometry.NormalAt(i.Point)
}

// ClosestIntersection returns the intersection nearest the ray origin
func ClosestIntersection(ray core.Ray, intersections []Intersection) (Intersection, bool) {
	return core.Closest(ray, intersections, func(i Intersection) core.Point { return i.Point })
}

// Points extracts the hit points of a list of intersections
func Points(intersections []Intersection) []core.Point {
	if len(intersections) == 0 {
		return nil
	}
	points := make([]core.Point, len(intersections))
	for i, in := range intersections {
		points[i] = in.Point
	}
	return points
}

// withinRange reports whether t lies in (0, maxDistance] after aligning to zero
func withinRange(t, maxDistance float64) bool {
	return core.AlignZero(t) > 0 && core.AlignZero(t-maxDistance) <= 0
}

// mustNormal unwraps a normal computation. A zero normal means the point is
// not on the surface, which is a caller bug.
func mustNormal(v core.Vector, err error) core.Vector {
	if err != nil {
		panic("geometry: normal requested at a point off the surface: " + err.Error())
	}
	return v.Normalize()
}
