package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Intersectable is anything a ray can be tested against: a single geometry or a container
type Intersectable interface {
	// Intersections returns every hit with 0 < t <= maxDistance.
	// Primitives return their hits nearest first.
	Intersections(ray core.Ray, maxDistance float64) []Intersection

	// Bounds returns the bounding box, or false for unbounded shapes such as planes and tubes
	Bounds() (core.BoundingBox, bool)
}

// Geometry is a primitive surface with a material and an emission color
type Geometry interface {
	Intersectable

	// NormalAt returns the outward unit normal at a point on the surface
	NormalAt(point core.Point) core.Vector

	Material() material.Material
	Emission() core.Color
}
