package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Surface carries the shading attributes shared by all primitives
type Surface struct {
	material material.Material
	emission core.Color
}

// NewSurface creates a surface from a material and an emission color
func NewSurface(mat material.Material, emission core.Color) Surface {
	return Surface{material: mat, emission: emission}
}

// DefaultSurface returns a black, ambient-only surface
func DefaultSurface() Surface {
	return Surface{material: material.Default()}
}

// Material returns the surface material
func (s Surface) Material() material.Material {
	return s.material
}

// Emission returns the surface emission color
func (s Surface) Emission() core.Color {
	return s.emission
}
