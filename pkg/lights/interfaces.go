package lights

import "github.com/df07/go-whitted-raytracer/pkg/core"

type LightType string

const (
	LightTypeDirectional LightType = "directional"
	LightTypePoint       LightType = "point"
	LightTypeSpot        LightType = "spot"
)

// Light is a source of direct illumination for local shading
type Light interface {
	Type() LightType

	// Intensity returns the light color arriving at a point after falloff
	Intensity(point core.Point) core.Color

	// Incidence returns the unit direction FROM the light TO the point.
	// It fails when the point coincides with a positional light.
	Incidence(point core.Point) (core.Vector, error)

	// Distance returns how far a shadow ray toward the light may travel.
	// Directional lights return +Inf.
	Distance(point core.Point) float64
}

// AreaLight is a positional light with a disk of the given radius for soft shadows
type AreaLight interface {
	Light
	Position() core.Point
	Radius() float64
}
