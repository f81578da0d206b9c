package lights

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Directional is a light infinitely far away shining along one direction
type Directional struct {
	color     core.Color
	direction core.Vector
}

// NewDirectional creates a directional light shining along direction
func NewDirectional(color core.Color, direction core.Vector) *Directional {
	return &Directional{color: color, direction: direction.Normalize()}
}

func (d *Directional) Type() LightType {
	return LightTypeDirectional
}

// Intensity returns the unattenuated color
func (d *Directional) Intensity(core.Point) core.Color {
	return d.color
}

// Incidence returns the constant light direction
func (d *Directional) Incidence(core.Point) (core.Vector, error) {
	return d.direction, nil
}

// Distance is infinite: any occluder along the shadow ray counts
func (d *Directional) Distance(core.Point) float64 {
	return math.Inf(1)
}
