package lights

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Attenuation holds the constant, linear and quadratic falloff coefficients
type Attenuation struct {
	KC float64
	KL float64
	KQ float64
}

// NoFalloff keeps the intensity constant with distance
func NoFalloff() Attenuation {
	return Attenuation{KC: 1}
}

// Validate rejects coefficients that could make the falloff zero or negative
func (a Attenuation) Validate() error {
	if a.KC < 0 || a.KL < 0 || a.KQ < 0 {
		return fmt.Errorf("%w: attenuation coefficients must be non-negative, got %+v", core.ErrInvalidConfig, a)
	}
	if core.IsZero(a.KC) && core.IsZero(a.KL) && core.IsZero(a.KQ) {
		return fmt.Errorf("%w: attenuation coefficients must not all be zero", core.ErrInvalidConfig)
	}
	return nil
}

// factor returns the falloff denominator at distance d
func (a Attenuation) factor(d float64) float64 {
	return a.KC + a.KL*d + a.KQ*d*d
}

// PointLight radiates equally in all directions from a position
type PointLight struct {
	color       core.Color
	position    core.Point
	attenuation Attenuation
	radius      float64
}

// NewPointLight creates a point light. A positive radius enables soft shadows.
func NewPointLight(color core.Color, position core.Point, attenuation Attenuation, radius float64) (*PointLight, error) {
	if err := attenuation.Validate(); err != nil {
		return nil, err
	}
	if radius < 0 {
		return nil, fmt.Errorf("%w: light radius must be non-negative, got %g", core.ErrInvalidConfig, radius)
	}
	return &PointLight{color: color, position: position, attenuation: attenuation, radius: radius}, nil
}

func (p *PointLight) Type() LightType {
	return LightTypePoint
}

// Intensity divides the color by the falloff at the point's distance
func (p *PointLight) Intensity(point core.Point) core.Color {
	return p.color.Scale(1 / p.attenuation.factor(p.position.Distance(point)))
}

// Incidence returns the direction from the light position to the point
func (p *PointLight) Incidence(point core.Point) (core.Vector, error) {
	l, err := point.Subtract(p.position)
	if err != nil {
		return core.Vector{}, err
	}
	return l.Normalize(), nil
}

func (p *PointLight) Distance(point core.Point) float64 {
	return p.position.Distance(point)
}

func (p *PointLight) Position() core.Point {
	return p.position
}

func (p *PointLight) Radius() float64 {
	return p.radius
}
