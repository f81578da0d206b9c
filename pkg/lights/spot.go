package lights

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// SpotLight is a point light focused along a direction. The narrow beam
// exponent sharpens the cone: intensity scales by max(0, dir·l)^narrowBeam.
type SpotLight struct {
	PointLight
	direction  core.Vector
	narrowBeam float64
}

// NewSpotLight creates a spot light. A narrow beam of 1 gives the plain cosine falloff.
func NewSpotLight(color core.Color, position core.Point, direction core.Vector, attenuation Attenuation, radius, narrowBeam float64) (*SpotLight, error) {
	point, err := NewPointLight(color, position, attenuation, radius)
	if err != nil {
		return nil, err
	}
	if narrowBeam < 1 {
		return nil, fmt.Errorf("%w: narrow beam must be at least 1, got %g", core.ErrInvalidConfig, narrowBeam)
	}
	return &SpotLight{PointLight: *point, direction: direction.Normalize(), narrowBeam: narrowBeam}, nil
}

func (s *SpotLight) Type() LightType {
	return LightTypeSpot
}

// Intensity is zero behind the spot
func (s *SpotLight) Intensity(point core.Point) core.Color {
	l, err := s.Incidence(point)
	if err != nil {
		return core.Black
	}
	cos := core.AlignZero(s.direction.Dot(l))
	if cos <= 0 {
		return core.Black
	}
	return s.PointLight.Intensity(point).Scale(math.Pow(cos, s.narrowBeam))
}

// Direction returns the unit axis of the spot
func (s *SpotLight) Direction() core.Vector {
	return s.direction
}
