package lights

import "github.com/df07/go-whitted-raytracer/pkg/core"

// Ambient is the constant fill term added at every hit point
type Ambient struct {
	intensity core.Color
}

// NewAmbient scales the ambient color by its coefficient
func NewAmbient(color core.Color, ka core.Factor) Ambient {
	return Ambient{intensity: color.Attenuate(ka)}
}

// NoAmbient is an ambient light that contributes nothing
var NoAmbient = Ambient{}

// Intensity returns the ambient color. It does not depend on position.
func (a Ambient) Intensity() core.Color {
	return a.intensity
}
