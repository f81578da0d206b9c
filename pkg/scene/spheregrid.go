package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// oklchToFactor converts OKLCH color values to linear RGB coefficients in [0, 1]
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToFactor(l, c, h float64) core.Factor {
	hRad := h * math.Pi / 180.0

	// Convert from OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS, then cube
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b
	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	clamp := func(x float64) float64 { return math.Max(0, math.Min(1, x)) }
	return core.NewFactor(clamp(r), clamp(g), clamp(blue))
}

// NewSphereGridScene creates a scene with a grid of shiny spheres on a floor.
// The many bounded primitives make it the benchmark for the acceleration modes.
func NewSphereGridScene(cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	defaultCameraConfig := renderer.CameraConfig{
		Position:    core.NewPoint(450, 600, 1800), // Above and in front of the grid
		Target:      core.NewPoint(450, 80, 450),   // Center of the grid, slightly lower
		Up:          core.AxisY,
		Width:       1600,
		Height:      900,
		Distance:    1500,
		ResolutionX: 800,
		ResolutionY: 450,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := newScene("spheregrid", cameraConfig)
	s.Background = core.NewColor(128, 178, 255)
	s.Ambient = lights.NewAmbient(core.NewColor(255, 255, 255), core.Uniform(0.1))
	b := &builder{scene: s}

	b.plane(core.Origin, core.AxisY, material.NewPlastic(0.5, 0.1, 10), core.Black)

	gridSize := 20
	extent := 900.0
	spacing := extent / float64(gridSize-1)
	radius := spacing * 0.35

	// OKLCH parameters for color variation
	baseLightness := 0.65
	minChroma := 0.05
	maxChroma := 0.25

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			center := core.NewPoint(float64(i)*spacing, radius, float64(j)*spacing)

			// Vary hue across X and chroma across Z
			hue := (float64(i) / float64(gridSize-1)) * 360.0
			chroma := minChroma + (float64(j)/float64(gridSize-1))*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)

			m := material.NewPlastic(0, 0.6, 80)
			m.KD = oklchToFactor(lightness, chroma, hue)
			m.KR = core.Uniform(0.1 + 0.1*float64((i+j)%3))
			b.sphere(center, radius, m, core.Black)
		}
	}

	s.AddDirectionalLight(core.NewColor(230, 220, 200), core.MustVector(-1, -2, -1))
	b.light(s.AddPointLight(
		core.NewColor(255, 255, 255),
		core.NewPoint(2000, 2500, 2000),
		lights.NoFalloff(),
		0,
	))

	return b.done()
}
