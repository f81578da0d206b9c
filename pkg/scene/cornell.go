package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// NewCornellScene creates a classic Cornell box with a mirror sphere, a glass sphere
// and a soft ceiling light
func NewCornellScene(cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	defaultCameraConfig := renderer.CameraConfig{
		Position:    core.NewPoint(278, 278, -800), // Position camera outside the box looking in
		Target:      core.NewPoint(278, 278, 0),    // Look at the center of the box
		Up:          core.AxisY,
		Width:       560,
		Height:      560,
		Distance:    800,
		ResolutionX: 400,
		ResolutionY: 400,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := newScene("cornell", cameraConfig)
	s.Ambient = lights.NewAmbient(core.NewColor(255, 255, 255), core.Uniform(0.05))
	s.TracerConfig.ShadowSamples = 3
	b := &builder{scene: s}

	// Create materials
	white := material.NewMatte(0.73)
	red := material.Default()
	red.KD = core.NewFactor(0.65, 0.05, 0.05)
	green := material.Default()
	green.KD = core.NewFactor(0.12, 0.45, 0.15)

	// Cornell box dimensions (standard 555x555x555 units)
	size := 555.0
	corner := func(x, y, z float64) core.Point { return core.NewPoint(x*size, y*size, z*size) }

	// Floor, ceiling, back wall, left wall (red), right wall (green)
	b.polygon(white, core.Black, corner(0, 0, 0), corner(1, 0, 0), corner(1, 0, 1), corner(0, 0, 1))
	b.polygon(white, core.Black, corner(0, 1, 0), corner(0, 1, 1), corner(1, 1, 1), corner(1, 1, 0))
	b.polygon(white, core.Black, corner(0, 0, 1), corner(1, 0, 1), corner(1, 1, 1), corner(0, 1, 1))
	b.polygon(red, core.Black, corner(0, 0, 0), corner(0, 0, 1), corner(0, 1, 1), corner(0, 1, 0))
	b.polygon(green, core.Black, corner(1, 0, 0), corner(1, 1, 0), corner(1, 1, 1), corner(1, 0, 1))

	// Glowing panel in the center of the ceiling, slightly below it
	panel := 130.0
	low, high := (size-panel)/2, (size+panel)/2
	b.polygon(material.Default(), core.NewColor(255, 250, 235),
		core.NewPoint(low, size-1, low), core.NewPoint(high, size-1, low),
		core.NewPoint(high, size-1, high), core.NewPoint(low, size-1, high))

	// Left sphere (mirror), right sphere (glass)
	b.sphere(core.NewPoint(185, 82.5, 169), 82.5, material.NewMirror(0.8), core.Black)
	b.sphere(core.NewPoint(370, 90, 351), 90, material.NewGlass(0.8), core.Black)

	// Area light just below the panel
	b.light(s.AddPointLight(
		core.NewColor(255, 250, 235),
		core.NewPoint(size/2, size-40, size/2),
		lights.Attenuation{KC: 1, KL: 0.001},
		50,
	))

	return b.done()
}
