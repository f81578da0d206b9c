package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// NewCylinderScene creates a scene with capped cylinders in several orientations
// and an infinite tube running behind them
func NewCylinderScene(cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	defaultCameraConfig := renderer.CameraConfig{
		Position:    core.NewPoint(0, 150, 400),
		Target:      core.NewPoint(0, 100, 0),
		Up:          core.AxisY,
		Width:       320,
		Height:      180,
		Distance:    200,
		ResolutionX: 640,
		ResolutionY: 360,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := newScene("cylinders", cameraConfig)
	s.Background = core.NewColor(20, 20, 30)
	s.Ambient = lights.NewAmbient(core.NewColor(255, 255, 255), core.Uniform(0.08))
	b := &builder{scene: s}

	// Create materials
	gray := material.NewMatte(0.5)
	red := material.NewPlastic(0, 0.4, 40)
	red.KD = core.NewFactor(0.8, 0.2, 0.2)
	blue := material.NewPlastic(0, 0.4, 40)
	blue.KD = core.NewFactor(0.2, 0.2, 0.8)
	gold := material.NewMirror(0.5)
	gold.KD = core.NewFactor(0.8, 0.6, 0.2)
	glass := material.NewGlass(0.7)

	b.plane(core.Origin, core.AxisY, gray, core.Black)

	// Right: tall upright cylinder
	b.cylinder(core.NewRay(core.NewPoint(180, 0, 0), core.AxisY), 50, 200, red, core.Black)

	// Left: lying cylinder whose cap faces the camera side
	b.cylinder(core.NewRay(core.NewPoint(-250, 30, 0), core.AxisX), 30, 100, blue, core.Black)

	// Center: tilted gold cylinder
	b.cylinder(core.NewRay(core.NewPoint(-30, 100, -150), core.MustVector(0.1, 0.1, 1)), 35, 250, gold, core.Black)

	// Small glass cylinder in front
	b.cylinder(core.NewRay(core.NewPoint(50, 0, 100), core.AxisY), 20, 60, glass, core.Black)

	// Infinite horizontal tube across the back
	b.tube(core.NewRay(core.NewPoint(0, 40, -400), core.AxisX), 40, material.NewPlastic(0.4, 0.3, 20), core.NewColor(10, 10, 40))

	b.light(s.AddPointLight(
		core.NewColor(300, 300, 300),
		core.NewPoint(300, 500, 300),
		lights.Attenuation{KC: 1, KL: 0.0005},
		0,
	))
	b.light(s.AddSpotLight(
		core.NewColor(200, 180, 120),
		core.NewPoint(-300, 300, 200),
		core.MustVector(1, -1, -1),
		lights.NoFalloff(),
		0,
		4,
	))

	return b.done()
}
