package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// NewSoftShadowScene lights spheres on a floor with two area lights so their
// shadows show a penumbra
func NewSoftShadowScene(cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	defaultCameraConfig := renderer.CameraConfig{
		Position:    core.NewPoint(0, 300, 700),
		Target:      core.NewPoint(0, 40, 0),
		Up:          core.AxisY,
		Width:       400,
		Height:      300,
		Distance:    500,
		ResolutionX: 400,
		ResolutionY: 300,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := newScene("softshadows", cameraConfig)
	s.Background = core.NewColor(40, 40, 60)
	s.Ambient = lights.NewAmbient(core.NewColor(255, 255, 255), core.Uniform(0.05))
	s.TracerConfig.ShadowSamples = 5
	b := &builder{scene: s}

	b.plane(core.Origin, core.AxisY, material.NewMatte(0.7), core.Black)

	b.sphere(core.NewPoint(-120, 60, 0), 60, material.NewPlastic(0.6, 0.4, 50), core.Black)
	b.sphere(core.NewPoint(120, 60, 0), 60, material.NewGlass(0.5), core.Black)
	b.cylinder(core.NewRay(core.NewPoint(0, 0, -150), core.AxisY), 30, 120, material.NewPlastic(0.6, 0.2, 20), core.Black)

	b.light(s.AddPointLight(
		core.NewColor(255, 240, 220),
		core.NewPoint(-100, 400, 200),
		lights.Attenuation{KC: 1, KL: 0.0005},
		60,
	))
	b.light(s.AddSpotLight(
		core.NewColor(150, 170, 255),
		core.NewPoint(250, 350, 100),
		core.MustVector(-1, -1.5, -0.4),
		lights.NoFalloff(),
		30,
		2,
	))

	return b.done()
}
