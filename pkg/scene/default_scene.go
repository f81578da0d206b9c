package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// NewDefaultScene creates a scene with a glass sphere around an emissive core,
// a mirror triangle and a matte floor, lit by a spot and a point light
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	defaultCameraConfig := renderer.CameraConfig{
		Position:    core.NewPoint(0, 0, 1000),
		Target:      core.NewPoint(0, 0, -100),
		Up:          core.AxisY,
		Width:       200,
		Height:      200,
		Distance:    1000,
		ResolutionX: 500,
		ResolutionY: 500,
	}

	// Apply any overrides using the reusable merge function
	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := newScene("default", cameraConfig)
	s.Background = core.NewColor(75, 127, 190)
	s.Ambient = lights.NewAmbient(core.NewColor(255, 191, 191), core.Uniform(0.1))
	b := &builder{scene: s}

	// Create materials
	glass := material.NewPlastic(0.2, 0.2, 30)
	glass.KT = core.Uniform(0.6)
	emissiveCore := material.NewPlastic(0.5, 0.5, 100)
	mirror := material.NewMirror(0.9)
	floor := material.NewPlastic(0.6, 0.2, 20)

	b.sphere(core.NewPoint(0, 0, -50), 50, glass, core.NewColor(0, 0, 100))
	b.sphere(core.NewPoint(0, 0, -50), 25, emissiveCore, core.NewColor(100, 20, 20))
	b.sphere(core.NewPoint(60, 50, -50), 30, material.NewPlastic(0.5, 0.5, 100), core.NewColor(20, 60, 20))

	b.triangle(core.NewPoint(100, -100, -200), core.NewPoint(-100, 100, -200), core.NewPoint(-100, -100, -200), mirror, core.NewColor(20, 20, 20))
	b.triangle(core.NewPoint(100, -100, -200), core.NewPoint(100, 100, -200), core.NewPoint(-100, 100, -200), floor, core.NewColor(20, 20, 20))

	b.plane(core.NewPoint(0, -100, 0), core.AxisY, floor, core.NewColor(30, 30, 30))

	b.light(s.AddSpotLight(
		core.NewColor(400, 240, 0),   // color
		core.NewPoint(-100, 100, 50), // position
		core.MustVector(1, -1, -2),   // direction
		lights.Attenuation{KC: 1, KL: 0.00001, KQ: 0.000005},
		0,  // radius
		10, // narrow beam
	))
	b.light(s.AddPointLight(
		core.NewColor(500, 300, 0),
		core.NewPoint(100, 100, 100),
		lights.Attenuation{KC: 1, KL: 0.00001, KQ: 0.000001},
		0,
	))

	return b.done()
}
