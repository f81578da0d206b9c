package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// NewMirrorsScene places spheres between two facing mirrors. The reflections
// repeat until the depth limit or the minimum weight stops them.
func NewMirrorsScene(cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	defaultCameraConfig := renderer.CameraConfig{
		Position:    core.NewPoint(0, 80, 500),
		Target:      core.NewPoint(0, 60, 0),
		Up:          core.AxisY,
		Width:       300,
		Height:      200,
		Distance:    300,
		ResolutionX: 600,
		ResolutionY: 400,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := newScene("mirrors", cameraConfig)
	s.Background = core.NewColor(10, 10, 10)
	s.Ambient = lights.NewAmbient(core.NewColor(255, 255, 255), core.Uniform(0.1))
	s.TracerConfig.MaxDepth = 20
	b := &builder{scene: s}

	mirror := material.NewMirror(0.9)

	// Two parallel mirrors on the left and right
	b.polygon(mirror, core.Black,
		core.NewPoint(-200, 0, -300), core.NewPoint(-200, 0, 300),
		core.NewPoint(-200, 250, 300), core.NewPoint(-200, 250, -300))
	b.polygon(mirror, core.Black,
		core.NewPoint(200, 0, -300), core.NewPoint(200, 250, -300),
		core.NewPoint(200, 250, 300), core.NewPoint(200, 0, 300))

	b.polygon(material.NewPlastic(0.6, 0.2, 20), core.NewColor(15, 15, 15),
		core.NewPoint(-200, 0, -300), core.NewPoint(200, 0, -300),
		core.NewPoint(200, 0, 300), core.NewPoint(-200, 0, 300))

	red := material.NewPlastic(0, 0.6, 60)
	red.KD = core.NewFactor(0.9, 0.1, 0.1)
	blue := material.NewPlastic(0, 0.6, 60)
	blue.KD = core.NewFactor(0.1, 0.2, 0.9)
	b.sphere(core.NewPoint(-60, 40, -50), 40, red, core.Black)
	b.sphere(core.NewPoint(70, 30, 50), 30, blue, core.Black)
	b.sphere(core.NewPoint(0, 25, 150), 25, material.NewGlass(0.7), core.Black)

	b.light(s.AddPointLight(
		core.NewColor(400, 400, 380),
		core.NewPoint(0, 240, 100),
		lights.Attenuation{KC: 1, KL: 0.002},
		0,
	))

	return b.done()
}
