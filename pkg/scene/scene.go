package scene

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name         string
	Shapes       []geometry.Intersectable // Objects in the scene
	Lights       []lights.Light           // Lights in the scene
	Ambient      lights.Ambient
	Background   core.Color
	Acceleration geometry.Acceleration // Container mode used by Preprocess
	CameraConfig renderer.CameraConfig
	TracerConfig renderer.TracerConfig
	Root         *geometry.Container // Built from Shapes by Preprocess
}

// newScene returns an empty scene with default tracer settings and a hierarchy container
func newScene(name string, camera renderer.CameraConfig) *Scene {
	return &Scene{
		Name:         name,
		Shapes:       make([]geometry.Intersectable, 0),
		Lights:       make([]lights.Light, 0),
		Ambient:      lights.NoAmbient,
		Acceleration: geometry.AccelerationHierarchy,
		CameraConfig: camera,
		TracerConfig: renderer.DefaultTracerConfig(),
	}
}

// Preprocess builds the root container from the shapes using the scene's acceleration mode.
// It may be called again after Shapes or Acceleration change.
func (s *Scene) Preprocess() error {
	if err := s.TracerConfig.Validate(); err != nil {
		return fmt.Errorf("scene %s: %w", s.Name, err)
	}
	s.Root = geometry.NewContainer(s.Acceleration, s.Shapes...)
	return nil
}

// GetRoot returns the root container built by Preprocess, or nil before it runs.
// It has no side effects, so tracers may call it concurrently.
func (s *Scene) GetRoot() geometry.Intersectable {
	if s.Root == nil {
		return nil
	}
	return s.Root
}

func (s *Scene) GetLights() []lights.Light {
	return s.Lights
}

func (s *Scene) GetAmbient() lights.Ambient {
	return s.Ambient
}

func (s *Scene) GetBackground() core.Color {
	return s.Background
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	count := 0
	for _, shape := range s.Shapes {
		count += countPrimitives(shape)
	}
	return count
}

// countPrimitives counts primitives in a single shape, descending into meshes and groups
func countPrimitives(shape geometry.Intersectable) int {
	switch obj := shape.(type) {
	case *geometry.Mesh:
		return obj.TriangleCount()
	case *geometry.Container:
		return obj.Stats().Leaves
	default:
		return 1
	}
}

// AddPointLight adds a point light with the given falloff and soft-shadow radius
func (s *Scene) AddPointLight(color core.Color, position core.Point, attenuation lights.Attenuation, radius float64) error {
	light, err := lights.NewPointLight(color, position, attenuation, radius)
	if err != nil {
		return err
	}
	s.Lights = append(s.Lights, light)
	return nil
}

// AddSpotLight adds a spot light aimed along direction
func (s *Scene) AddSpotLight(color core.Color, position core.Point, direction core.Vector, attenuation lights.Attenuation, radius, narrowBeam float64) error {
	light, err := lights.NewSpotLight(color, position, direction, attenuation, radius, narrowBeam)
	if err != nil {
		return err
	}
	s.Lights = append(s.Lights, light)
	return nil
}

// AddDirectionalLight adds a light at infinity shining along direction
func (s *Scene) AddDirectionalLight(color core.Color, direction core.Vector) {
	s.Lights = append(s.Lights, lights.NewDirectional(color, direction))
}

// builder collects shapes for the built-in scenes and keeps the first construction error
type builder struct {
	scene *Scene
	err   error
}

func (b *builder) add(shape geometry.Intersectable, err error) {
	if b.err != nil {
		return
	}
	if err != nil {
		b.err = err
		return
	}
	b.scene.Shapes = append(b.scene.Shapes, shape)
}

func (b *builder) sphere(center core.Point, radius float64, mat material.Material, emission core.Color) {
	sphere, err := geometry.NewSphere(center, radius, geometry.NewSurface(mat, emission))
	b.add(sphere, err)
}

func (b *builder) triangle(p0, p1, p2 core.Point, mat material.Material, emission core.Color) {
	triangle, err := geometry.NewTriangle(p0, p1, p2, geometry.NewSurface(mat, emission))
	b.add(triangle, err)
}

func (b *builder) polygon(mat material.Material, emission core.Color, points ...core.Point) {
	polygon, err := geometry.NewPolygon(points, geometry.NewSurface(mat, emission))
	b.add(polygon, err)
}

func (b *builder) plane(point core.Point, normal core.Vector, mat material.Material, emission core.Color) {
	b.add(geometry.NewPlane(point, normal, geometry.NewSurface(mat, emission)), nil)
}

func (b *builder) cylinder(axis core.Ray, radius, height float64, mat material.Material, emission core.Color) {
	cylinder, err := geometry.NewCylinder(axis, radius, height, geometry.NewSurface(mat, emission))
	b.add(cylinder, err)
}

func (b *builder) tube(axis core.Ray, radius float64, mat material.Material, emission core.Color) {
	tube, err := geometry.NewTube(axis, radius, geometry.NewSurface(mat, emission))
	b.add(tube, err)
}

func (b *builder) light(err error) {
	if b.err == nil {
		b.err = err
	}
}

// done preprocesses the scene and reports the first error
func (b *builder) done() (*Scene, error) {
	if b.err != nil {
		return nil, fmt.Errorf("scene %s: %w", b.scene.Name, b.err)
	}
	if err := b.scene.Preprocess(); err != nil {
		return nil, err
	}
	return b.scene, nil
}
