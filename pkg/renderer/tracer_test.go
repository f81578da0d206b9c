package renderer

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// testScene is a minimal Scene for tracer tests
type testScene struct {
	root       geometry.Intersectable
	lights     []lights.Light
	ambient    lights.Ambient
	background core.Color
}

func (s *testScene) GetRoot() geometry.Intersectable { return s.root }
func (s *testScene) GetLights() []lights.Light       { return s.lights }
func (s *testScene) GetAmbient() lights.Ambient      { return s.ambient }
func (s *testScene) GetBackground() core.Color       { return s.background }

// countingRoot counts intersection queries against the scene
type countingRoot struct {
	geometry.Intersectable
	calls atomic.Int64
}

func (c *countingRoot) Intersections(ray core.Ray, maxDistance float64) []geometry.Intersection {
	c.calls.Add(1)
	return c.Intersectable.Intersections(ray, maxDistance)
}

func newTracer(t *testing.T, scene Scene, config TracerConfig) *Tracer {
	t.Helper()
	tracer, err := NewTracer(scene, config)
	if err != nil {
		t.Fatalf("NewTracer: %v", err)
	}
	return tracer
}

func sphereOf(t *testing.T, center core.Point, radius float64, mat material.Material) *geometry.Sphere {
	t.Helper()
	s, err := geometry.NewSphere(center, radius, geometry.NewSurface(mat, core.Black))
	if err != nil {
		t.Fatalf("NewSphere: %v", err)
	}
	return s
}

func floor(mat material.Material) *geometry.Plane {
	return geometry.NewPlane(core.Origin, core.AxisZ, geometry.NewSurface(mat, core.Black))
}

func pointLight(t *testing.T, position core.Point, radius float64) *lights.PointLight {
	t.Helper()
	l, err := lights.NewPointLight(core.NewColor(100, 100, 100), position, lights.NoFalloff(), radius)
	if err != nil {
		t.Fatalf("NewPointLight: %v", err)
	}
	return l
}

func colorClose(a, b core.Color, tolerance float64) bool {
	return math.Abs(a.R-b.R) <= tolerance && math.Abs(a.G-b.G) <= tolerance && math.Abs(a.B-b.B) <= tolerance
}

var down = core.NewRay(core.NewPoint(0, 0, 50), core.MustVector(0, 0, -1))

func TestTracer_Background(t *testing.T) {
	background := core.NewColor(10, 20, 30)
	tracer := newTracer(t, &testScene{root: geometry.NewContainer(geometry.AccelerationNone), background: background}, DefaultTracerConfig())

	if got := tracer.TraceRay(down, nil); got != background {
		t.Errorf("expected background %v, got %v", background, got)
	}
}

func TestTracer_InvalidConfig(t *testing.T) {
	for name, config := range map[string]TracerConfig{
		"negative depth": {MaxDepth: -1, ShadowSamples: 1},
		"weight above 1": {MinWeight: 2, ShadowSamples: 1},
		"no shadow rays": {MaxDepth: 1, ShadowSamples: 0},
	} {
		if _, err := NewTracer(&testScene{}, config); !errors.Is(err, core.ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}
}

func TestTracer_RequiresRoot(t *testing.T) {
	if _, err := NewTracer(&testScene{}, DefaultTracerConfig()); !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for a scene without a root, got %v", err)
	}
}

func TestTracer_RecursionBound(t *testing.T) {
	mirror := material.Material{KR: core.FactorOne}
	bottom := geometry.NewPlane(core.Origin, core.AxisZ, geometry.NewSurface(mirror, core.Black))
	top := geometry.NewPlane(core.NewPoint(0, 0, 100), core.MustVector(0, 0, -1), geometry.NewSurface(mirror, core.Black))

	for _, depth := range []int{0, 1, 5, 20} {
		root := &countingRoot{Intersectable: geometry.NewContainer(geometry.AccelerationHierarchy, bottom, top)}
		config := DefaultTracerConfig()
		config.MaxDepth = depth
		tracer := newTracer(t, &testScene{root: root}, config)

		tracer.TraceRay(down, nil)
		if got := root.calls.Load(); got != int64(depth+1) {
			t.Errorf("depth %d: expected %d queries, got %d", depth, depth+1, got)
		}
		if got := tracer.RaysTraced(); got != int64(depth+1) {
			t.Errorf("depth %d: expected %d rays, got %d", depth, depth+1, got)
		}
	}
}

func TestTracer_MinWeightStopsRecursion(t *testing.T) {
	mirror := material.Material{KR: core.Uniform(0.9)}
	bottom := geometry.NewPlane(core.Origin, core.AxisZ, geometry.NewSurface(mirror, core.Black))
	top := geometry.NewPlane(core.NewPoint(0, 0, 100), core.MustVector(0, 0, -1), geometry.NewSurface(mirror, core.Black))
	root := &countingRoot{Intersectable: geometry.NewContainer(geometry.AccelerationNone, bottom, top)}

	tracer := newTracer(t, &testScene{root: root}, TracerConfig{MaxDepth: 100, MinWeight: 0.5, ShadowSamples: 1})
	tracer.TraceRay(down, nil)

	// 0.9^6 = 0.53 still recurses, 0.9^7 = 0.48 does not
	if got := root.calls.Load(); got != 7 {
		t.Errorf("expected 7 queries, got %d", got)
	}
}

func TestTracer_LocalPhong(t *testing.T) {
	directional := lights.NewDirectional(core.NewColor(100, 100, 100), core.MustVector(0, 0, -1))

	tests := []struct {
		name     string
		mat      material.Material
		light    lights.Light
		ambient  lights.Ambient
		expected core.Color
	}{
		{
			name:     "diffuse",
			mat:      material.Material{KD: core.Uniform(0.5)},
			light:    directional,
			expected: core.NewColor(50, 50, 50),
		},
		{
			name:     "diffuse and specular",
			mat:      material.Material{KD: core.Uniform(0.5), KS: core.Uniform(0.25), Shininess: 10},
			light:    directional,
			expected: core.NewColor(75, 75, 75),
		},
		{
			name:     "oblique light",
			mat:      material.Material{KD: core.Uniform(1)},
			light:    lights.NewDirectional(core.NewColor(100, 100, 100), core.MustVector(1, 0, -1)),
			expected: core.NewColor(100/math.Sqrt2, 100/math.Sqrt2, 100/math.Sqrt2),
		},
		{
			name:     "light behind the surface",
			mat:      material.Material{KD: core.Uniform(1)},
			light:    lights.NewDirectional(core.NewColor(100, 100, 100), core.AxisZ),
			expected: core.Black,
		},
		{
			name:     "ambient only",
			mat:      material.Material{KA: core.Uniform(0.5)},
			light:    lights.NewDirectional(core.NewColor(100, 100, 100), core.AxisZ),
			ambient:  lights.NewAmbient(core.NewColor(200, 100, 0), core.Uniform(0.1)),
			expected: core.NewColor(10, 5, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene := &testScene{
				root:    geometry.NewContainer(geometry.AccelerationNone, floor(tt.mat)),
				lights:  []lights.Light{tt.light},
				ambient: tt.ambient,
			}
			got := newTracer(t, scene, DefaultTracerConfig()).TraceRay(down, nil)
			if !colorClose(got, tt.expected, 1e-9) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestTracer_Emission(t *testing.T) {
	glow := geometry.NewPlane(core.Origin, core.AxisZ, geometry.NewSurface(material.Material{}, core.NewColor(1, 2, 3)))
	tracer := newTracer(t, &testScene{root: glow}, DefaultTracerConfig())
	if got := tracer.TraceRay(down, nil); !colorClose(got, core.NewColor(1, 2, 3), 1e-12) {
		t.Errorf("expected the emission color, got %v", got)
	}
}

func TestTracer_ShadowAttenuation(t *testing.T) {
	matte := material.Material{KD: core.FactorOne}
	light := pointLight(t, core.NewPoint(0, 0, 100), 0)

	tests := []struct {
		name     string
		occluder material.Material
		expected float64
	}{
		{"opaque", material.Material{}, 0},
		{"half transparent", material.Material{KT: core.Uniform(0.5)}, 25}, // both sphere walls
		{"clear", material.Material{KT: core.FactorOne}, 100},
	}

	// Unoccluded reference
	open := &testScene{root: floor(matte), lights: []lights.Light{light}}
	reference := newTracer(t, open, DefaultTracerConfig()).TraceRay(down, nil)
	if !colorClose(reference, core.NewColor(100, 100, 100), 1e-9) {
		t.Fatalf("unexpected unoccluded color %v", reference)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			occluder := sphereOf(t, core.NewPoint(0, 0, 75), 5, tt.occluder)
			scene := &testScene{
				root:   geometry.NewContainer(geometry.AccelerationHierarchy, floor(matte), occluder),
				lights: []lights.Light{light},
			}
			got := newTracer(t, scene, DefaultTracerConfig()).TraceRay(down, nil)
			if math.Abs(got.R-tt.expected) > 1e-9 {
				t.Errorf("expected %g, got %v", tt.expected, got)
			}
			if tt.expected < 100 && got.R >= reference.R {
				t.Errorf("occluder should decrease the contribution: %v >= %v", got, reference)
			}
		})
	}
}

func TestTracer_SoftShadows(t *testing.T) {
	matte := material.Material{KD: core.FactorOne}
	occluder := sphereOf(t, core.NewPoint(0, 0, 50), 3, material.Material{})
	root := geometry.NewContainer(geometry.AccelerationHierarchy, floor(matte), occluder)
	area := pointLight(t, core.NewPoint(0, 0, 100), 10)
	view := core.NewRay(core.NewPoint(0, 30, 40), core.MustVector(0, -30, -40))

	hard := newTracer(t, &testScene{root: root, lights: []lights.Light{area}}, DefaultTracerConfig())
	if got := hard.TraceRay(view, nil); !got.IsBlack() {
		t.Errorf("a single shadow ray should be blocked, got %v", got)
	}

	config := DefaultTracerConfig()
	config.ShadowSamples = 4
	soft := newTracer(t, &testScene{root: root, lights: []lights.Light{area}}, config)
	got := soft.TraceRay(view, nil)
	if got.R <= 0 || got.R >= 100 {
		t.Errorf("expected a penumbra between 0 and 100, got %v", got)
	}

	// Deterministic for a given sampler stream
	a := soft.TraceRay(view, core.NewSeededSampler(1, 2))
	b := soft.TraceRay(view, core.NewSeededSampler(1, 2))
	if a != b {
		t.Errorf("same sampler stream should give the same color: %v vs %v", a, b)
	}
}

func TestTracer_ReflectionAndTransparency(t *testing.T) {
	background := core.NewColor(100, 100, 100)

	tests := []struct {
		name     string
		mat      material.Material
		depth    int
		expected float64
	}{
		{"mirror", material.Material{KR: core.Uniform(0.5)}, 10, 50},
		{"window", material.Material{KT: core.Uniform(0.5)}, 10, 50},
		{"both", material.Material{KR: core.Uniform(0.5), KT: core.Uniform(0.25)}, 10, 75},
		{"depth zero", material.Material{KR: core.Uniform(0.5)}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultTracerConfig()
			config.MaxDepth = tt.depth
			scene := &testScene{root: floor(tt.mat), background: background}
			got := newTracer(t, scene, config).TraceRay(down, nil)
			if math.Abs(got.R-tt.expected) > 1e-9 {
				t.Errorf("expected %g, got %v", tt.expected, got)
			}
		})
	}
}
