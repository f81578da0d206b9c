package renderer

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Scene interface to avoid circular imports
type Scene interface {
	GetRoot() geometry.Intersectable
	GetLights() []lights.Light
	GetAmbient() lights.Ambient
	GetBackground() core.Color
}

// Tracer evaluates the recursive Phong model for rays against a read-only scene.
// It is safe for concurrent use.
type Tracer struct {
	scene  Scene
	config TracerConfig
	rays   atomic.Int64 // Closest-hit queries issued
}

// NewTracer creates a tracer with a validated configuration. The scene's root
// must already be built.
func NewTracer(scene Scene, config TracerConfig) (*Tracer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if scene.GetRoot() == nil {
		return nil, fmt.Errorf("%w: scene has no root container, preprocess it first", core.ErrInvalidConfig)
	}
	return &Tracer{scene: scene, config: config}, nil
}

// Config returns the tracer configuration
func (t *Tracer) Config() TracerConfig {
	return t.config
}

// RaysTraced returns the number of camera, reflected and refracted rays traced so far
func (t *Tracer) RaysTraced() int64 {
	return t.rays.Load()
}

// TraceRay returns the color seen along a primary ray. The sampler jitters
// soft shadow grids; nil places samples at grid cell centers.
func (t *Tracer) TraceRay(ray core.Ray, sampler core.Sampler) core.Color {
	return t.traceColor(ray, t.config.MaxDepth, core.FactorOne, sampler)
}

// traceColor combines the local color with reflected and refracted
// contributions until depth runs out or the weight falls below MinWeight
func (t *Tracer) traceColor(ray core.Ray, depth int, weight core.Factor, sampler core.Sampler) core.Color {
	t.rays.Add(1)
	hit, ok := geometry.ClosestIntersection(ray, t.scene.GetRoot().Intersections(ray, geometry.Unbounded))
	if !ok {
		return t.scene.GetBackground()
	}

	shading := newShadingContext(hit, ray)
	color := t.localColor(shading, sampler)
	if depth == 0 {
		return color
	}

	mat := shading.material
	if mat.Reflective() {
		if childWeight := weight.Product(mat.KR); !childWeight.LowerThan(t.config.MinWeight) {
			if reflected, ok := shading.reflectedRay(); ok {
				color = color.Add(t.traceColor(reflected, depth-1, childWeight, sampler).Attenuate(mat.KR))
			}
		}
	}
	if mat.Transparent() {
		if childWeight := weight.Product(mat.KT); !childWeight.LowerThan(t.config.MinWeight) {
			refracted := shading.refractedRay()
			color = color.Add(t.traceColor(refracted, depth-1, childWeight, sampler).Attenuate(mat.KT))
		}
	}
	return color
}

// shadingContext holds the per-hit values shared by every light
type shadingContext struct {
	point    core.Point
	normal   core.Vector // Outward unit normal
	view     core.Vector // Unit ray direction
	nv       float64     // normal·view, aligned to zero
	material material.Material
	emission core.Color
}

func newShadingContext(hit geometry.Intersection, ray core.Ray) shadingContext {
	normal := hit.Normal()
	return shadingContext{
		point:    hit.Point,
		normal:   normal,
		view:     ray.Direction,
		nv:       core.AlignZero(normal.Dot(ray.Direction)),
		material: hit.Material(),
		emission: hit.Geometry.Emission(),
	}
}

// reflectedRay mirrors the view direction about the normal
func (s shadingContext) reflectedRay() (core.Ray, bool) {
	r, err := s.view.Reflect(s.normal)
	if err != nil {
		return core.Ray{}, false
	}
	return core.NewOffsetRay(s.point, r, s.normal), true
}

// refractedRay continues the view direction through the surface
func (s shadingContext) refractedRay() core.Ray {
	return core.NewOffsetRay(s.point, s.view, s.normal)
}

// lightContext holds the values of one light at one hit
type lightContext struct {
	incidence core.Vector // Unit direction from the light to the point
	nl        float64     // normal·incidence, aligned to zero
	intensity core.Color
}

// localColor adds emission, ambient and the Phong terms of every visible light
func (t *Tracer) localColor(s shadingContext, sampler core.Sampler) core.Color {
	color := s.emission.Add(t.scene.GetAmbient().Intensity().Attenuate(s.material.KA))

	// Grazing view: no light term is defined
	if s.nv == 0 {
		return color
	}

	for _, light := range t.scene.GetLights() {
		l, err := light.Incidence(s.point)
		if err != nil {
			continue
		}
		nl := core.AlignZero(s.normal.Dot(l))

		// Light and viewer must be on the same side of the surface
		if nl == 0 || core.Sign(nl) != core.Sign(s.nv) {
			continue
		}

		ktr := t.transparency(light, l, s, sampler)
		if ktr.LowerThan(t.config.MinWeight) {
			continue
		}

		lc := lightContext{incidence: l, nl: nl, intensity: light.Intensity(s.point).Attenuate(ktr)}
		color = color.Add(lc.intensity.Attenuate(diffuse(s, lc).Add(specular(s, lc))))
	}
	return color
}

// diffuse returns KD·|n·l|
func diffuse(s shadingContext, lc lightContext) core.Factor {
	return s.material.KD.Scale(math.Abs(lc.nl))
}

// specular returns KS·max(0, -v·r)^shininess with r the incidence mirrored about n
func specular(s shadingContext, lc lightContext) core.Factor {
	if s.material.KS.IsZero() {
		return core.FactorZero
	}
	r, err := lc.incidence.Reflect(s.normal)
	if err != nil {
		return core.FactorZero
	}
	minusVR := core.AlignZero(-s.view.Dot(r))
	if minusVR <= 0 {
		return core.FactorZero
	}
	return s.material.KS.Scale(math.Pow(minusVR, float64(s.material.Shininess)))
}

// transparency returns the fraction of the light reaching the point through occluders.
// Area lights average the fraction over a grid of shadow rays.
func (t *Tracer) transparency(light lights.Light, l core.Vector, s shadingContext, sampler core.Sampler) core.Factor {
	toLight := l.Negate()

	area, ok := light.(lights.AreaLight)
	if !ok || area.Radius() <= 0 || t.config.ShadowSamples < 2 {
		ray := core.NewOffsetRay(s.point, toLight, s.normal)
		return t.occlusion(ray, light.Distance(ray.Origin))
	}

	targets := core.SampleGrid(area.Position(), l, area.Radius(), t.config.ShadowSamples, t.config.ShadowShape, sampler)
	sum := core.FactorZero
	for _, target := range targets {
		dir, err := target.Subtract(s.point)
		if err != nil {
			sum = sum.Add(core.FactorOne)
			continue
		}
		ray := core.NewOffsetRay(s.point, dir, s.normal)
		sum = sum.Add(t.occlusion(ray, ray.Origin.Distance(target)))
	}
	return sum.Scale(1 / float64(len(targets)))
}

// occlusion multiplies the transparency of every occluder before maxDistance
func (t *Tracer) occlusion(ray core.Ray, maxDistance float64) core.Factor {
	ktr := core.FactorOne
	for _, hit := range t.scene.GetRoot().Intersections(ray, maxDistance) {
		ktr = ktr.Product(hit.Material().KT)
		if ktr.LowerThan(t.config.MinWeight) {
			return core.FactorZero
		}
	}
	return ktr
}
