package scene

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// NewXMLScene loads a scene file. Mesh files are resolved relative to the scene file.
func NewXMLScene(filename string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	root, err := loaders.LoadXML(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene file: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	s, err := FromXML(root, name, filepath.Dir(filename), cameraOverrides...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}

// FromXML converts a parsed scene document. Unknown elements fail the conversion.
func FromXML(root *loaders.Element, name, baseDir string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	if root.Name != "scene" {
		return nil, elementError(root, fmt.Errorf("root element must be <scene>"))
	}

	c := &converter{baseDir: baseDir}
	s := newScene(name, renderer.CameraConfig{
		Position:    core.NewPoint(0, 0, 1000),
		Target:      core.Origin,
		Up:          core.AxisY,
		Width:       200,
		Height:      200,
		Distance:    1000,
		ResolutionX: 500,
		ResolutionY: 500,
	})

	a := attrs(root)
	s.Background = a.color("background-color", core.Black)
	if err := a.done(); err != nil {
		return nil, err
	}

	for _, child := range root.Children {
		var err error
		switch child.Name {
		case "ambient-light":
			s.Ambient, err = convertAmbient(child)
		case "camera":
			s.CameraConfig, err = convertCamera(child, s.CameraConfig)
		case "tracer":
			s.TracerConfig, err = convertTracer(child, s.TracerConfig)
		case "geometries":
			err = c.convertGeometries(child, s)
		case "lights":
			s.Lights, err = convertLights(child)
		default:
			err = unsupported(child)
		}
		if err != nil {
			return nil, err
		}
	}

	if len(cameraOverrides) > 0 {
		s.CameraConfig = renderer.MergeCameraConfig(s.CameraConfig, cameraOverrides[0])
	}
	if err := s.Preprocess(); err != nil {
		return nil, err
	}
	return s, nil
}

type converter struct {
	baseDir string
}

func elementError(el *loaders.Element, err error) error {
	return fmt.Errorf("<%s> at line %d: %w", el.Name, el.Line, err)
}

func unsupported(el *loaders.Element) error {
	return fmt.Errorf("<%s> at line %d: unsupported element", el.Name, el.Line)
}

func convertAmbient(el *loaders.Element) (lights.Ambient, error) {
	a := attrs(el)
	color := a.color("color", core.Black)
	ka := a.factor("ka", core.FactorOne)
	if err := a.done(); err != nil {
		return lights.Ambient{}, err
	}
	return lights.NewAmbient(color, ka), nil
}

func convertCamera(el *loaders.Element, base renderer.CameraConfig) (renderer.CameraConfig, error) {
	a := attrs(el)
	config := base
	config.Position = a.point("position", base.Position)
	if a.has("direction") {
		config.Direction = a.vector("direction")
	} else {
		config.Target = a.point("target", base.Target)
	}
	if a.has("up") {
		config.Up = a.vector("up")
	}
	config.Width = a.float("width", base.Width)
	config.Height = a.float("height", base.Height)
	config.Distance = a.float("distance", base.Distance)
	config.ResolutionX = a.int("resolution-x", base.ResolutionX)
	config.ResolutionY = a.int("resolution-y", base.ResolutionY)
	config.Samples = a.int("samples", base.Samples)
	if err := a.done(); err != nil {
		return base, err
	}

	// Validate eagerly so the error names the element
	if _, err := renderer.NewCamera(config); err != nil {
		return base, elementError(el, err)
	}
	return config, nil
}

func convertTracer(el *loaders.Element, base renderer.TracerConfig) (renderer.TracerConfig, error) {
	a := attrs(el)
	config := base
	config.MaxDepth = a.int("max-depth", base.MaxDepth)
	config.MinWeight = a.float("min-weight", base.MinWeight)
	config.ShadowSamples = a.int("shadow-samples", base.ShadowSamples)
	if shape, ok := el.Attr("shadow-shape"); ok {
		switch shape {
		case "square":
			config.ShadowShape = core.GridSquare
		case "circle":
			config.ShadowShape = core.GridCircle
		default:
			a.fail(fmt.Errorf("shadow-shape must be square or circle, got %q", shape))
		}
	}
	if err := a.done(); err != nil {
		return base, err
	}
	if err := config.Validate(); err != nil {
		return base, elementError(el, err)
	}
	return config, nil
}

func (c *converter) convertGeometries(el *loaders.Element, s *Scene) error {
	mode, err := acceleration(el, s.Acceleration)
	if err != nil {
		return err
	}
	s.Acceleration = mode

	shapes, err := c.convertShapes(el.Children, mode)
	if err != nil {
		return err
	}
	s.Shapes = append(s.Shapes, shapes...)
	return nil
}

func acceleration(el *loaders.Element, fallback geometry.Acceleration) (geometry.Acceleration, error) {
	value, ok := el.Attr("acceleration")
	if !ok {
		return fallback, nil
	}
	mode, err := geometry.ParseAcceleration(value)
	if err != nil {
		return fallback, elementError(el, err)
	}
	return mode, nil
}

func (c *converter) convertShapes(elements []*loaders.Element, mode geometry.Acceleration) ([]geometry.Intersectable, error) {
	shapes := make([]geometry.Intersectable, 0, len(elements))
	for _, el := range elements {
		shape, err := c.convertShape(el, mode)
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, shape)
	}
	return shapes, nil
}

// convertShape builds one geometry element. Groups become nested containers.
func (c *converter) convertShape(el *loaders.Element, mode geometry.Acceleration) (geometry.Intersectable, error) {
	if el.Name == "group" {
		groupMode, err := acceleration(el, mode)
		if err != nil {
			return nil, err
		}
		children, err := c.convertShapes(el.Children, groupMode)
		if err != nil {
			return nil, err
		}
		return geometry.NewContainer(groupMode, children...), nil
	}

	if len(el.Children) > 0 {
		return nil, unsupported(el.Children[0])
	}

	a := attrs(el)
	surface := a.surface()
	var shape geometry.Intersectable
	var err error

	switch el.Name {
	case "sphere":
		center, radius := a.point("center", core.Origin), a.required("radius")
		if a.err == nil {
			shape, err = geometry.NewSphere(center, radius, surface)
		}
	case "triangle":
		p0, p1, p2 := a.requiredPoint("p0"), a.requiredPoint("p1"), a.requiredPoint("p2")
		if a.err == nil {
			shape, err = geometry.NewTriangle(p0, p1, p2, surface)
		}
	case "polygon":
		points := a.points("points")
		if a.err == nil {
			shape, err = geometry.NewPolygon(points, surface)
		}
	case "plane":
		if a.has("normal") {
			point, normal := a.requiredPoint("point"), a.vector("normal")
			if a.err == nil {
				shape = geometry.NewPlane(point, normal, surface)
			}
		} else {
			p0, p1, p2 := a.requiredPoint("p0"), a.requiredPoint("p1"), a.requiredPoint("p2")
			if a.err == nil {
				shape, err = geometry.NewPlaneFromPoints(p0, p1, p2, surface)
			}
		}
	case "tube":
		axis, radius := a.axis(), a.required("radius")
		if a.err == nil {
			shape, err = geometry.NewTube(axis, radius, surface)
		}
	case "cylinder":
		axis, radius, height := a.axis(), a.required("radius"), a.required("height")
		if a.err == nil {
			shape, err = geometry.NewCylinder(axis, radius, height, surface)
		}
	case "mesh":
		shape, err = c.convertMesh(el, a, surface, mode)
	default:
		return nil, unsupported(el)
	}

	if err := a.done(); err != nil {
		return nil, err
	}
	if err != nil {
		return nil, elementError(el, err)
	}
	return shape, nil
}

func (c *converter) convertMesh(el *loaders.Element, a *attrReader, surface geometry.Surface, mode geometry.Acceleration) (geometry.Intersectable, error) {
	file, ok := el.Attr("file")
	if !ok {
		a.fail(fmt.Errorf("missing attribute file"))
		return nil, nil
	}
	options := &geometry.MeshOptions{
		Acceleration: mode,
		Scale:        a.float("scale", 1),
		Center:       a.point("center", core.Origin),
		Offset:       a.point("offset", core.Origin),
	}
	rotation := a.point("rotation", core.Origin) // Degrees around X, Y, Z
	options.Rotation = [3]float64{rotation.X * math.Pi / 180, rotation.Y * math.Pi / 180, rotation.Z * math.Pi / 180}
	if a.err != nil {
		return nil, nil
	}

	if !filepath.IsAbs(file) {
		file = filepath.Join(c.baseDir, file)
	}
	data, err := loaders.LoadPLY(file)
	if err != nil {
		return nil, err
	}
	return geometry.NewMesh(data.Vertices, data.Faces, surface, options)
}

func convertLights(el *loaders.Element) ([]lights.Light, error) {
	result := make([]lights.Light, 0, len(el.Children))
	for _, child := range el.Children {
		light, err := convertLight(child)
		if err != nil {
			return nil, err
		}
		result = append(result, light)
	}
	return result, nil
}

func convertLight(el *loaders.Element) (lights.Light, error) {
	if len(el.Children) > 0 {
		return nil, unsupported(el.Children[0])
	}

	a := attrs(el)
	color := a.color("color", core.NewColor(255, 255, 255))
	var light lights.Light
	var err error

	switch el.Name {
	case "directional":
		direction := a.vector("direction")
		if a.err == nil {
			light = lights.NewDirectional(color, direction)
		}
	case "point":
		position, attenuation, radius := a.requiredPoint("position"), a.attenuation(), a.float("radius", 0)
		if a.err == nil {
			light, err = lights.NewPointLight(color, position, attenuation, radius)
		}
	case "spot":
		position, direction := a.requiredPoint("position"), a.vector("direction")
		attenuation, radius := a.attenuation(), a.float("radius", 0)
		narrowBeam := a.float("narrow-beam", 1)
		if a.err == nil {
			light, err = lights.NewSpotLight(color, position, direction, attenuation, radius, narrowBeam)
		}
	default:
		return nil, unsupported(el)
	}

	if err := a.done(); err != nil {
		return nil, err
	}
	if err != nil {
		return nil, elementError(el, err)
	}
	return light, nil
}

// attrReader parses typed attributes of one element and keeps the first error
type attrReader struct {
	el  *loaders.Element
	err error
}

func attrs(el *loaders.Element) *attrReader {
	return &attrReader{el: el}
}

func (a *attrReader) fail(err error) {
	if a.err == nil {
		a.err = err
	}
}

func (a *attrReader) done() error {
	if a.err != nil {
		return elementError(a.el, a.err)
	}
	return nil
}

func (a *attrReader) has(name string) bool {
	_, ok := a.el.Attr(name)
	return ok
}

// numbers parses a whitespace-separated list of floats
func (a *attrReader) numbers(name, value string) []float64 {
	fields := strings.Fields(value)
	result := make([]float64, len(fields))
	for i, field := range fields {
		x, err := strconv.ParseFloat(field, 64)
		if err != nil {
			a.fail(fmt.Errorf("attribute %s: invalid number %q", name, field))
			return nil
		}
		result[i] = x
	}
	return result
}

func (a *attrReader) triple(name string) ([3]float64, bool) {
	value, ok := a.el.Attr(name)
	if !ok {
		return [3]float64{}, false
	}
	xs := a.numbers(name, value)
	if a.err != nil {
		return [3]float64{}, false
	}
	if len(xs) != 3 {
		a.fail(fmt.Errorf("attribute %s: expected 3 numbers, got %q", name, value))
		return [3]float64{}, false
	}
	return [3]float64{xs[0], xs[1], xs[2]}, true
}

func (a *attrReader) float(name string, fallback float64) float64 {
	value, ok := a.el.Attr(name)
	if !ok {
		return fallback
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		a.fail(fmt.Errorf("attribute %s: invalid number %q", name, value))
		return fallback
	}
	return x
}

func (a *attrReader) required(name string) float64 {
	if !a.has(name) {
		a.fail(fmt.Errorf("missing attribute %s", name))
		return 0
	}
	return a.float(name, 0)
}

func (a *attrReader) int(name string, fallback int) int {
	value, ok := a.el.Attr(name)
	if !ok {
		return fallback
	}
	x, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		a.fail(fmt.Errorf("attribute %s: invalid integer %q", name, value))
		return fallback
	}
	return x
}

func (a *attrReader) point(name string, fallback core.Point) core.Point {
	xs, ok := a.triple(name)
	if !ok {
		return fallback
	}
	return core.NewPoint(xs[0], xs[1], xs[2])
}

func (a *attrReader) requiredPoint(name string) core.Point {
	if !a.has(name) {
		a.fail(fmt.Errorf("missing attribute %s", name))
		return core.Origin
	}
	return a.point(name, core.Origin)
}

// vector parses a required non-zero vector
func (a *attrReader) vector(name string) core.Vector {
	if !a.has(name) {
		a.fail(fmt.Errorf("missing attribute %s", name))
		return core.Vector{}
	}
	xs, ok := a.triple(name)
	if !ok {
		return core.Vector{}
	}
	v, err := core.NewVector(xs[0], xs[1], xs[2])
	if err != nil {
		a.fail(fmt.Errorf("attribute %s: %w", name, err))
	}
	return v
}

// points parses a comma-separated list of triples
func (a *attrReader) points(name string) []core.Point {
	value, ok := a.el.Attr(name)
	if !ok {
		a.fail(fmt.Errorf("missing attribute %s", name))
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]core.Point, 0, len(parts))
	for _, part := range parts {
		xs := a.numbers(name, part)
		if a.err != nil {
			return nil
		}
		if len(xs) != 3 {
			a.fail(fmt.Errorf("attribute %s: expected 3 numbers per point, got %q", name, strings.TrimSpace(part)))
			return nil
		}
		result = append(result, core.NewPoint(xs[0], xs[1], xs[2]))
	}
	return result
}

func (a *attrReader) color(name string, fallback core.Color) core.Color {
	xs, ok := a.triple(name)
	if !ok {
		return fallback
	}
	return core.NewColor(xs[0], xs[1], xs[2])
}

// factor accepts either one coefficient for all channels or three
func (a *attrReader) factor(name string, fallback core.Factor) core.Factor {
	value, ok := a.el.Attr(name)
	if !ok {
		return fallback
	}
	xs := a.numbers(name, value)
	switch {
	case a.err != nil:
		return fallback
	case len(xs) == 1:
		return core.Uniform(xs[0])
	case len(xs) == 3:
		return core.NewFactor(xs[0], xs[1], xs[2])
	default:
		a.fail(fmt.Errorf("attribute %s: expected 1 or 3 numbers, got %q", name, value))
		return fallback
	}
}

func (a *attrReader) axis() core.Ray {
	origin := a.requiredPoint("axis-origin")
	direction := a.vector("axis-direction")
	if a.err != nil {
		return core.Ray{}
	}
	return core.NewRay(origin, direction)
}

func (a *attrReader) attenuation() lights.Attenuation {
	return lights.Attenuation{
		KC: a.float("kc", 1),
		KL: a.float("kl", 0),
		KQ: a.float("kq", 0),
	}
}

// surface reads the emission color and Phong coefficients shared by all shapes
func (a *attrReader) surface() geometry.Surface {
	m := material.Default()
	m.KD = a.factor("kd", m.KD)
	m.KS = a.factor("ks", m.KS)
	m.KA = a.factor("ka", m.KA)
	m.KR = a.factor("kr", m.KR)
	m.KT = a.factor("kt", m.KT)
	m.Shininess = a.int("shininess", m.Shininess)
	if err := m.Validate(); err != nil {
		a.fail(err)
	}
	return geometry.NewSurface(m, a.color("emission", core.Black))
}
