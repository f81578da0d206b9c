package renderer

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// CameraConfig describes a pinhole camera and its view plane.
// When Direction is unset the camera looks from Position toward Target.
type CameraConfig struct {
	Position    core.Point  // Eye position
	Target      core.Point  // Look-at point, used when Direction is zero
	Direction   core.Vector // Forward direction (Vto)
	Up          core.Vector // Up direction (Vup); must be orthogonal to Direction when both are given
	Width       float64     // View plane width
	Height      float64     // View plane height
	Distance    float64     // Distance from the eye to the view plane
	ResolutionX int         // Pixels per row
	ResolutionY int         // Rows
	Samples     int         // Supersampling grid size per side (0 or 1 = one ray per pixel)
}

// MergeCameraConfig merges an override config with a base config.
// Only non-zero values in override replace values in base.
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if override.Position != (core.Point{}) {
		result.Position = override.Position
	}
	if override.Target != (core.Point{}) {
		result.Target = override.Target
		result.Direction = core.Vector{}
	}
	if override.Direction != (core.Vector{}) {
		result.Direction = override.Direction
	}
	if override.Up != (core.Vector{}) {
		result.Up = override.Up
	}
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.Height != 0 {
		result.Height = override.Height
	}
	if override.Distance != 0 {
		result.Distance = override.Distance
	}
	if override.ResolutionX != 0 {
		result.ResolutionX = override.ResolutionX
	}
	if override.ResolutionY != 0 {
		result.ResolutionY = override.ResolutionY
	}
	if override.Samples != 0 {
		result.Samples = override.Samples
	}
	return result
}

// Camera generates primary rays through a view plane. It is immutable.
type Camera struct {
	position    core.Point
	vto         core.Vector
	vup         core.Vector
	vright      core.Vector
	center      core.Point // View plane center
	pixelWidth  float64
	pixelHeight float64
	resolutionX int
	resolutionY int
	samples     int
}

// NewCamera validates the configuration and builds the camera
func NewCamera(config CameraConfig) (*Camera, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("%w: view plane size must be positive, got %gx%g", core.ErrInvalidConfig, config.Width, config.Height)
	}
	if config.Distance <= 0 {
		return nil, fmt.Errorf("%w: view plane distance must be positive, got %g", core.ErrInvalidConfig, config.Distance)
	}
	if config.ResolutionX <= 0 || config.ResolutionY <= 0 {
		return nil, fmt.Errorf("%w: resolution must be positive, got %dx%d", core.ErrInvalidConfig, config.ResolutionX, config.ResolutionY)
	}
	if config.Samples < 0 {
		return nil, fmt.Errorf("%w: samples must be non-negative, got %d", core.ErrInvalidConfig, config.Samples)
	}
	if config.Up == (core.Vector{}) {
		return nil, fmt.Errorf("%w: camera up direction is not set", core.ErrInvalidConfig)
	}

	vto, vup, err := orientation(config)
	if err != nil {
		return nil, err
	}
	vright, err := vto.Cross(vup)
	if err != nil {
		return nil, fmt.Errorf("%w: camera direction and up are parallel", core.ErrInvalidConfig)
	}

	return &Camera{
		position:    config.Position,
		vto:         vto,
		vup:         vup,
		vright:      vright.Normalize(),
		center:      config.Position.AddScaled(vto, config.Distance),
		pixelWidth:  config.Width / float64(config.ResolutionX),
		pixelHeight: config.Height / float64(config.ResolutionY),
		resolutionX: config.ResolutionX,
		resolutionY: config.ResolutionY,
		samples:     max(1, config.Samples),
	}, nil
}

// orientation returns the unit forward and up vectors
func orientation(config CameraConfig) (core.Vector, core.Vector, error) {
	up := config.Up.Normalize()

	if config.Direction != (core.Vector{}) {
		vto := config.Direction.Normalize()
		if !core.IsZero(vto.Dot(up)) {
			return core.Vector{}, core.Vector{}, fmt.Errorf("%w: camera direction %v and up %v are not orthogonal", core.ErrInvalidConfig, config.Direction, config.Up)
		}
		return vto, up, nil
	}

	// Look-at: re-derive up orthogonal to the forward direction
	forward, err := config.Target.Subtract(config.Position)
	if err != nil {
		return core.Vector{}, core.Vector{}, fmt.Errorf("%w: camera target coincides with its position", core.ErrInvalidConfig)
	}
	vto := forward.Normalize()
	right, err := vto.Cross(up)
	if err != nil || core.IsZero(right.Length()) {
		return core.Vector{}, core.Vector{}, fmt.Errorf("%w: camera up %v is parallel to the view direction", core.ErrInvalidConfig, config.Up)
	}
	vup, err := right.Normalize().Cross(vto)
	if err != nil {
		return core.Vector{}, core.Vector{}, fmt.Errorf("%w: degenerate camera orientation", core.ErrInvalidConfig)
	}
	return vto, vup.Normalize(), nil
}

// ResolutionX returns the number of pixels per row
func (c *Camera) ResolutionX() int {
	return c.resolutionX
}

// ResolutionY returns the number of rows
func (c *Camera) ResolutionY() int {
	return c.resolutionY
}

// Position returns the eye position
func (c *Camera) Position() core.Point {
	return c.position
}

// ConstructRay returns the ray through the center of pixel (x, y).
// Row 0 is the top of the image.
func (c *Camera) ConstructRay(x, y int) core.Ray {
	return c.rayThrough(x, y, 0.5, 0.5)
}

// Rays returns the supersampling rays of a pixel: an n×n grid jittered
// inside each cell by the sampler, or cell centers when sampler is nil
func (c *Camera) Rays(x, y int, sampler core.Sampler) []core.Ray {
	n := c.samples
	if n == 1 {
		return []core.Ray{c.ConstructRay(x, y)}
	}

	rays := make([]core.Ray, 0, n*n)
	cell := 1.0 / float64(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			jx, jy := 0.5, 0.5
			if sampler != nil {
				jx, jy = sampler.Get2D()
			}
			rays = append(rays, c.rayThrough(x, y, (float64(j)+jx)*cell, (float64(i)+jy)*cell))
		}
	}
	return rays
}

// rayThrough returns the ray through offset (sx, sy) in [0,1)² of pixel (x, y)
func (c *Camera) rayThrough(x, y int, sx, sy float64) core.Ray {
	xj := (float64(x) + sx - float64(c.resolutionX)/2) * c.pixelWidth
	yi := -(float64(y) + sy - float64(c.resolutionY)/2) * c.pixelHeight

	point := c.center.AddScaled(c.vright, xj).AddScaled(c.vup, yi)
	direction, err := point.Subtract(c.position)
	if err != nil {
		// The view plane is at a positive distance from the eye
		panic(err)
	}
	return core.NewRay(c.position, direction)
}
