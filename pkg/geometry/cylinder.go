package geometry

import (
	"fmt"
	"math"
	"sort"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Cylinder is a tube cut to a finite height and closed by two caps.
// The base cap is centered at the axis origin, the top cap Height further along the axis.
type Cylinder struct {
	Tube
	Height float64

	bottom disc
	top    disc
}

// disc is a cylinder cap
type disc struct {
	center core.Point
	normal core.Vector
	radius float64
}

// NewCylinder creates a new closed cylinder
func NewCylinder(axis core.Ray, radius, height float64, surface Surface) (*Cylinder, error) {
	tube, err := NewTube(axis, radius, surface)
	if err != nil {
		return nil, err
	}
	if core.AlignZero(height) <= 0 {
		return nil, fmt.Errorf("%w: cylinder height must be positive, got %g", core.ErrInvalidGeometry, height)
	}

	return &Cylinder{
		Tube:   *tube,
		Height: height,
		bottom: disc{center: axis.Origin, normal: axis.Direction.Negate(), radius: radius},
		top:    disc{center: axis.PointAt(height), normal: axis.Direction, radius: radius},
	}, nil
}

// Intersections returns the hits with the side and both caps, nearest first
func (c *Cylinder) Intersections(ray core.Ray, maxDistance float64) []Intersection {
	var result []Intersection

	// Side hits strictly between the caps; rim points belong to the caps
	for _, t := range c.roots(ray) {
		if !withinRange(t, maxDistance) {
			continue
		}
		point := ray.PointAt(t)
		h := c.height(point)
		if core.AlignZero(h) > 0 && core.AlignZero(h-c.Height) < 0 {
			result = append(result, Intersection{Geometry: c, Point: point, T: t})
		}
	}

	for _, end := range [2]disc{c.bottom, c.top} {
		if t, ok := end.distance(ray); ok && withinRange(t, maxDistance) {
			result = append(result, Intersection{Geometry: c, Point: ray.PointAt(t), T: t})
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].T < result[j].T })
	return result
}

// distance returns the ray parameter where it crosses the disc
func (d disc) distance(ray core.Ray) (float64, bool) {
	denominator := core.AlignZero(d.normal.Dot(ray.Direction))
	if denominator == 0 {
		return 0, false
	}

	// Origin exactly at the cap center: the ray starts on this cap
	toCenter, err := d.center.Subtract(ray.Origin)
	if err != nil {
		return 0, false
	}

	t := core.AlignZero(d.normal.Dot(toCenter) / denominator)
	if t <= 0 {
		return 0, false
	}
	if core.AlignZero(ray.PointAt(t).DistanceSquared(d.center)-d.radius*d.radius) > 0 {
		return 0, false
	}
	return t, true
}

// height returns the axial coordinate of a point measured from the base
func (c *Cylinder) height(point core.Point) float64 {
	offset, err := point.Subtract(c.Axis.Origin)
	if err != nil {
		return 0
	}
	return offset.Dot(c.Axis.Direction)
}

// NormalAt returns the cap normal on either cap and the radial normal on the side
func (c *Cylinder) NormalAt(point core.Point) core.Vector {
	h := c.height(point)
	switch {
	case core.IsZero(h):
		return c.bottom.normal
	case core.IsZero(h - c.Height):
		return c.top.normal
	default:
		return c.Tube.NormalAt(point)
	}
}

// Bounds returns the box around both caps
func (c *Cylinder) Bounds() (core.BoundingBox, bool) {
	box := core.NewBoundingBox(c.bottom.center, c.top.center)

	// A disc with unit normal n extends r*sqrt(1 - n_i²) along axis i
	v := c.Axis.Direction
	ex := c.Radius * math.Sqrt(math.Max(0, 1-v.X()*v.X()))
	ey := c.Radius * math.Sqrt(math.Max(0, 1-v.Y()*v.Y()))
	ez := c.Radius * math.Sqrt(math.Max(0, 1-v.Z()*v.Z()))

	return core.NewBoundingBox(
		core.NewPoint(box.Min.X-ex, box.Min.Y-ey, box.Min.Z-ez),
		core.NewPoint(box.Max.X+ex, box.Max.Y+ey, box.Max.Z+ez),
	), true
}
