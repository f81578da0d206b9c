package geometry

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Polygon is a flat convex polygon with at least three vertices
type Polygon struct {
	Surface
	vertices []core.Point
	plane    *Plane
	bbox     core.BoundingBox
}

// NewPolygon creates a polygon from its vertices in edge order.
// The vertices must be distinct, coplanar and form a strictly convex loop.
func NewPolygon(vertices []core.Point, surface Surface) (*Polygon, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("%w: polygon needs at least 3 vertices, got %d", core.ErrInvalidGeometry, len(vertices))
	}

	// The plane through the first three vertices also rejects duplicates and collinearity among them
	plane, err := NewPlaneFromPoints(vertices[0], vertices[1], vertices[2], surface)
	if err != nil {
		return nil, err
	}

	p := &Polygon{
		Surface:  surface,
		vertices: append([]core.Point(nil), vertices...),
		plane:    plane,
		bbox:     core.BoundingBoxFromPoints(vertices...),
	}

	if len(vertices) == 3 {
		return p, nil
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// validate checks that every vertex lies in the plane and that consecutive
// edges all turn the same way around the plane normal
func (p *Polygon) validate() error {
	n := p.plane.Normal
	vs := p.vertices

	for i := 3; i < len(vs); i++ {
		offset, err := vs[i].Subtract(vs[0])
		if err != nil {
			return fmt.Errorf("%w: polygon vertex %d repeats vertex 0", core.ErrInvalidGeometry, i)
		}
		if !core.IsZero(offset.Normalize().Dot(n)) {
			return fmt.Errorf("%w: polygon vertex %d %v is not in the plane of the first three", core.ErrInvalidGeometry, i, vs[i])
		}
	}

	last := len(vs) - 1
	edge1, err := vs[last].Subtract(vs[last-1])
	if err != nil {
		return fmt.Errorf("%w: polygon vertices %d and %d coincide", core.ErrInvalidGeometry, last-1, last)
	}
	edge2, err := vs[0].Subtract(vs[last])
	if err != nil {
		return fmt.Errorf("%w: polygon vertices %d and 0 coincide", core.ErrInvalidGeometry, last)
	}
	turn, err := turnSign(edge1, edge2, n)
	if err != nil {
		return fmt.Errorf("%w: polygon vertex %d is collinear with its neighbours", core.ErrInvalidGeometry, last)
	}

	for i := 1; i < len(vs); i++ {
		edge1 = edge2
		edge2, err = vs[i].Subtract(vs[i-1])
		if err != nil {
			return fmt.Errorf("%w: polygon vertices %d and %d coincide", core.ErrInvalidGeometry, i-1, i)
		}
		sign, err := turnSign(edge1, edge2, n)
		if err != nil {
			return fmt.Errorf("%w: polygon vertex %d is collinear with its neighbours", core.ErrInvalidGeometry, i-1)
		}
		if sign != turn {
			return fmt.Errorf("%w: polygon is not convex at vertex %d", core.ErrInvalidGeometry, i-1)
		}
	}
	return nil
}

// turnSign returns the side of n the turn from edge1 to edge2 falls on.
// Parallel edges fail.
func turnSign(edge1, edge2, n core.Vector) (int, error) {
	cross, err := edge1.Cross(edge2)
	if err != nil {
		return 0, err
	}
	sign := core.Sign(cross.Normalize().Dot(n))
	if sign == 0 {
		return 0, core.ErrZeroVector
	}
	return sign, nil
}

// Vertices returns a copy of the polygon vertices
func (p *Polygon) Vertices() []core.Point {
	return append([]core.Point(nil), p.vertices...)
}

// Intersections returns the hit with the polygon interior.
// Hits exactly on an edge or a vertex are excluded.
func (p *Polygon) Intersections(ray core.Ray, maxDistance float64) []Intersection {
	t, ok := p.plane.distance(ray)
	if !ok || !withinRange(t, maxDistance) {
		return nil
	}
	if !p.encloses(ray) {
		return nil
	}
	return []Intersection{{Geometry: p, Point: ray.PointAt(t), T: t}}
}

// encloses runs the sign-consistency test: the ray must pass on the same side
// of every triangle spanned by its origin and a polygon edge
func (p *Polygon) encloses(ray core.Ray) bool {
	count := len(p.vertices)
	sides := make([]core.Vector, count)
	for i, v := range p.vertices {
		side, err := v.Subtract(ray.Origin)
		if err != nil {
			return false
		}
		sides[i] = side
	}

	expected := 0
	for i := 0; i < count; i++ {
		normal, err := sides[i].Cross(sides[(i+1)%count])
		if err != nil {
			return false
		}
		sign := core.Sign(ray.Direction.Dot(normal.Normalize()))
		if sign == 0 {
			return false
		}
		if expected == 0 {
			expected = sign
		} else if sign != expected {
			return false
		}
	}
	return true
}

// NormalAt returns the normal of the supporting plane
func (p *Polygon) NormalAt(core.Point) core.Vector {
	return p.plane.Normal
}

// Bounds returns the box around the vertices
func (p *Polygon) Bounds() (core.BoundingBox, bool) {
	return p.bbox, true
}
