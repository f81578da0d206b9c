package geometry

import "github.com/df07/go-whitted-raytracer/pkg/core"

// Triangle is a polygon with three vertices
type Triangle struct {
	Polygon
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Point, surface Surface) (*Triangle, error) {
	polygon, err := NewPolygon([]core.Point{v0, v1, v2}, surface)
	if err != nil {
		return nil, err
	}
	t := &Triangle{Polygon: *polygon}
	return t, nil
}

// Intersections returns the hit with the triangle interior, owned by the triangle
func (t *Triangle) Intersections(ray core.Ray, maxDistance float64) []Intersection {
	hits := t.Polygon.Intersections(ray, maxDistance)
	for i := range hits {
		hits[i].Geometry = t
	}
	return hits
}
