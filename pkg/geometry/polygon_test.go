package geometry

import (
	"errors"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func unitSquare(t *testing.T) *Polygon {
	t.Helper()
	p, err := NewPolygon([]core.Point{
		core.NewPoint(0, 0, 0),
		core.NewPoint(1, 0, 0),
		core.NewPoint(1, 1, 0),
		core.NewPoint(0, 1, 0),
	}, DefaultSurface())
	if err != nil {
		t.Fatalf("NewPolygon: %v", err)
	}
	return p
}

func TestNewPolygon_Failures(t *testing.T) {
	tests := []struct {
		name     string
		vertices []core.Point
	}{
		{"too few vertices", []core.Point{core.Origin, core.NewPoint(1, 0, 0)}},
		{"duplicate vertex", []core.Point{core.Origin, core.NewPoint(1, 0, 0), core.NewPoint(1, 0, 0), core.NewPoint(0, 1, 0)}},
		{"repeats first vertex", []core.Point{core.Origin, core.NewPoint(1, 0, 0), core.NewPoint(1, 1, 0), core.Origin}},
		{"collinear triangle", []core.Point{core.Origin, core.NewPoint(1, 0, 0), core.NewPoint(2, 0, 0)}},
		{"non-coplanar", []core.Point{core.Origin, core.NewPoint(1, 0, 0), core.NewPoint(1, 1, 0), core.NewPoint(0, 1, 1)}},
		{"concave", []core.Point{core.Origin, core.NewPoint(2, 0, 0), core.NewPoint(2, 2, 0), core.NewPoint(1, 0.5, 0)}},
		{"collinear middle vertex", []core.Point{core.Origin, core.NewPoint(1, 0, 0), core.NewPoint(2, 0, 0), core.NewPoint(2, 2, 0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPolygon(tt.vertices, DefaultSurface()); !errors.Is(err, core.ErrInvalidGeometry) {
				t.Errorf("expected ErrInvalidGeometry, got %v", err)
			}
		})
	}
}

func TestPolygon_Intersections(t *testing.T) {
	square := unitSquare(t)
	down := core.MustVector(0, 0, -1)

	tests := []struct {
		name   string
		origin core.Point
		dir    core.Vector
		hit    bool
	}{
		{"interior", core.NewPoint(0.5, 0.5, 1), down, true},
		{"from below", core.NewPoint(0.25, 0.75, -1), core.AxisZ, true},
		{"outside", core.NewPoint(2, 0.5, 1), down, false},
		{"on an edge", core.NewPoint(0.5, 0, 1), down, false},
		{"on a vertex", core.NewPoint(1, 1, 1), down, false},
		{"parallel", core.NewPoint(0.5, 0.5, 1), core.AxisX, false},
		{"behind", core.NewPoint(0.5, 0.5, 1), core.AxisZ, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := square.Intersections(core.NewRay(tt.origin, tt.dir), Unbounded)
			if tt.hit != (len(hits) == 1) {
				t.Fatalf("expected hit=%v, got %v", tt.hit, Points(hits))
			}
		})
	}

	box, ok := square.Bounds()
	if !ok || !box.Max.Equals(core.NewPoint(1, 1, 0)) {
		t.Errorf("unexpected bounds %v", box)
	}
}

func TestTriangle_Intersections(t *testing.T) {
	tri, err := NewTriangle(core.NewPoint(0, 0, -2), core.NewPoint(2, 0, -2), core.NewPoint(0, 2, -2), DefaultSurface())
	if err != nil {
		t.Fatalf("NewTriangle: %v", err)
	}
	forward := core.MustVector(0, 0, -1)

	hits := tri.Intersections(core.NewRay(core.NewPoint(0.5, 0.5, 0), forward), Unbounded)
	if len(hits) != 1 {
		t.Fatalf("expected one hit, got %v", Points(hits))
	}
	if hits[0].Geometry != tri {
		t.Error("hit should be owned by the triangle")
	}
	if !core.IsZero(hits[0].T - 2) {
		t.Errorf("expected t=2, got %g", hits[0].T)
	}

	// Hypotenuse and vertices are outside
	for _, origin := range []core.Point{core.NewPoint(1, 1, 0), core.NewPoint(2, 0, 0), core.Origin} {
		if hits := tri.Intersections(core.NewRay(origin, forward), Unbounded); len(hits) != 0 {
			t.Errorf("boundary ray from %v should miss, got %v", origin, Points(hits))
		}
	}

	n := tri.NormalAt(hits[0].Point)
	if !n.Equals(core.AxisZ) {
		t.Errorf("expected normal %v, got %v", core.AxisZ, n)
	}
}
