package geometry

import (
	"errors"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestPlane_Intersections(t *testing.T) {
	plane := NewPlane(core.NewPoint(0, 0, 1), core.AxisZ, DefaultSurface())

	tests := []struct {
		name     string
		origin   core.Point
		dir      core.Vector
		expected []core.Point
	}{
		{"straight on", core.Origin, core.AxisZ, []core.Point{core.NewPoint(0, 0, 1)}},
		{"from above", core.NewPoint(1, 1, 3), core.MustVector(0, 0, -1), []core.Point{core.NewPoint(1, 1, 1)}},
		{"oblique", core.Origin, core.MustVector(1, 0, 1), []core.Point{core.NewPoint(1, 0, 1)}},
		{"moving away", core.Origin, core.MustVector(0, 0, -1), nil},
		{"parallel", core.Origin, core.AxisX, nil},
		{"parallel inside the plane", core.NewPoint(0, 0, 1), core.AxisX, nil},
		{"origin on the plane", core.NewPoint(2, 3, 1), core.AxisZ, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := plane.Intersections(core.NewRay(tt.origin, tt.dir), Unbounded)
			if len(hits) != len(tt.expected) {
				t.Fatalf("expected %d hits, got %v", len(tt.expected), Points(hits))
			}
			for i, hit := range hits {
				if !hit.Point.Equals(tt.expected[i]) {
					t.Errorf("expected %v, got %v", tt.expected[i], hit.Point)
				}
			}
		})
	}
}

func TestPlane_MaxDistanceAndBounds(t *testing.T) {
	plane := NewPlane(core.NewPoint(0, 0, 1), core.MustVector(0, 0, 5), DefaultSurface())
	if !plane.Normal.Equals(core.AxisZ) {
		t.Errorf("normal should be normalized, got %v", plane.Normal)
	}

	ray := core.NewRay(core.Origin, core.AxisZ)
	if hits := plane.Intersections(ray, 0.5); len(hits) != 0 {
		t.Errorf("hit beyond maxDistance reported: %v", Points(hits))
	}
	if _, ok := plane.Bounds(); ok {
		t.Error("plane should be unbounded")
	}
}

func TestNewPlaneFromPoints(t *testing.T) {
	plane, err := NewPlaneFromPoints(core.Origin, core.NewPoint(1, 0, 0), core.NewPoint(0, 1, 0), DefaultSurface())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plane.Normal.Equals(core.AxisZ) {
		t.Errorf("expected normal %v, got %v", core.AxisZ, plane.Normal)
	}

	failures := map[string][3]core.Point{
		"coincident first pair": {core.Origin, core.Origin, core.NewPoint(0, 1, 0)},
		"coincident last pair":  {core.Origin, core.NewPoint(1, 0, 0), core.Origin},
		"collinear":             {core.Origin, core.NewPoint(1, 1, 1), core.NewPoint(2, 2, 2)},
	}
	for name, pts := range failures {
		t.Run(name, func(t *testing.T) {
			_, err := NewPlaneFromPoints(pts[0], pts[1], pts[2], DefaultSurface())
			if !errors.Is(err, core.ErrInvalidGeometry) {
				t.Errorf("expected ErrInvalidGeometry, got %v", err)
			}
		})
	}
}
