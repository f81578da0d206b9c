package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Mesh is a collection of triangles sharing one surface, queried through its own container
type Mesh struct {
	*Container
	triangles []*Triangle
	skipped   int
}

// MeshOptions contains optional transforms applied to vertices before triangles are built
type MeshOptions struct {
	Acceleration Acceleration // Container mode for the triangles
	Scale        float64      // Uniform scale about the origin; zero means 1
	Rotation     [3]float64   // Rotation in radians around X, Y, Z (in that order)
	Center       core.Point   // Pivot for rotation
	Offset       core.Point   // Translation applied last
}

// NewMesh creates a mesh from vertices and face indices. Each group of three
// indices forms a triangle. Degenerate faces are skipped and counted.
func NewMesh(vertices []core.Point, faces []int, surface Surface, options *MeshOptions) (*Mesh, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("%w: face indices must be a multiple of 3, got %d", core.ErrInvalidGeometry, len(faces))
	}
	if options == nil {
		options = &MeshOptions{Acceleration: AccelerationHierarchy}
	}

	working := make([]core.Point, len(vertices))
	for i, v := range vertices {
		working[i] = options.transform(v)
	}

	mesh := &Mesh{}
	items := make([]Intersectable, 0, len(faces)/3)
	for i := 0; i < len(faces); i += 3 {
		i0, i1, i2 := faces[i], faces[i+1], faces[i+2]
		if !validIndex(i0, len(working)) || !validIndex(i1, len(working)) || !validIndex(i2, len(working)) {
			return nil, fmt.Errorf("%w: face %d references a vertex out of range", core.ErrInvalidGeometry, i/3)
		}

		triangle, err := NewTriangle(working[i0], working[i1], working[i2], surface)
		if errors.Is(err, core.ErrInvalidGeometry) {
			mesh.skipped++
			continue
		}
		if err != nil {
			return nil, err
		}
		mesh.triangles = append(mesh.triangles, triangle)
		items = append(items, triangle)
	}

	mesh.Container = NewContainer(options.Acceleration, items...)
	return mesh, nil
}

// TriangleCount returns the number of triangles in the mesh
func (m *Mesh) TriangleCount() int {
	return len(m.triangles)
}

// Triangles returns the individual triangles
func (m *Mesh) Triangles() []*Triangle {
	return m.triangles
}

// Skipped returns the number of degenerate faces left out of the mesh
func (m *Mesh) Skipped() int {
	return m.skipped
}

func validIndex(i, n int) bool {
	return i >= 0 && i < n
}

// transform applies scale, rotation about the center, then offset
func (o *MeshOptions) transform(p core.Point) core.Point {
	if o.Scale != 0 && o.Scale != 1 {
		p = core.NewPoint(p.X*o.Scale, p.Y*o.Scale, p.Z*o.Scale)
	}
	if o.Rotation != [3]float64{} {
		p = core.NewPoint(p.X-o.Center.X, p.Y-o.Center.Y, p.Z-o.Center.Z)
		p = rotatePoint(p, o.Rotation)
		p = core.NewPoint(p.X+o.Center.X, p.Y+o.Center.Y, p.Z+o.Center.Z)
	}
	return core.NewPoint(p.X+o.Offset.X, p.Y+o.Offset.Y, p.Z+o.Offset.Z)
}

// rotatePoint applies rotation around X, Y, Z axes (in that order)
func rotatePoint(p core.Point, rotation [3]float64) core.Point {
	if rotation[0] != 0 {
		cos, sin := math.Cos(rotation[0]), math.Sin(rotation[0])
		p = core.NewPoint(p.X, p.Y*cos-p.Z*sin, p.Y*sin+p.Z*cos)
	}
	if rotation[1] != 0 {
		cos, sin := math.Cos(rotation[1]), math.Sin(rotation[1])
		p = core.NewPoint(p.X*cos+p.Z*sin, p.Y, -p.X*sin+p.Z*cos)
	}
	if rotation[2] != 0 {
		cos, sin := math.Cos(rotation[2]), math.Sin(rotation[2])
		p = core.NewPoint(p.X*cos-p.Y*sin, p.X*sin+p.Y*cos, p.Z)
	}
	return p
}
