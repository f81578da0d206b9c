package core

import "math"

// BoundingBox represents an axis-aligned bounding box. Min <= Max on every axis.
type BoundingBox struct {
	Min Point // Minimum corner
	Max Point // Maximum corner
}

// NewBoundingBox creates the box spanned by two opposite corners given in any order
func NewBoundingBox(a, b Point) BoundingBox {
	return BoundingBox{
		Min: Point{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)},
		Max: Point{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)},
	}
}

// BoundingBoxFromPoints creates a box that bounds all given points
func BoundingBoxFromPoints(points ...Point) BoundingBox {
	if len(points) == 0 {
		return BoundingBox{}
	}

	box := BoundingBox{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box = box.Combine(BoundingBox{Min: p, Max: p})
	}
	return box
}

// Combine returns the box bounding both boxes
func (b BoundingBox) Combine(other BoundingBox) BoundingBox {
	return BoundingBox{
		Min: Point{
			X: math.Min(b.Min.X, other.Min.X),
			Y: math.Min(b.Min.Y, other.Min.Y),
			Z: math.Min(b.Min.Z, other.Min.Z),
		},
		Max: Point{
			X: math.Max(b.Max.X, other.Max.X),
			Y: math.Max(b.Max.Y, other.Max.Y),
			Z: math.Max(b.Max.Z, other.Max.Z),
		},
	}
}

// Contains reports whether other lies entirely inside b
func (b BoundingBox) Contains(other BoundingBox) bool {
	for axis := 0; axis < 3; axis++ {
		if other.Min.Axis(axis) < b.Min.Axis(axis)-Epsilon || other.Max.Axis(axis) > b.Max.Axis(axis)+Epsilon {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether p lies inside b or on its boundary
func (b BoundingBox) ContainsPoint(p Point) bool {
	return b.Contains(BoundingBox{Min: p, Max: p})
}

// Center returns the center point of the box
func (b BoundingBox) Center() Point {
	return Point{
		X: (b.Min.X + b.Max.X) * 0.5,
		Y: (b.Min.Y + b.Max.Y) * 0.5,
		Z: (b.Min.Z + b.Max.Z) * 0.5,
	}
}

// Extent returns the size of the box along an axis
func (b BoundingBox) Extent(axis int) float64 {
	return b.Max.Axis(axis) - b.Min.Axis(axis)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (b BoundingBox) LongestAxis() int {
	x, y, z := b.Extent(0), b.Extent(1), b.Extent(2)
	if x >= y && x >= z {
		return 0
	}
	if y >= z {
		return 1
	}
	return 2
}

// Split bisects the box at the midpoint of its longest axis.
// The union of the two halves is the original box.
func (b BoundingBox) Split() (BoundingBox, BoundingBox) {
	axis := b.LongestAxis()
	mid := b.Center().Axis(axis)

	lowMax, highMin := b.Max, b.Min
	switch axis {
	case 0:
		lowMax.X, highMin.X = mid, mid
	case 1:
		lowMax.Y, highMin.Y = mid, mid
	case 2:
		lowMax.Z, highMin.Z = mid, mid
	}
	return BoundingBox{Min: b.Min, Max: lowMax}, BoundingBox{Min: highMin, Max: b.Max}
}

// EdgeDistance returns the gap between the nearest faces of two boxes,
// zero when they touch or overlap
func (b BoundingBox) EdgeDistance(other BoundingBox) float64 {
	sum := 0.0
	for axis := 0; axis < 3; axis++ {
		gap := math.Max(0, math.Max(other.Min.Axis(axis)-b.Max.Axis(axis), b.Min.Axis(axis)-other.Max.Axis(axis)))
		sum += gap * gap
	}
	return math.Sqrt(sum)
}

// CenterDistance returns the distance between the centers of two boxes
func (b BoundingBox) CenterDistance(other BoundingBox) float64 {
	return b.Center().Distance(other.Center())
}

// Intersects tests the ray against the box using the slab method.
// The box is hit when the overlap interval starts within maxDistance and ends in front of the origin.
func (b BoundingBox) Intersects(ray Ray, maxDistance float64) bool {
	tMin := math.Inf(-1)
	tMax := math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		min := b.Min.Axis(axis)
		max := b.Max.Axis(axis)
		origin := ray.Origin.Axis(axis)
		direction := ray.Direction.Axis(axis)

		// Parallel to this slab: the origin has to be inside it already
		if IsZero(direction) {
			if origin < min-Epsilon || origin > max+Epsilon {
				return false
			}
			continue
		}

		invDirection := 1.0 / direction
		t1 := (min - origin) * invDirection
		t2 := (max - origin) * invDirection
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax+Epsilon {
			return false
		}
	}

	return tMin <= maxDistance+Epsilon && tMax >= -Epsilon
}

// IsValid returns true if min <= max on all axes
func (b BoundingBox) IsValid() bool {
	return b.Min.X <= b.Max.X &&
		b.Min.Y <= b.Max.Y &&
		b.Min.Z <= b.Max.Z
}
