package core

import (
	"math"
	"math/rand/v2"
)

// Sampler provides random numbers for jittered sampling.
// Can be swapped out for deterministic testing.
type Sampler interface {
	Get1D() float64
	Get2D() (float64, float64)
}

// RandomSampler wraps a math/rand/v2 generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with a PCG stream keyed by seed and stream.
// The renderer keys streams by pixel index so output does not depend on scheduling.
func NewSeededSampler(seed, stream uint64) *RandomSampler {
	return &RandomSampler{random: rand.New(rand.NewPCG(seed, stream))}
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() (float64, float64) {
	return r.random.Float64(), r.random.Float64()
}

// GridShape selects the footprint of a sample grid
type GridShape int

const (
	GridSquare GridShape = iota
	GridCircle
)

func (s GridShape) String() string {
	if s == GridCircle {
		return "circle"
	}
	return "square"
}

// SampleGrid generates size*size points on a square or circular disk of the given
// radius centered at center and perpendicular to normal. Each point is jittered
// inside its grid cell; a nil sampler places points at cell centers.
// A size below 2 yields the center alone.
func SampleGrid(center Point, normal Vector, radius float64, size int, shape GridShape, sampler Sampler) []Point {
	if size < 2 || IsZero(radius) {
		return []Point{center}
	}

	u := normal.Orthogonal()
	v, err := normal.Cross(u)
	if err != nil {
		// u is orthogonal to normal, so the cross product is never zero
		panic(err)
	}
	v = v.Normalize()

	points := make([]Point, 0, size*size)
	cell := 1.0 / float64(size)
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			jx, jy := 0.5, 0.5
			if sampler != nil {
				jx, jy = sampler.Get2D()
			}
			sx := (float64(i) + jx) * cell
			sy := (float64(j) + jy) * cell

			var x, y float64
			if shape == GridCircle {
				x, y = ConcentricDisk(sx, sy)
			} else {
				x, y = 2*sx-1, 2*sy-1
			}
			points = append(points, center.AddScaled(u, x*radius).AddScaled(v, y*radius))
		}
	}
	return points
}

// ConcentricDisk maps a point of the unit square to the unit disk using
// concentric mapping, which preserves stratification
func ConcentricDisk(sx, sy float64) (float64, float64) {
	// Map sample to [-1,1]² and handle degeneracy at the origin
	ox, oy := 2*sx-1, 2*sy-1
	if ox == 0 && oy == 0 {
		return 0, 0
	}

	var theta, r float64
	if math.Abs(ox) > math.Abs(oy) {
		r = ox
		theta = math.Pi / 4 * (oy / ox)
	} else {
		r = oy
		theta = math.Pi/2 - math.Pi/4*(ox/oy)
	}
	return r * math.Cos(theta), r * math.Sin(theta)
}
