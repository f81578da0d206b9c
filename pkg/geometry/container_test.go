package geometry

import (
	"math/rand/v2"
	"slices"
	"sync/atomic"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// countingIntersectable records how often it is queried
type countingIntersectable struct {
	Intersectable
	calls atomic.Int64
}

func (c *countingIntersectable) Intersections(ray core.Ray, maxDistance float64) []Intersection {
	c.calls.Add(1)
	return c.Intersectable.Intersections(ray, maxDistance)
}

// mustGeometry unwraps a constructor result and panics on invalid fixtures
func mustGeometry[T any](g T, err error) T {
	if err != nil {
		panic(err)
	}
	return g
}

// testScene builds a mix of bounded and unbounded primitives with a nested group
func testScene(t *testing.T, mode Acceleration) *Container {
	t.Helper()
	surface := DefaultSurface()

	var items []Intersectable
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			items = append(items, mustGeometry(NewSphere(core.NewPoint(float64(i)*3-6, float64(j)*3-6, -10), 1, surface)))
		}
	}
	items = append(items,
		NewPlane(core.NewPoint(0, 0, -20), core.AxisZ, surface),
		mustGeometry(NewTriangle(core.NewPoint(-2, -2, -5), core.NewPoint(2, -2, -5), core.NewPoint(0, 2, -5), surface)),
		mustGeometry(NewCylinder(core.NewRay(core.NewPoint(8, 0, -12), core.AxisY), 1, 4, surface)),
		mustGeometry(NewTube(core.NewRay(core.NewPoint(0, 9, 0), core.AxisX), 0.5, surface)),
	)

	group := NewContainer(mode,
		mustGeometry(NewSphere(core.NewPoint(-8, 8, -8), 1.5, surface)),
		mustGeometry(NewSphere(core.NewPoint(-8, 5, -8), 1, surface)),
	)
	items = append(items, group)

	return NewContainer(mode, items...)
}

func hitDistances(hits []Intersection) []float64 {
	ts := make([]float64, len(hits))
	for i, h := range hits {
		ts[i] = h.T
	}
	slices.Sort(ts)
	return ts
}

func TestContainer_ModesAgree(t *testing.T) {
	modes := []Acceleration{AccelerationNone, AccelerationFlat, AccelerationHierarchy}
	containers := make([]*Container, len(modes))
	for i, mode := range modes {
		containers[i] = testScene(t, mode)
	}

	random := rand.New(rand.NewPCG(7, 11))
	for n := 0; n < 2000; n++ {
		origin := core.NewPoint(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*10)
		dir, err := core.NewVector(random.Float64()*2-1, random.Float64()*2-1, -random.Float64())
		if err != nil {
			continue
		}
		ray := core.NewRay(origin, dir)
		maxDistance := Unbounded
		if n%3 == 0 {
			maxDistance = random.Float64() * 30
		}

		expected := hitDistances(containers[0].Intersections(ray, maxDistance))
		for i := 1; i < len(modes); i++ {
			got := hitDistances(containers[i].Intersections(ray, maxDistance))
			if !slices.Equal(expected, got) {
				t.Fatalf("ray %v: mode %v returned %v, mode %v returned %v", ray, modes[0], expected, modes[i], got)
			}
		}
	}
}

func TestContainer_HierarchyPrunes(t *testing.T) {
	surface := DefaultSurface()
	build := func(mode Acceleration) (*Container, []*countingIntersectable) {
		var counters []*countingIntersectable
		var items []Intersectable
		for i := 0; i < 64; i++ {
			s := mustGeometry(NewSphere(core.NewPoint(float64(i%8)*4, float64(i/8)*4, 0), 1, surface))
			c := &countingIntersectable{Intersectable: s}
			counters = append(counters, c)
			items = append(items, c)
		}
		return NewContainer(mode, items...), counters
	}
	total := func(counters []*countingIntersectable) int64 {
		var sum int64
		for _, c := range counters {
			sum += c.calls.Load()
		}
		return sum
	}

	// A ray that only passes sphere (0,0,0)
	ray := core.NewRay(core.NewPoint(0, 0, 10), core.MustVector(0, 0, -1))

	none, noneCounters := build(AccelerationNone)
	if hits := none.Intersections(ray, Unbounded); len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if got := total(noneCounters); got != 64 {
		t.Errorf("without acceleration every item is tested, got %d calls", got)
	}

	tree, treeCounters := build(AccelerationHierarchy)
	if hits := tree.Intersections(ray, Unbounded); len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if got := total(treeCounters); got >= 8 {
		t.Errorf("hierarchy should prune most items, got %d calls", got)
	}

	// Flat mode rejects the whole group when the ray misses its box
	flat, flatCounters := build(AccelerationFlat)
	miss := core.NewRay(core.NewPoint(100, 100, 10), core.MustVector(0, 0, -1))
	if hits := flat.Intersections(miss, Unbounded); len(hits) != 0 {
		t.Fatalf("expected a miss, got %d hits", len(hits))
	}
	if got := total(flatCounters); got != 0 {
		t.Errorf("flat box should reject the miss, got %d calls", got)
	}
}

func TestContainer_UnboundedAlwaysTested(t *testing.T) {
	surface := DefaultSurface()
	plane := &countingIntersectable{Intersectable: NewPlane(core.NewPoint(0, 0, -50), core.AxisZ, surface)}
	sphere := mustGeometry(NewSphere(core.Origin, 1, surface))

	c := NewContainer(AccelerationHierarchy, sphere, plane)
	if _, ok := c.Bounds(); ok {
		t.Error("a container holding a plane should be unbounded")
	}

	ray := core.NewRay(core.NewPoint(10, 10, 0), core.MustVector(0, 0, -1))
	hits := c.Intersections(ray, Unbounded)
	if len(hits) != 1 || plane.calls.Load() != 1 {
		t.Errorf("expected the plane hit, got %d hits and %d calls", len(hits), plane.calls.Load())
	}
}

func TestContainer_ClosestAndStats(t *testing.T) {
	surface := DefaultSurface()
	near := mustGeometry(NewSphere(core.NewPoint(0, 0, -5), 1, surface))
	far := mustGeometry(NewSphere(core.NewPoint(0, 0, -10), 1, surface))
	c := NewContainer(AccelerationHierarchy, far, near, mustGeometry(NewSphere(core.NewPoint(5, 0, -5), 1, surface)))

	hit, ok := c.Closest(core.NewRay(core.Origin, core.MustVector(0, 0, -1)))
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Geometry != near || !core.IsZero(hit.T-4) {
		t.Errorf("expected the near sphere at t=4, got %v at t=%g", hit.Point, hit.T)
	}

	stats := c.Stats()
	if stats.Leaves != 3 {
		t.Errorf("expected 3 leaves, got %d", stats.Leaves)
	}
	if stats.Nodes != stats.Leaves+stats.Groups {
		t.Errorf("node count mismatch: %+v", stats)
	}
	if stats.MaxDepth < 2 {
		t.Errorf("expected a nested tree, got depth %d", stats.MaxDepth)
	}

	empty := NewContainer(AccelerationHierarchy)
	if _, ok := empty.Closest(core.NewRay(core.Origin, core.AxisX)); ok {
		t.Error("empty container should never be hit")
	}
}

func TestContainer_IdenticalBoxes(t *testing.T) {
	surface := DefaultSurface()
	var items []Intersectable
	for i := 0; i < 9; i++ {
		items = append(items, mustGeometry(NewSphere(core.NewPoint(0, 0, -5), 1, surface)))
	}
	c := NewContainer(AccelerationHierarchy, items...)

	if got := c.Stats().Leaves; got != 9 {
		t.Errorf("expected 9 leaves, got %d", got)
	}
	if hits := c.Intersections(core.NewRay(core.Origin, core.MustVector(0, 0, -1)), Unbounded); len(hits) != 18 {
		t.Errorf("expected 18 hits, got %d", len(hits))
	}
}

func TestParseAcceleration(t *testing.T) {
	for name, expected := range map[string]Acceleration{
		"none": AccelerationNone, "off": AccelerationNone, "flat": AccelerationFlat,
		"hierarchy": AccelerationHierarchy, "BVH": AccelerationHierarchy,
	} {
		got, err := ParseAcceleration(name)
		if err != nil || got != expected {
			t.Errorf("%q: expected %v, got %v (%v)", name, expected, got, err)
		}
	}
	if _, err := ParseAcceleration("octree"); err == nil {
		t.Error("expected an error for an unknown mode")
	}
}
