package geometry

import (
	"fmt"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Acceleration selects how a container prunes intersection queries with bounding boxes
type Acceleration int

const (
	// AccelerationNone tests every primitive for every ray
	AccelerationNone Acceleration = iota
	// AccelerationFlat checks one box per explicit group and descends without further hierarchy
	AccelerationFlat
	// AccelerationHierarchy builds a binary bounding volume hierarchy over all primitives
	AccelerationHierarchy
)

func (a Acceleration) String() string {
	switch a {
	case AccelerationNone:
		return "none"
	case AccelerationFlat:
		return "flat"
	case AccelerationHierarchy:
		return "hierarchy"
	default:
		return fmt.Sprintf("acceleration(%d)", int(a))
	}
}

// ParseAcceleration converts a mode name ("none", "flat", "hierarchy") to an Acceleration
func ParseAcceleration(name string) (Acceleration, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "off", "":
		return AccelerationNone, nil
	case "flat":
		return AccelerationFlat, nil
	case "hierarchy", "bvh":
		return AccelerationHierarchy, nil
	default:
		return 0, fmt.Errorf("%w: unknown acceleration mode %q", core.ErrInvalidConfig, name)
	}
}

// Leaf threshold: groups of this many or fewer primitives become a single node
const leafThreshold = 2

// node is either a leaf holding one intersectable or a group of child node ids
type node struct {
	item     Intersectable // nil for groups
	children []int
	box      core.BoundingBox
	bounded  bool
	prune    bool // test the box before visiting the node
}

// Container is an immutable tree of intersectables stored in an arena.
// It is built once and is safe for concurrent queries.
type Container struct {
	nodes []node
	root  int
	mode  Acceleration
}

// NewContainer builds a container over the given items. Nested containers
// become explicit groups, except in hierarchy mode where all of their
// primitives are regrouped by the hierarchy builder.
func NewContainer(mode Acceleration, items ...Intersectable) *Container {
	c := &Container{mode: mode}
	if mode == AccelerationHierarchy {
		c.root = c.buildHierarchy(flatten(items, nil))
	} else {
		c.root = c.addGroup(items)
	}
	return c
}

// Mode returns the acceleration mode the container was built with
func (c *Container) Mode() Acceleration {
	return c.mode
}

// Intersections returns every hit within maxDistance. The list is not sorted.
func (c *Container) Intersections(ray core.Ray, maxDistance float64) []Intersection {
	return c.visit(c.root, ray, maxDistance, nil)
}

// Closest returns the hit nearest the ray origin
func (c *Container) Closest(ray core.Ray) (Intersection, bool) {
	return ClosestIntersection(ray, c.Intersections(ray, Unbounded))
}

// Bounds returns the box around all items, or false if any item is unbounded
func (c *Container) Bounds() (core.BoundingBox, bool) {
	root := c.nodes[c.root]
	return root.box, root.bounded
}

// visit recursively collects intersections below a node
func (c *Container) visit(id int, ray core.Ray, maxDistance float64, result []Intersection) []Intersection {
	n := &c.nodes[id]

	// Prune subtrees whose box the ray misses
	if n.prune && !n.box.Intersects(ray, maxDistance) {
		return result
	}

	if n.item != nil {
		return append(result, n.item.Intersections(ray, maxDistance)...)
	}

	for _, child := range n.children {
		result = c.visit(child, ray, maxDistance, result)
	}
	return result
}

// addNode appends a node to the arena and returns its id
func (c *Container) addNode(n node) int {
	c.nodes = append(c.nodes, n)
	return len(c.nodes) - 1
}

// addLeaf stores a single intersectable
func (c *Container) addLeaf(item Intersectable) int {
	box, bounded := item.Bounds()
	return c.addNode(node{
		item:    item,
		box:     box,
		bounded: bounded,
		prune:   bounded && c.mode == AccelerationHierarchy,
	})
}

// addGroup stores an explicit group, grafting nested containers as subgroups
func (c *Container) addGroup(items []Intersectable) int {
	children := make([]int, 0, len(items))
	for _, item := range items {
		if sub, ok := item.(*Container); ok {
			children = append(children, c.graft(sub, sub.root))
		} else {
			children = append(children, c.addLeaf(item))
		}
	}
	return c.addGroupNode(children)
}

// graft copies a node of another container into this arena
func (c *Container) graft(src *Container, id int) int {
	n := src.nodes[id]
	if n.item != nil {
		return c.addLeaf(n.item)
	}
	children := make([]int, 0, len(n.children))
	for _, child := range n.children {
		children = append(children, c.graft(src, child))
	}
	return c.addGroupNode(children)
}

// addGroupNode stores a group whose box is the union of its children's boxes
func (c *Container) addGroupNode(children []int) int {
	var box core.BoundingBox
	bounded := len(children) > 0
	for i, child := range children {
		cn := c.nodes[child]
		if !cn.bounded {
			bounded = false
			break
		}
		if i == 0 {
			box = cn.box
		} else {
			box = box.Combine(cn.box)
		}
	}
	if !bounded {
		box = core.BoundingBox{}
	}

	return c.addNode(node{
		children: children,
		box:      box,
		bounded:  bounded,
		prune:    bounded && c.mode != AccelerationNone,
	})
}

// flatten collects every leaf item, expanding nested containers
func flatten(items []Intersectable, out []Intersectable) []Intersectable {
	for _, item := range items {
		sub, ok := item.(*Container)
		if !ok {
			out = append(out, item)
			continue
		}
		for _, n := range sub.nodes {
			if n.item != nil {
				out = append(out, n.item)
			}
		}
	}
	return out
}
