package geometry

import (
	"sort"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// boxed pairs an intersectable with its precomputed bounds
type boxed struct {
	item Intersectable
	box  core.BoundingBox
}

// buildHierarchy regroups items into a binary tree. Unbounded items sit
// directly under the root and are tested for every ray.
func (c *Container) buildHierarchy(items []Intersectable) int {
	var bounded []boxed
	var children []int
	for _, item := range items {
		box, ok := item.Bounds()
		if !ok {
			children = append(children, c.addLeaf(item))
			continue
		}
		bounded = append(bounded, boxed{item: item, box: box})
	}

	if len(bounded) > 0 {
		children = append(children, c.buildNode(bounded))
	}
	return c.addGroupNode(children)
}

// buildNode recursively splits items by the longest axis of their combined box
func (c *Container) buildNode(items []boxed) int {
	if len(items) == 1 {
		return c.addLeaf(items[0].item)
	}
	if len(items) <= leafThreshold {
		children := make([]int, len(items))
		for i, it := range items {
			children[i] = c.addLeaf(it.item)
		}
		return c.addGroupNode(children)
	}

	left, right := partition(items)
	return c.addGroupNode([]int{c.buildNode(left), c.buildNode(right)})
}

// partition divides items into two non-empty sets
func partition(items []boxed) ([]boxed, []boxed) {
	box := items[0].box
	for _, it := range items[1:] {
		box = box.Combine(it.box)
	}

	// Spatial split: items whose centers fall in the low half go left
	low, _ := box.Split()
	axis := box.LongestAxis()
	mid := low.Max.Axis(axis)
	var left, right []boxed
	for _, it := range items {
		if it.box.Center().Axis(axis) < mid {
			left = append(left, it)
		} else {
			right = append(right, it)
		}
	}
	if len(left) > 0 && len(right) > 0 {
		return left, right
	}

	// Clustering: grow two groups around the farthest pair of boxes
	if left, right = cluster(items); len(left) > 0 && len(right) > 0 {
		return left, right
	}

	// Identical boxes: split the list in half along the axis
	sorted := make([]boxed, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].box.Center().Axis(axis) < sorted[j].box.Center().Axis(axis)
	})
	half := len(sorted) / 2
	return sorted[:half], sorted[half:]
}

// cluster assigns each item to the nearer of two seed boxes. The edge
// distance decides and the center distance breaks ties.
func cluster(items []boxed) ([]boxed, []boxed) {
	a := farthest(items, items[0].box)
	b := farthest(items, items[a].box)
	if a == b {
		return items, nil
	}
	seedA, seedB := items[a].box, items[b].box

	var left, right []boxed
	for i, it := range items {
		switch {
		case i == a:
			left = append(left, it)
		case i == b:
			right = append(right, it)
		case closerTo(it.box, seedA, seedB):
			left = append(left, it)
		default:
			right = append(right, it)
		}
	}
	return left, right
}

// closerTo reports whether box is nearer to a than to b
func closerTo(box, a, b core.BoundingBox) bool {
	da, db := box.EdgeDistance(a), box.EdgeDistance(b)
	if !core.IsZero(da - db) {
		return da < db
	}
	return box.CenterDistance(a) <= box.CenterDistance(b)
}

// farthest returns the index of the item whose center is farthest from the box
func farthest(items []boxed, from core.BoundingBox) int {
	best, bestDistance := 0, -1.0
	for i, it := range items {
		if d := it.box.CenterDistance(from); d > bestDistance {
			best, bestDistance = i, d
		}
	}
	return best
}

// ContainerStats summarizes the shape of a container tree
type ContainerStats struct {
	Nodes    int
	Leaves   int
	Groups   int
	MaxDepth int
	Bounded  int // nodes carrying a usable box
}

// Stats walks the tree and counts its nodes
func (c *Container) Stats() ContainerStats {
	var stats ContainerStats
	c.collectStats(c.root, 1, &stats)
	return stats
}

func (c *Container) collectStats(id, depth int, stats *ContainerStats) {
	n := c.nodes[id]
	stats.Nodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}
	if n.bounded {
		stats.Bounded++
	}
	if n.item != nil {
		stats.Leaves++
		return
	}
	stats.Groups++
	for _, child := range n.children {
		c.collectStats(child, depth+1, stats)
	}
}
