package physics

import (
	"github.com/go-gl/mathgl/mgl64"
)

const (
	maxLeafTriangles = 8
	maxTreeDepth     = 32
)

// bvhNode is a node in the bounding volume hierarchy. Internal nodes have
// both children set; leaves hold indices into Index.triangles.
type bvhNode struct {
	bounds    AABB
	left      *bvhNode
	right     *bvhNode
	triangles []int
}

func (n *bvhNode) leaf() bool {
	return n.left == nil
}

// Index is a read-only bounding volume hierarchy over static world
// triangles. It is safe for concurrent queries once built.
type Index struct {
	triangles []Triangle
	root      *bvhNode
	dropped   int
	depth     int
}

// NewIndex partitions the triangles into a tree. Degenerate triangles are
// dropped. An index over zero triangles never reports a contact.
func NewIndex(triangles []Triangle) *Index {
	idx := &Index{triangles: make([]Triangle, 0, len(triangles))}
	for _, t := range triangles {
		if t.Degenerate() {
			idx.dropped++
			continue
		}
		idx.triangles = append(idx.triangles, t)
	}

	if len(idx.triangles) == 0 {
		return idx
	}

	indices := make([]int, len(idx.triangles))
	for i := range indices {
		indices[i] = i
	}
	idx.root = idx.buildNode(indices, 0)
	return idx
}

func (idx *Index) buildNode(indices []int, depth int) *bvhNode {
	node := &bvhNode{bounds: idx.computeBounds(indices)}
	if depth > idx.depth {
		idx.depth = depth
	}

	if len(indices) <= maxLeafTriangles || depth >= maxTreeDepth {
		node.triangles = indices
		return node
	}

	mid := idx.partitionTriangles(indices, node.bounds.LongestAxis())
	if mid == 0 || mid == len(indices) {
		// All centroids coincide on the split axis.
		node.triangles = indices
		return node
	}

	node.left = idx.buildNode(indices[:mid], depth+1)
	node.right = idx.buildNode(indices[mid:], depth+1)
	return node
}

func (idx *Index) computeBounds(indices []int) AABB {
	bounds := EmptyAABB()
	for _, i := range indices {
		bounds = bounds.Union(idx.triangles[i].Bounds())
	}
	return bounds
}

// partitionTriangles splits indices around the mean centroid on axis and
// returns the first index of the upper half. Relative order is kept on both
// sides so queries visit triangles in a stable order.
func (idx *Index) partitionTriangles(indices []int, axis int) int {
	center := 0.0
	for _, i := range indices {
		center += idx.triangles[i].Centroid()[axis]
	}
	center /= float64(len(indices))

	lower := make([]int, 0, len(indices))
	upper := make([]int, 0, len(indices)/2)
	for _, i := range indices {
		if idx.triangles[i].Centroid()[axis] < center {
			lower = append(lower, i)
		} else {
			upper = append(upper, i)
		}
	}
	n := copy(indices, lower)
	copy(indices[n:], upper)
	return n
}

// visit calls fn for every triangle whose node bounds overlap query,
// depth first, left before right.
func (idx *Index) visit(query AABB, fn func(i int)) {
	if idx.root == nil {
		return
	}
	stack := []*bvhNode{idx.root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !node.bounds.Intersects(query) {
			continue
		}
		if node.leaf() {
			for _, i := range node.triangles {
				if idx.triangles[i].Bounds().Intersects(query) {
					fn(i)
				}
			}
			continue
		}
		stack = append(stack, node.right, node.left)
	}
}

// CapsuleIntersect reports the deepest penetration of the capsule into any
// indexed triangle. Exact ties keep the first contact found. It panics if the
// capsule has non-finite endpoints or radius.
func (idx *Index) CapsuleIntersect(c Capsule) (Contact, bool) {
	c.mustBeFinite()

	var best Contact
	hit := false
	idx.visit(c.Bounds(), func(i int) {
		contact, ok := triangleCapsuleContact(idx.triangles[i], c)
		if !ok {
			return
		}
		if !hit || contact.Depth > best.Depth {
			best = contact
			hit = true
		}
	})
	return best, hit
}

// CapsuleResolve pushes a working copy of the capsule out of every
// penetrated triangle in scan order and reports the net displacement as a
// single contact.
func (idx *Index) CapsuleResolve(c Capsule) (Contact, bool) {
	c.mustBeFinite()

	moved := c
	hit := false
	var last mgl64.Vec3
	idx.visit(c.Bounds(), func(i int) {
		contact, ok := triangleCapsuleContact(idx.triangles[i], moved)
		if !ok {
			return
		}
		hit = true
		last = contact.Point
		moved = moved.Translate(contact.Normal.Mul(contact.Depth))
	})
	if !hit {
		return Contact{}, false
	}

	delta := moved.Center().Sub(c.Center())
	depth := delta.Len()
	if depth == 0 {
		return Contact{Normal: Up, Point: last}, true
	}
	return Contact{Normal: delta.Mul(1 / depth), Depth: depth, Point: last}, true
}

// candidates counts triangles that survive the tree pruning for query.
func (idx *Index) candidates(query AABB) int {
	n := 0
	idx.visit(query, func(int) { n++ })
	return n
}

func (idx *Index) TriangleCount() int {
	return len(idx.triangles)
}

// Dropped returns the number of degenerate input triangles that were skipped.
func (idx *Index) Dropped() int {
	return idx.dropped
}

func (idx *Index) Empty() bool {
	return idx.root == nil
}

// Depth returns the deepest level of the tree, 0 for a single leaf.
func (idx *Index) Depth() int {
	return idx.depth
}

// Bounds returns the AABB of the whole index.
func (idx *Index) Bounds() AABB {
	if idx.root == nil {
		return AABB{}
	}
	return idx.root.bounds
}

// Triangles returns a copy of the indexed triangles.
func (idx *Index) Triangles() []Triangle {
	out := make([]Triangle, len(idx.triangles))
	copy(out, idx.triangles)
	return out
}
