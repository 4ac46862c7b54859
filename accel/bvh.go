package accel

import "github.com/chg95211/Ray-Tracing-Core/types"

// Initial capacity of the traversal stack. Splits are count-balanced so the
// tree depth never exceeds ceil(log2(n)); the stack only holds one pending
// node per level and outgrowing this would need more than 2^64 primitives.
const traversalStackSize = 64

// A bounding volume hierarchy over a set of primitives.
//
// A BVH is built once and is read-only afterwards; Intersect and IntersectP
// may be called concurrently from multiple goroutines as long as each call
// uses its own ray and hit record.
type BVH struct {
	// Primitives in leaf order.
	prims []Primitive

	// Tree nodes in depth-first order; nodes[0] is the root.
	nodes []Node

	bounds types.BBox
	built  bool
	stats  BuildStats
}

// Counters for the work performed by a single traversal.
type TraversalCounters struct {
	BoxTests       int
	PrimitiveTests int
}

// Create an empty BVH. Call Build to populate it.
func New() *BVH {
	return &BVH{
		bounds: types.EmptyBBox(),
	}
}

// Create a BVH and build it over prims.
func NewBVH(prims []Primitive) *BVH {
	bvh := New()
	bvh.Build(prims)
	return bvh
}

// Build the hierarchy. The BVH takes ownership of prims and reorders it in
// place. Build may only be called once; to rebuild, create a new BVH.
func (bvh *BVH) Build(prims []Primitive) {
	if bvh.built {
		panic("accel: Build called on an already built BVH")
	}

	b := newBuilder(prims)
	bvh.nodes = b.build()
	bvh.prims = prims
	bvh.stats = b.stats
	bvh.built = true

	if len(bvh.nodes) != 0 {
		bvh.bounds = bvh.nodes[0].Bounds
	}
}

// Get the union of all primitive bounds. An empty BVH returns an empty box.
func (bvh *BVH) WorldBounds() types.BBox {
	return bvh.bounds
}

// Get the flattened node list.
func (bvh *BVH) Nodes() []Node {
	return bvh.nodes
}

// Get the primitives in leaf order.
func (bvh *BVH) Primitives() []Primitive {
	return bvh.prims
}

// Get the statistics recorded while building the tree.
func (bvh *BVH) BuildStats() BuildStats {
	return bvh.stats
}

// Find the closest primitive hit along ray. On success, hit describes the
// closest hit and ray.TMax is set to its distance. A nil hit still runs a
// closest-hit query; only the hit details are discarded.
func (bvh *BVH) Intersect(ray *types.Ray, hit *Intersection) bool {
	return bvh.IntersectCounted(ray, hit, nil)
}

// Test whether any primitive intersects ray.
func (bvh *BVH) IntersectP(ray *types.Ray) bool {
	return bvh.traverse(ray, nil, true, nil)
}

// Same as Intersect but also records traversal work in counters.
func (bvh *BVH) IntersectCounted(ray *types.Ray, hit *Intersection, counters *TraversalCounters) bool {
	if hit == nil {
		hit = &Intersection{}
	}
	return bvh.traverse(ray, hit, false, counters)
}

// Same as IntersectP but also records traversal work in counters.
func (bvh *BVH) IntersectPCounted(ray *types.Ray, counters *TraversalCounters) bool {
	return bvh.traverse(ray, nil, true, counters)
}

// Walk the tree front-to-back. An occlusion query ignores hit and stops at the
// first primitive that reports an intersection.
func (bvh *BVH) traverse(ray *types.Ray, hit *Intersection, occlusion bool, counters *TraversalCounters) bool {
	if len(bvh.nodes) == 0 {
		return false
	}

	var stackBuf [traversalStackSize]int32
	stack := stackBuf[:0]
	nodeIndex := int32(0)
	found := false

	for {
		node := &bvh.nodes[nodeIndex]
		if counters != nil {
			counters.BoxTests++
		}

		if node.Bounds.IntersectP(ray) {
			if !node.IsLeaf() {
				// Descend into the near child and defer the far one
				if ray.DirIsNeg[node.Axis] == 1 {
					stack = append(stack, nodeIndex+1)
					nodeIndex = node.SecondChild()
				} else {
					stack = append(stack, node.SecondChild())
					nodeIndex++
				}
				continue
			}

			first, count := node.Primitives()
			for _, prim := range bvh.prims[first : first+count] {
				if counters != nil {
					counters.PrimitiveTests++
				}

				if occlusion {
					if prim.IntersectP(ray) {
						return true
					}
				} else if prim.Intersect(ray, hit) {
					found = true
				}
			}
		}

		if len(stack) == 0 {
			break
		}
		nodeIndex = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
	}

	return found
}
