package accel

import (
	"sort"
	"time"

	"github.com/chg95211/Ray-Tracing-Core/log"
	"github.com/chg95211/Ray-Tracing-Core/types"
)

// Ranges with fewer primitives than this value are turned into leafs.
const LeafThreshold = 15

// Per-primitive data cached for the duration of a build.
type primitiveInfo struct {
	index    int
	bounds   types.BBox
	centroid types.Vec3
}

// A node of the transient build tree. Children are indices into the build
// arena; leaf nodes have primCount > 0.
type buildNode struct {
	bounds types.BBox

	firstPrimOffset int
	primCount       int

	axis     types.Axis
	children [2]int32
}

// Statistics collected while building a BVH.
type BuildStats struct {
	Primitives       int
	Nodes            int
	Leaves           int
	MaxDepth         int
	DegenerateLeaves int
	BuildTime        time.Duration
}

type builder struct {
	logger log.Logger

	// The input primitive list.
	prims []Primitive

	// Build info for each primitive; sorted in place while partitioning.
	info []primitiveInfo

	// Primitives in leaf order.
	orderedPrims []Primitive

	// Build tree nodes. Index 0 is not necessarily the root.
	arena []buildNode

	stats BuildStats
}

func newBuilder(prims []Primitive) *builder {
	b := &builder{
		logger:       log.New("bvh builder"),
		prims:        prims,
		info:         make([]primitiveInfo, len(prims)),
		orderedPrims: make([]Primitive, 0, len(prims)),
		// A tree with n items and leafs holding at least one item has at most 2n-1 nodes.
		arena: make([]buildNode, 0, 2*len(prims)),
		stats: BuildStats{Primitives: len(prims)},
	}

	for index, prim := range prims {
		bounds := prim.WorldBounds()
		b.info[index] = primitiveInfo{
			index:    index,
			bounds:   bounds,
			centroid: bounds.Center(),
		}
	}

	return b
}

// Partition info[start:end] and return the arena index of the subtree root.
func (b *builder) recursiveBuild(start, end, depth int) int32 {
	if depth > b.stats.MaxDepth {
		b.stats.MaxDepth = depth
	}

	// Calculate bounding box for node
	bounds := types.EmptyBBox()
	for i := start; i < end; i++ {
		bounds = bounds.Union(b.info[i].bounds)
	}

	primCount := end - start
	if primCount < LeafThreshold {
		return b.createLeaf(start, end, bounds)
	}

	// Select split axis using the centroid bounds; primitive bounds can overlap
	// heavily even when their centers are well separated.
	centroidBounds := types.EmptyBBox()
	for i := start; i < end; i++ {
		centroidBounds = centroidBounds.UnionPoint(b.info[i].centroid)
	}
	axis := centroidBounds.MaxExtentAxis()

	// All centroids coincide along the widest axis so they coincide along
	// every axis; no ordering can separate them.
	if centroidBounds.Max[axis] == centroidBounds.Min[axis] {
		b.stats.DegenerateLeaves++
		return b.createLeaf(start, end, bounds)
	}

	// Split into two equally sized halves along the axis.
	items := b.info[start:end]
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].centroid[axis] < items[j].centroid[axis]
	})
	mid := (start + end) / 2

	nodeIndex := b.allocNode()
	left := b.recursiveBuild(start, mid, depth+1)
	right := b.recursiveBuild(mid, end, depth+1)

	node := &b.arena[nodeIndex]
	node.axis = axis
	node.children = [2]int32{left, right}
	node.bounds = b.arena[left].bounds.Union(b.arena[right].bounds)

	return nodeIndex
}

// Append the primitives of info[start:end] to the ordered list and emit a leaf
// that references them.
func (b *builder) createLeaf(start, end int, bounds types.BBox) int32 {
	firstPrimOffset := len(b.orderedPrims)
	for i := start; i < end; i++ {
		b.orderedPrims = append(b.orderedPrims, b.prims[b.info[i].index])
	}

	nodeIndex := b.allocNode()
	b.arena[nodeIndex] = buildNode{
		bounds:          bounds,
		firstPrimOffset: firstPrimOffset,
		primCount:       end - start,
	}
	b.stats.Leaves++

	return nodeIndex
}

func (b *builder) allocNode() int32 {
	b.arena = append(b.arena, buildNode{})
	b.stats.Nodes++
	return int32(len(b.arena) - 1)
}

// Build the tree, flatten it and reorder the input primitive list in place so
// that each leaf references a contiguous primitive range.
func (b *builder) build() []Node {
	start := time.Now()

	if len(b.prims) == 0 {
		b.stats.BuildTime = time.Since(start)
		return nil
	}

	root := b.recursiveBuild(0, len(b.prims), 0)
	nodes := make([]Node, b.stats.Nodes)
	offset := 0
	b.flatten(nodes, root, &offset)
	copy(b.prims, b.orderedPrims)

	b.stats.BuildTime = time.Since(start)
	b.logger.Debugf(
		"BVH tree build time: %d ms, primitives: %d, maxDepth: %d, nodes: %d, leafs: %d, degenerate leafs: %d",
		b.stats.BuildTime.Nanoseconds()/1e6, b.stats.Primitives,
		b.stats.MaxDepth, b.stats.Nodes, b.stats.Leaves, b.stats.DegenerateLeaves,
	)

	return nodes
}
