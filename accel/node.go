package accel

import "github.com/chg95211/Ray-Tracing-Core/types"

// A flattened BVH node. Nodes are stored in depth-first order so the first
// child of an interior node always follows its parent. Offset is a
// multipurpose field whose value depends on the node type:
//
// - For leafs it points to the first primitive in the ordered primitive list
//   and Count holds the (>0) number of primitives in the leaf.
// - For interior nodes it points to the second child node and Count is 0.
type Node struct {
	Bounds types.BBox
	Offset int32
	Count  int32
	Axis   types.Axis
}

// Returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.Count > 0
}

// Set up the node as a leaf.
func (n *Node) SetPrimitives(firstPrimIndex, count int32) {
	n.Offset = firstPrimIndex
	n.Count = count
}

// Get leaf primitive index and count.
func (n *Node) Primitives() (firstPrimIndex, count int32) {
	return n.Offset, n.Count
}

// Set up the node as an interior node.
func (n *Node) SetSecondChild(axis types.Axis, index int32) {
	n.Axis = axis
	n.Offset = index
	n.Count = 0
}

// Get the index of the second child of an interior node.
func (n *Node) SecondChild() int32 {
	return n.Offset
}
