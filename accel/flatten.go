package accel

// Write the subtree rooted at arena node buildIndex into nodes using a
// depth-first preorder walk and return the slot assigned to it. offset tracks
// the next free slot.
//
// The first child of an interior node lands right after its parent, so only
// the second child's slot needs to be recorded.
func (b *builder) flatten(nodes []Node, buildIndex int32, offset *int) int32 {
	bn := &b.arena[buildIndex]
	myOffset := int32(*offset)
	*offset++

	node := &nodes[myOffset]
	node.Bounds = bn.bounds

	if bn.primCount > 0 {
		node.SetPrimitives(int32(bn.firstPrimOffset), int32(bn.primCount))
		return myOffset
	}

	b.flatten(nodes, bn.children[0], offset)
	node.SetSecondChild(bn.axis, b.flatten(nodes, bn.children[1], offset))
	return myOffset
}
