package accel

import (
	"bytes"
	"fmt"
	"time"
	"unsafe"

	"github.com/olekukonko/tablewriter"
)

// Structural statistics for a built BVH.
type Stats struct {
	Primitives int
	Nodes      int
	Leaves     int
	Interior   int

	// Depth of the deepest leaf; the root has depth 0.
	MaxDepth     int
	AvgLeafDepth float32

	MinLeafPrims int
	MaxLeafPrims int
	AvgLeafPrims float32

	DegenerateLeaves int

	// Memory used by the flattened node list.
	NodeBytes int

	BuildTime time.Duration
}

// Walk the flattened tree and collect statistics.
func (bvh *BVH) Stats() Stats {
	stats := Stats{
		Primitives:       len(bvh.prims),
		Nodes:            len(bvh.nodes),
		NodeBytes:        len(bvh.nodes) * int(unsafe.Sizeof(Node{})),
		DegenerateLeaves: bvh.stats.DegenerateLeaves,
		BuildTime:        bvh.stats.BuildTime,
	}
	if len(bvh.nodes) == 0 {
		return stats
	}

	type pending struct {
		index int32
		depth int
	}

	var depthSum int
	stack := []pending{{0, 0}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := &bvh.nodes[cur.index]
		if !node.IsLeaf() {
			stats.Interior++
			stack = append(stack, pending{node.SecondChild(), cur.depth + 1}, pending{cur.index + 1, cur.depth + 1})
			continue
		}

		_, count := node.Primitives()
		if stats.Leaves == 0 || int(count) < stats.MinLeafPrims {
			stats.MinLeafPrims = int(count)
		}
		if int(count) > stats.MaxLeafPrims {
			stats.MaxLeafPrims = int(count)
		}
		if cur.depth > stats.MaxDepth {
			stats.MaxDepth = cur.depth
		}
		depthSum += cur.depth
		stats.Leaves++
	}

	stats.AvgLeafPrims = float32(stats.Primitives) / float32(stats.Leaves)
	stats.AvgLeafDepth = float32(depthSum) / float32(stats.Leaves)
	return stats
}

// Build a tabular representation of the BVH statistics.
func (s Stats) String() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"BVH", "Value"})
	table.Append([]string{"Primitives", fmt.Sprintf("%d", s.Primitives)})
	table.Append([]string{"Nodes", fmt.Sprintf("%d (%s)", s.Nodes, fmtBytes(s.NodeBytes))})
	table.Append([]string{"Interior nodes", fmt.Sprintf("%d", s.Interior)})
	table.Append([]string{"Leafs", fmt.Sprintf("%d", s.Leaves)})
	table.Append([]string{"Degenerate leafs", fmt.Sprintf("%d", s.DegenerateLeaves)})
	table.Append([]string{"Max depth", fmt.Sprintf("%d", s.MaxDepth)})
	table.Append([]string{"Avg leaf depth", fmt.Sprintf("%3.1f", s.AvgLeafDepth)})
	table.Append([]string{"Leaf primitives (min/avg/max)", fmt.Sprintf("%d / %3.1f / %d", s.MinLeafPrims, s.AvgLeafPrims, s.MaxLeafPrims)})
	table.SetFooter([]string{"Build time", s.BuildTime.String()})
	table.Render()
	return buf.String()
}

// Format a byte count using the appropriate byte/kb/mb unit.
func fmtBytes(totalBytes int) string {
	if totalBytes < 1e3 {
		return fmt.Sprintf("%d bytes", totalBytes)
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%3.1f kb", float32(totalBytes)/1e3)
	}
	return fmt.Sprintf("%3.1f mb", float32(totalBytes)/1e6)
}
