package schedule

import (
	"fmt"
	"time"

	"github.com/chronos-cli/chronos/pkg/store"
)

// InsertBuffers walks the resolved top-level sequence and fills gaps
// between blocks with buffer nodes per the configured policy: a buffer of
// the default duration (or the preceding block's category pad) is placed
// into any gap at least that wide; narrower gaps stay open. Buffer nodes
// never participate in later conflict detection.
func InsertBuffers(comp *Compilation, buffers store.Buffers) {
	if buffers.Duration <= 0 {
		return
	}

	var out []*Node
	count := 0
	for i, n := range comp.Nodes {
		out = append(out, n)
		if n.IsParallel || n.IsBuffer {
			continue
		}
		next := nextSequential(comp.Nodes, i+1)
		if next == nil {
			continue
		}

		gap := int(next.StartTime.Sub(n.EndTime).Minutes())
		pad := buffers.Duration
		if p, ok := buffers.CategoryPads[n.Original.Category]; ok && p > 0 {
			pad = p
		}
		if buffers.MinGap > 0 && gap >= buffers.MinGap {
			// Wide-enough gaps are intentional free space; leave them.
			continue
		}
		if gap < pad {
			continue
		}

		count++
		buf := &Node{
			Name:      fmt.Sprintf("[Buffer %d]", count),
			Type:      "buffer",
			IsBuffer:  true,
			Status:    StatusPending,
			Duration:  pad,
			Explicit:  pad,
			StartTime: n.EndTime,
			EndTime:   n.EndTime.Add(time.Duration(pad) * time.Minute),
		}
		out = append(out, buf)
	}
	comp.Nodes = out
}

func nextSequential(nodes []*Node, from int) *Node {
	for _, n := range nodes[from:] {
		if !n.IsParallel && !n.IsBuffer {
			return n
		}
	}
	return nil
}
