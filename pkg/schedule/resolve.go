package schedule

import (
	"fmt"
	"sort"

	"github.com/chronos-cli/chronos/pkg/store"
	"github.com/chronos-cli/chronos/pkg/timeparse"
)

// Resolve runs the iterative conflict-resolution loop: detect overlaps and
// capacity deficit, rank conflicting nodes by importance, trim or cut the
// lowest-ranked one, reflow, repeat. Buffers are never touched, anchored
// starts never move, and parallel nodes cannot conflict with siblings.
// Anything still conflicting at the iteration bound lands in the conflict
// log as unresolved.
func Resolve(comp *Compilation, weights store.SchedulingWeights) {
	floor := weights.MinDuration
	dayStart := windowStart(comp.Date, weights)

	for iter := 0; iter < weights.MaxIterations; iter++ {
		candidates := conflictCandidates(comp, weights)
		if len(candidates) == 0 {
			return
		}

		sort.SliceStable(candidates, func(i, j int) bool {
			a, b := candidates[i], candidates[j]
			if a.Importance != b.Importance {
				return a.Importance < b.Importance
			}
			return a.Depth > b.Depth // prefer pruning deeper leaves
		})

		victim := victimLeaf(candidates[0])
		if victim == nil {
			return
		}

		if victim.Duration > floor {
			trimmed := victim.Duration - weights.TrimStep
			if trimmed < floor {
				trimmed = floor
			}
			comp.Note(ConflictTrimmed, victim.Name, fmt.Sprintf(
				"trimmed %s to %s", timeparse.FormatMinutes(victim.Duration-trimmed),
				timeparse.FormatMinutes(trimmed)))
			victim.Duration = trimmed
			victim.Explicit = trimmed
		} else {
			comp.Note(ConflictCut, victim.Name, "cut at minimum duration")
			cutNode(comp, victim)
		}
		Reflow(comp, dayStart)
	}

	// Iteration bound hit; log whatever still overlaps.
	for _, pair := range overlaps(comp) {
		comp.Note(ConflictUnresolved, pair.next.Name, fmt.Sprintf(
			"still overlaps %s after resolution", pair.prev.Name))
	}
}

type overlapPair struct {
	prev, next *Node
}

// overlaps scans every sibling list for consecutive non-parallel blocks
// whose times cross.
func overlaps(comp *Compilation) []overlapPair {
	var pairs []overlapPair
	var scan func(siblings []*Node)
	scan = func(siblings []*Node) {
		var prev *Node
		for _, n := range siblings {
			if n.IsParallel || n.IsBuffer {
				continue
			}
			if prev != nil && n.StartTime.Before(prev.EndTime) {
				pairs = append(pairs, overlapPair{prev: prev, next: n})
			}
			prev = n
			scan(n.Children)
		}
	}
	scan(comp.Nodes)
	return pairs
}

// conflictCandidates collects the nodes eligible for mutation this pass:
// members of overlapping pairs, plus every leaf when the day is over
// capacity. Buffers and parallel nodes are exempt.
func conflictCandidates(comp *Compilation, weights store.SchedulingWeights) []*Node {
	seen := map[*Node]bool{}
	var out []*Node
	add := func(n *Node) {
		if n == nil || seen[n] || n.IsBuffer || n.IsParallel {
			return
		}
		seen[n] = true
		out = append(out, n)
	}

	for _, pair := range overlaps(comp) {
		add(pair.prev)
		add(pair.next)
	}

	capacity := int(windowEnd(comp.Date, weights).Sub(windowStart(comp.Date, weights)).Minutes())
	if demandMinutes(comp) > capacity {
		comp.Walk(func(n *Node) {
			if n.Leaf() {
				add(n)
			}
		})
	}
	return out
}

// victimLeaf descends from a conflicting node to the actual block to
// mutate: a parent's lowest-importance non-exempt leaf.
func victimLeaf(n *Node) *Node {
	if n.Leaf() {
		return n
	}
	var best *Node
	n.Walk(func(d *Node) {
		if !d.Leaf() || d.IsBuffer || d.IsParallel {
			return
		}
		if best == nil || d.Importance < best.Importance {
			best = d
		}
	})
	return best
}

// cutNode removes a node from its parent's children (or the top level)
// and drops emptied ancestors.
func cutNode(comp *Compilation, victim *Node) {
	if victim.Parent == nil {
		comp.Nodes = removeNode(comp.Nodes, victim)
		return
	}
	parent := victim.Parent
	parent.Children = removeNode(parent.Children, victim)
	if len(parent.Children) == 0 && parent.Explicit == 0 {
		cutNode(comp, parent)
	}
}

func removeNode(list []*Node, victim *Node) []*Node {
	out := list[:0]
	for _, n := range list {
		if n != victim {
			out = append(out, n)
		}
	}
	return out
}
