// Package schedule implements the day-schedule compiler: template
// selection, recursive expansion, importance scoring, capacity analysis,
// conflict resolution, buffer insertion, and the manual-modification
// overlay.
package schedule

import (
	"time"

	"github.com/chronos-cli/chronos/pkg/store"
)

// Node is one compiled schedule block. Leaves carry real durations;
// parents span their children.
type Node struct {
	Name       string
	Type       string
	StartTime  time.Time
	EndTime    time.Time
	Duration   int // minutes, the working value after resolution
	Explicit   int // minutes declared on the item/template entry
	IsParallel bool
	IsBuffer   bool
	Depth      int
	OrderIndex int
	Importance float64
	Status     string

	// Anchor is the explicit "HH:MM" start the node was declared with (or
	// re-anchored to by the overlay). Anchored starts are immutable during
	// conflict resolution.
	Anchor string

	Parent   *Node
	Children []*Node

	// Item is a shared handle to the original record for metadata reads;
	// Original is a value-copy that travels with the schedule file.
	Item     *store.Item
	Original store.Item
}

// StatusPending is the status every freshly compiled node starts in.
const StatusPending = "pending"

// Fixed reports whether the node's start time is explicitly anchored.
func (n *Node) Fixed() bool {
	return n.Anchor != ""
}

// Leaf reports whether the node has no children.
func (n *Node) Leaf() bool {
	return len(n.Children) == 0
}

// Span returns the node's sequential extent in minutes. Parallel nodes
// contribute zero to their parent's sequence.
func (n *Node) Span() int {
	if n.IsParallel {
		return 0
	}
	return n.Duration
}

// UpdateParentTimes re-derives times from children and propagates the
// change to the root: start becomes the earliest child start, end the
// latest child end, and duration at least the resulting span.
func (n *Node) UpdateParentTimes() {
	if n.Leaf() {
		if !n.StartTime.IsZero() {
			n.EndTime = n.StartTime.Add(time.Duration(n.Duration) * time.Minute)
		}
	} else {
		deriveFromChildren(n)
	}
	if n.Parent != nil {
		n.Parent.UpdateParentTimes()
	}
}

// Walk visits the node and every descendant depth-first in declared order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Compilation is the result of one compiler run over a day template.
type Compilation struct {
	Date      time.Time
	Weekday   string
	Template  string
	Variant   string
	Nodes     []*Node
	Conflicts []Conflict
	Capacity  CapacityReport
}

// Conflict is one entry in the compile's conflict log. Kinds cover missing
// inputs, capacity overruns, overlaps, and the resolver's mutations.
type Conflict struct {
	Kind   string `yaml:"kind"`
	Name   string `yaml:"name,omitempty"`
	Detail string `yaml:"detail,omitempty"`
}

// Conflict log kinds.
const (
	ConflictMissingItem = "missing_item"
	ConflictRecursive   = "recursive_item"
	ConflictCapacity    = "capacity"
	ConflictOverlap     = "overlap"
	ConflictTrimmed     = "trimmed"
	ConflictCut         = "cut"
	ConflictUnresolved  = "unresolved"
	ConflictOverlay     = "overlay"
)

// Walk visits every node of the compilation depth-first.
func (c *Compilation) Walk(fn func(*Node)) {
	for _, n := range c.Nodes {
		n.Walk(fn)
	}
}

// Find returns the first node whose name matches, case-insensitively, in
// declared order at any depth.
func (c *Compilation) Find(name string) *Node {
	var found *Node
	c.Walk(func(n *Node) {
		if found == nil && equalFold(n.Name, name) {
			found = n
		}
	})
	return found
}

// Note appends an entry to the conflict log.
func (c *Compilation) Note(kind, name, detail string) {
	c.Conflicts = append(c.Conflicts, Conflict{Kind: kind, Name: name, Detail: detail})
}
