package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/chronos-cli/chronos/pkg/store"
	"github.com/chronos-cli/chronos/pkg/timeparse"
)

// Expand recursively inlines the selected template's child items into a
// compiled node tree and assigns concrete times. Missing items and
// circular references become conflict-log entries, never errors.
func Expand(st *store.Store, sel *Selection, ctx store.StatusContext, date time.Time, weights store.SchedulingWeights) *Compilation {
	comp := &Compilation{
		Date:     date,
		Weekday:  date.Weekday().String(),
		Template: sel.Template.Name,
		Variant:  sel.Variant,
	}

	e := &expander{
		st:      st,
		ctx:     ctx,
		comp:    comp,
		visited: map[string]bool{},
	}
	comp.Nodes = e.expandEntries(sel.Items, nil, 0)

	dayStart := windowStart(date, weights)
	Reflow(comp, dayStart)
	return comp
}

type expander struct {
	st      *store.Store
	ctx     store.StatusContext
	comp    *Compilation
	visited map[string]bool // (type,name) keys on the current path
}

func (e *expander) expandEntries(entries []store.ChildSpec, parent *Node, depth int) []*Node {
	var nodes []*Node
	for i, entry := range entries {
		n := e.expandEntry(entry, parent, depth)
		if n == nil {
			continue
		}
		n.OrderIndex = i
		nodes = append(nodes, n)
	}
	return nodes
}

func (e *expander) expandEntry(entry store.ChildSpec, parent *Node, depth int) *Node {
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		return nil
	}
	typ := strings.ToLower(entry.Type)
	if typ == "" {
		typ = store.TypeTask
	}

	it, err := e.st.Read(typ, name)
	if err != nil {
		e.comp.Note(ConflictMissingItem, name, err.Error())
		return nil
	}
	if it == nil {
		if !entry.Inline() {
			e.comp.Note(ConflictMissingItem, name, fmt.Sprintf("no %s record", typ))
			return nil
		}
		// Inline template entry with no backing record.
		it = &store.Item{Name: name, Type: typ}
	}

	key := typ + "/" + store.Slug(name)
	if e.visited[key] {
		e.comp.Note(ConflictRecursive, name, "circular reference cut")
		return &Node{
			Name:     "[Recursive: " + name + "]",
			Type:     typ,
			Status:   StatusPending,
			Depth:    depth,
			Parent:   parent,
			Original: *it,
			Item:     it,
		}
	}

	// Template entry fields override the stored record's.
	duration := it.Duration
	if entry.Duration != nil {
		duration = entry.Duration
	}
	anchor := it.StartTime
	if entry.StartTime != "" {
		anchor = entry.StartTime
	}
	priority := it.Priority
	if entry.Priority != "" {
		priority = entry.Priority
	}
	category := it.Category
	if entry.Category != "" {
		category = entry.Category
	}

	n := &Node{
		Name:       it.Name,
		Type:       typ,
		Status:     StatusPending,
		Depth:      depth,
		Parent:     parent,
		Anchor:     anchor,
		IsParallel: timeparse.IsParallel(duration),
		Explicit:   timeparse.Minutes(duration),
		Item:       it,
		Original:   *it,
	}
	n.Original.Priority = priority
	n.Original.Category = category
	n.Duration = n.Explicit

	children := entry.Items
	if len(children) == 0 {
		children = pickVariant(it, e.ctx)
	}
	if len(children) > 0 {
		e.visited[key] = true
		n.Children = e.expandEntries(children, n, depth+1)
		delete(e.visited, key)
	}

	return n
}

// Reflow assigns absolute times to every node from its durations and
// anchors, then derives parent spans. It is re-run after every structural
// mutation (resolver trims/cuts and overlay edits) and is deterministic
// for a given tree.
func Reflow(comp *Compilation, dayStart time.Time) {
	assignTimes(comp.Nodes, dayStart, comp.Date)
}

// provisionalSpan computes a node's sequential extent from durations
// alone, before absolute times exist. Parents take the larger of their
// explicit duration and the sum of child spans.
func provisionalSpan(n *Node) int {
	if n.Leaf() {
		n.Duration = n.Explicit
		return n.Span()
	}
	sum := 0
	for _, c := range n.Children {
		sum += provisionalSpan(c)
	}
	n.Duration = n.Explicit
	if sum > n.Duration {
		n.Duration = sum
	}
	return n.Span()
}

// assignTimes lays out a sibling list starting at start. A run of
// unanchored siblings before the first anchored one is back-anchored so it
// ends exactly at the anchor.
func assignTimes(siblings []*Node, start time.Time, date time.Time) {
	for _, n := range siblings {
		provisionalSpan(n)
	}

	cursor := start
	anchorIdx := -1
	var anchorAt time.Time
	for i, n := range siblings {
		if t, ok := anchorTime(n, date); ok {
			anchorIdx, anchorAt = i, t
			break
		}
	}
	if anchorIdx > 0 {
		lead := 0
		for _, n := range siblings[:anchorIdx] {
			lead += n.Span()
		}
		cursor = anchorAt.Add(-time.Duration(lead) * time.Minute)
	}

	for _, n := range siblings {
		if t, ok := anchorTime(n, date); ok {
			n.StartTime = t
			cursor = t
		} else {
			n.StartTime = cursor
		}

		if n.Leaf() {
			n.EndTime = n.StartTime.Add(time.Duration(n.Duration) * time.Minute)
		} else {
			assignTimes(n.Children, n.StartTime, date)
			deriveFromChildren(n)
		}

		if !n.IsParallel {
			cursor = n.EndTime
		}
	}
}

// deriveFromChildren applies the span invariants to one parent: start is
// the earliest child start, end the latest child end, duration at least
// the span.
func deriveFromChildren(n *Node) {
	var start, end time.Time
	for _, c := range n.Children {
		if c.StartTime.IsZero() {
			continue
		}
		if start.IsZero() || c.StartTime.Before(start) {
			start = c.StartTime
		}
		if end.IsZero() || c.EndTime.After(end) {
			end = c.EndTime
		}
	}
	if start.IsZero() {
		n.EndTime = n.StartTime.Add(time.Duration(n.Duration) * time.Minute)
		return
	}
	n.StartTime = start
	n.EndTime = end
	if span := int(end.Sub(start).Minutes()); span > n.Duration {
		n.Duration = span
	}
}

func anchorTime(n *Node, date time.Time) (time.Time, bool) {
	if n.Anchor == "" {
		return time.Time{}, false
	}
	return timeparse.ClockOn(date, n.Anchor)
}

func windowStart(date time.Time, w store.SchedulingWeights) time.Time {
	if t, ok := timeparse.ClockOn(date, w.WindowStart); ok {
		return t
	}
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

func windowEnd(date time.Time, w store.SchedulingWeights) time.Time {
	if t, ok := timeparse.ClockOn(date, w.WindowEnd); ok {
		return t
	}
	return time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 0, 0, date.Location())
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
