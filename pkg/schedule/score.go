package schedule

import "github.com/chronos-cli/chronos/pkg/store"

// Score attaches an importance weight to every node in place:
//
//	importance = w_priority*P + w_category*C + w_status*S
//
// P and C come from the priority/category settings, S is the count of
// satisfied status requirements. Undefined fields contribute 0. Scores are
// not recomputed later; the resolver ranks against these values.
func Score(comp *Compilation, settings *store.Settings, ctx store.StatusContext) {
	w := settings.Weights
	comp.Walk(func(n *Node) {
		if n.IsBuffer {
			return
		}
		p := settings.PriorityValue(n.Original.Priority)
		c := settings.CategoryValue(n.Original.Category)
		s := float64(ctx.Matches(n.Original.StatusRequirements))
		n.Importance = w.Priority*p + w.Category*c + w.Status*s
	})
}
