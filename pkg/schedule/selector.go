package schedule

import (
	"errors"
	"fmt"
	"sort"

	"github.com/chronos-cli/chronos/pkg/store"
)

// ErrTemplateMissing is returned when no base day template exists for the
// requested weekday. This is the one fatal input the compiler has.
var ErrTemplateMissing = errors.New("day template missing")

// Selection is the outcome of template selection: the day template, the
// child set to expand (base items or a variant's), and how it scored.
type Selection struct {
	Template *store.Item
	Items    []store.ChildSpec
	Variant  string
	Path     string
	Score    int
}

// SelectTemplate picks the day template for a weekday, preferring the
// status-aware variant with the most indicator matches. The base template
// scores 0; ties go to fewer requirements, then lexicographic name.
func SelectTemplate(st *store.Store, weekday string, ctx store.StatusContext) (*Selection, error) {
	tmpl, err := st.Read(store.TypeDay, weekday)
	if err != nil {
		return nil, fmt.Errorf("reading day template %s: %w", weekday, err)
	}
	if tmpl == nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateMissing, weekday)
	}

	sel := &Selection{
		Template: tmpl,
		Items:    tmpl.Items,
		Path:     tmpl.Path,
		Score:    0,
	}

	best := variantChoice{score: 0, reqs: len(tmpl.StatusRequirements)}
	candidates := make([]variantChoice, 0, len(tmpl.Variants))
	for _, v := range tmpl.Variants {
		candidates = append(candidates, variantChoice{
			name:  v.Name,
			items: v.Items,
			score: ctx.Matches(v.StatusRequirements),
			reqs:  len(v.StatusRequirements),
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.reqs != b.reqs {
			return a.reqs < b.reqs
		}
		return a.name < b.name
	})

	// A variant wins only by strictly outscoring the base; the base wins
	// ties at zero (the more specific match is preferred, never guessed).
	if len(candidates) > 0 && candidates[0].score > best.score {
		sel.Variant = candidates[0].name
		sel.Items = candidates[0].items
		sel.Score = candidates[0].score
	}

	return sel, nil
}

type variantChoice struct {
	name  string
	items []store.ChildSpec
	score int
	reqs  int
}

// pickVariant resolves an item's own variants during expansion: the
// highest-scoring variant whose requirements are fully satisfied by the
// status context wins; otherwise the item's own child list stands.
func pickVariant(it *store.Item, ctx store.StatusContext) []store.ChildSpec {
	best := -1
	items := it.Items
	bestReqs := 0
	bestName := ""
	for _, v := range it.Variants {
		if !ctx.Satisfies(v.StatusRequirements) {
			continue
		}
		score := ctx.Matches(v.StatusRequirements)
		better := score > best ||
			(score == best && len(v.StatusRequirements) < bestReqs) ||
			(score == best && len(v.StatusRequirements) == bestReqs && v.Name < bestName)
		if better {
			best = score
			bestReqs = len(v.StatusRequirements)
			bestName = v.Name
			items = v.Items
		}
	}
	return items
}
