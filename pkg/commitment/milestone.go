package commitment

import (
	"errors"
	"time"

	"github.com/chronos-cli/chronos/pkg/store"
)

// Milestone statuses, ordered. Status only ever moves forward; a reset
// requires editing the record by hand.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

func statusRank(s string) int {
	switch s {
	case StatusCompleted:
		return 2
	case StatusInProgress:
		return 1
	default:
		return 0
	}
}

// EvaluateMilestones recomputes progress for every milestone record and
// fires on_complete once when a milestone first reaches completed.
func EvaluateMilestones(st *store.Store, d Dispatcher, today time.Time) error {
	milestones, err := st.List(store.TypeMilestone)
	if err != nil {
		return err
	}

	var failures []error
	for _, m := range milestones {
		if m.Criteria == nil {
			continue
		}
		current, target := measure(st, m.Criteria, today)
		if target <= 0 {
			continue
		}

		percent := float64(current) / float64(target) * 100
		if percent > 100 {
			percent = 100
		}
		m.Progress = &store.Progress{Current: current, Target: target, Percent: percent}

		next := StatusPending
		switch {
		case current >= target:
			next = StatusCompleted
		case current > 0:
			next = StatusInProgress
		}
		if statusRank(next) > statusRank(m.Status) {
			if next == StatusCompleted {
				failures = append(failures, runActions(st, d, m.OnComplete)...)
			}
			m.Status = next
		}

		if err := st.Update(m); err != nil {
			failures = append(failures, err)
		}
	}
	return errors.Join(failures...)
}

// measure evaluates a milestone criterion to (current, target).
func measure(st *store.Store, crit *store.Criteria, today time.Time) (int, int) {
	if c := crit.Count; c != nil {
		return countCompletions(st, c.Of, c.Period, today), c.Times
	}
	if c := crit.Checklist; c != nil {
		done := 0
		for _, ref := range c.Items {
			it, err := st.Read(ref.Type, ref.Name)
			if err != nil || it == nil {
				continue
			}
			if it.Status == StatusCompleted || len(it.CompletionDates) > 0 {
				done++
			}
		}
		target := c.Require
		if target == 0 {
			target = len(c.Items)
		}
		return done, target
	}
	return 0, 0
}
