// Package commitment evaluates commitment and milestone rules against
// item completion history, firing their triggers at most once per
// period.
package commitment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chronos-cli/chronos/pkg/store"
)

// Dispatcher submits a CLI/shell invocation on behalf of a trigger.
type Dispatcher interface {
	Dispatch(argv []string) error
}

const dayFormat = "2006-01-02"

// Bucket returns the canonical period key a date falls into: the day
// itself, the ISO week, or the month. Any other period means all time.
func Bucket(date time.Time, period string) string {
	switch period {
	case "day":
		return date.Format(dayFormat)
	case "week":
		year, week := date.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case "month":
		return date.Format("2006-01")
	default:
		return "all"
	}
}

func sameBucket(dateStr, period string, today time.Time) bool {
	d, err := time.ParseInLocation(dayFormat, dateStr, today.Location())
	if err != nil {
		return false
	}
	return Bucket(d, period) == Bucket(today, period)
}

// EvaluateCommitments scans every commitment record and fires met or
// violated triggers. Guard fields advance even when an action fails, so
// a broken script cannot cause a re-fire storm. The returned error
// aggregates action failures; the scan itself always runs to the end.
func EvaluateCommitments(st *store.Store, d Dispatcher, today time.Time) error {
	commitments, err := st.List(store.TypeCommitment)
	if err != nil {
		return err
	}

	var failures []error
	for _, c := range commitments {
		if c.Frequency != nil {
			met := countCompletions(st, c.AssociatedItems, c.Frequency.Period, today)
			fired := c.LastMet != "" && sameBucket(c.LastMet, c.Frequency.Period, today)
			if met >= c.Frequency.Times && !fired {
				if c.Triggers != nil {
					failures = append(failures, runActions(st, d, c.Triggers.OnMet)...)
				}
				c.LastMet = today.Format(dayFormat)
				if err := st.Update(c); err != nil {
					failures = append(failures, err)
				}
			}
		}

		if len(c.ForbiddenItems) > 0 {
			violated := anyCompletedToday(st, c.ForbiddenItems, today)
			fired := c.LastViolation == today.Format(dayFormat)
			if violated && !fired {
				if c.Triggers != nil {
					failures = append(failures, runActions(st, d, c.Triggers.OnViolation)...)
				}
				c.LastViolation = today.Format(dayFormat)
				if err := st.Update(c); err != nil {
					failures = append(failures, err)
				}
			}
		}
	}
	return errors.Join(failures...)
}

// countCompletions totals completion dates of the referenced items that
// fall inside today's period bucket.
func countCompletions(st *store.Store, refs []store.ItemRef, period string, today time.Time) int {
	count := 0
	for _, ref := range refs {
		it, err := st.Read(ref.Type, ref.Name)
		if err != nil || it == nil {
			continue
		}
		for _, date := range it.CompletionDates {
			if sameBucket(date, period, today) {
				count++
			}
		}
	}
	return count
}

func anyCompletedToday(st *store.Store, refs []store.ItemRef, today time.Time) bool {
	day := today.Format(dayFormat)
	for _, ref := range refs {
		it, err := st.Read(ref.Type, ref.Name)
		if err != nil || it == nil {
			continue
		}
		for _, date := range it.CompletionDates {
			if date == day {
				return true
			}
		}
	}
	return false
}

// runActions executes trigger actions, collecting failures instead of
// stopping: one bad action must not block the rest.
func runActions(st *store.Store, d Dispatcher, actions []store.Action) []error {
	var failures []error
	for _, a := range actions {
		var err error
		switch a.Type {
		case "script":
			if d == nil {
				err = fmt.Errorf("no dispatcher for script %q", a.Command)
			} else {
				err = d.Dispatch(strings.Fields(a.Command))
			}
		case "achievement", "reward":
			_, err = st.Create(a.Type, a.Name)
		default:
			err = fmt.Errorf("unknown action type %q", a.Type)
		}
		if err != nil {
			failures = append(failures, fmt.Errorf("action %s %q: %w", a.Type, a.Name, err))
		}
	}
	return failures
}
