package ledger

import (
	"fmt"
	"time"

	"github.com/chronos-cli/chronos/pkg/store"
	"github.com/chronos-cli/chronos/pkg/timeparse"
)

const dayFormat = "2006-01-02"

// Complete records a completion: a ledger entry for today's block, and
// for repeating items the streak bookkeeping on the item record.
// Completing an already-complete item again on the same day keeps the
// streak where it is.
func Complete(st *store.Store, typ, name string, now time.Time) error {
	it, err := st.Read(typ, name)
	if err != nil {
		return err
	}
	if it == nil {
		return fmt.Errorf("no %s named %q", typ, name)
	}

	start, end := scheduledTimes(st.Root, it.Name, now)
	rec := Record{
		Name:      it.Name,
		Status:    StatusCompleted,
		ActualEnd: timeparse.FormatClock(now),
		LoggedAt:  now.Format(time.RFC3339),
	}
	if !start.IsZero() {
		rec.ScheduledStart = timeparse.FormatClock(start)
		rec.ScheduledEnd = timeparse.FormatClock(end)
	}
	if err := Log(st.Root, now, BlockKey(it.Name, start), rec); err != nil {
		return err
	}

	today := now.Format(dayFormat)
	if it.Repeating() {
		yesterday := now.AddDate(0, 0, -1).Format(dayFormat)
		switch it.LastCompleted {
		case today:
			// already counted today
		case yesterday:
			it.CurrentStreak++
		default:
			it.CurrentStreak = 1
		}
		if it.CurrentStreak > it.LongestStreak {
			it.LongestStreak = it.CurrentStreak
		}
		it.CompletionDates = appendDate(it.CompletionDates, today)
		it.Totals.Completed++
	} else {
		it.Status = StatusCompleted
	}
	it.LastCompleted = today

	return st.Update(it)
}

// Miss records a missed block. The current streak resets but the
// longest streak survives. Appointments count as no-shows, everything
// else as plain misses.
func Miss(st *store.Store, typ, name string, now time.Time) error {
	it, err := st.Read(typ, name)
	if err != nil {
		return err
	}
	if it == nil {
		return fmt.Errorf("no %s named %q", typ, name)
	}

	status := StatusSkipped
	if it.Type == store.TypeAppointment {
		status = StatusNoShow
		it.Totals.NoShows++
	} else {
		it.Totals.Missed++
	}

	start, end := scheduledTimes(st.Root, it.Name, now)
	rec := Record{
		Name:     it.Name,
		Status:   status,
		LoggedAt: now.Format(time.RFC3339),
	}
	if !start.IsZero() {
		rec.ScheduledStart = timeparse.FormatClock(start)
		rec.ScheduledEnd = timeparse.FormatClock(end)
	}
	if err := Log(st.Root, now, BlockKey(it.Name, start), rec); err != nil {
		return err
	}

	it.MissedDates = appendDate(it.MissedDates, now.Format(dayFormat))
	it.CurrentStreak = 0
	return st.Update(it)
}

func appendDate(dates []string, date string) []string {
	for _, d := range dates {
		if d == date {
			return dates
		}
	}
	return append(dates, date)
}
