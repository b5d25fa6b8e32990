// Package ledger records completion and adherence against compiled
// schedule blocks, and maintains per-item streak counters.
package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chronos-cli/chronos/pkg/schedule"
	"github.com/chronos-cli/chronos/pkg/store"
	"github.com/chronos-cli/chronos/pkg/timeparse"
	"gopkg.in/yaml.v3"
)

// Ledger entry statuses.
const (
	StatusCompleted = "completed"
	StatusSkipped   = "skipped"
	StatusPartial   = "partial"
	StatusNoShow    = "no_show"
)

// Record is one ledger entry, keyed by block key within a day's file.
type Record struct {
	Name           string `yaml:"name"`
	Status         string `yaml:"status"`
	ScheduledStart string `yaml:"scheduled_start,omitempty"`
	ScheduledEnd   string `yaml:"scheduled_end,omitempty"`
	ActualStart    string `yaml:"actual_start,omitempty"`
	ActualEnd      string `yaml:"actual_end,omitempty"`
	Quality        string `yaml:"quality,omitempty"`
	Note           string `yaml:"note,omitempty"`
	LoggedAt       string `yaml:"logged_at"`
}

type dayFile struct {
	Entries map[string]Record `yaml:"entries"`
}

// Path returns the per-day ledger file.
func Path(root string, date time.Time) string {
	return filepath.Join(root, "Schedules", "completions", date.Format("2006-01-02")+".yml")
}

// BlockKey builds the ledger key for a block: "<name>@HH:MM", or
// "<name>@unscheduled" when the block never made it onto the schedule.
func BlockKey(name string, scheduledStart time.Time) string {
	if scheduledStart.IsZero() {
		return name + "@unscheduled"
	}
	return name + "@" + timeparse.FormatClock(scheduledStart)
}

// Load reads a day's ledger. Missing files are empty; a corrupt file is
// backed up alongside and then treated as empty, so one bad write never
// wedges completion tracking.
func Load(root string, date time.Time) (map[string]Record, error) {
	path := Path(root, date)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}

	var day dayFile
	if err := yaml.Unmarshal(data, &day); err != nil {
		// Preserve the corrupt file for inspection, then start clean.
		_ = os.WriteFile(path+".corrupt", data, 0644)
		return map[string]Record{}, nil
	}
	if day.Entries == nil {
		day.Entries = map[string]Record{}
	}
	return day.Entries, nil
}

// Log merges one record into a day's ledger file.
func Log(root string, date time.Time, key string, rec Record) error {
	entries, err := Load(root, date)
	if err != nil {
		return err
	}
	entries[key] = rec

	data, err := yaml.Marshal(dayFile{Entries: entries})
	if err != nil {
		return fmt.Errorf("serializing ledger: %w", err)
	}
	return store.WriteAtomic(Path(root, date), data)
}

// scheduledTimes looks up the compiled block for a name on the given day.
func scheduledTimes(root, name string, date time.Time) (start, end time.Time) {
	comp, err := schedule.ReadFile(root, date)
	if err != nil || comp == nil {
		return time.Time{}, time.Time{}
	}
	if n := comp.Find(name); n != nil {
		return n.StartTime, n.EndTime
	}
	return time.Time{}, time.Time{}
}

// MarkOptions carries the optional fields of a manual mark.
type MarkOptions struct {
	Quality string
	Note    string
}

// Mark writes a ledger entry for a block without touching the item
// record. Used for skipped/partial statuses.
func Mark(root, name, status string, date time.Time, opts MarkOptions) error {
	start, end := scheduledTimes(root, name, date)
	rec := Record{
		Name:     name,
		Status:   status,
		Quality:  opts.Quality,
		Note:     opts.Note,
		LoggedAt: date.Format(time.RFC3339),
	}
	if !start.IsZero() {
		rec.ScheduledStart = timeparse.FormatClock(start)
		rec.ScheduledEnd = timeparse.FormatClock(end)
	}
	return Log(root, date, BlockKey(name, start), rec)
}
