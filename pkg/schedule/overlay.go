package schedule

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/chronos-cli/chronos/pkg/store"
	"github.com/chronos-cli/chronos/pkg/timeparse"
	"gopkg.in/yaml.v3"
)

// Overlay actions.
const (
	ActionTrim   = "trim"
	ActionCut    = "cut"
	ActionChange = "change"
)

// OverlayEntry is one recorded manual edit. The log is append-only and
// replayed in seq order after every recompile, so user edits persist
// across reschedules.
type OverlayEntry struct {
	Seq          int    `yaml:"seq"`
	Action       string `yaml:"action"`
	ItemName     string `yaml:"item_name"`
	Amount       int    `yaml:"amount,omitempty"`         // minutes, for trim
	NewStartTime string `yaml:"new_start_time,omitempty"` // HH:MM, for change
}

// OverlayPath returns the manual-modifications file under the store root.
func OverlayPath(root string) string {
	return filepath.Join(root, "manual_modifications.yml")
}

// LoadOverlay reads the manual-modifications log. A missing file is an
// empty log. Entries are returned in seq order; entries hand-added without
// a seq keep file order at the end.
func LoadOverlay(root string) ([]OverlayEntry, error) {
	data, err := os.ReadFile(OverlayPath(root))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading overlay: %w", err)
	}

	var entries []OverlayEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing overlay: %w", err)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Seq < entries[j].Seq
	})
	return entries, nil
}

// AppendOverlay adds one entry to the log, assigning the next seq.
func AppendOverlay(root string, entry OverlayEntry) error {
	entries, err := LoadOverlay(root)
	if err != nil {
		return err
	}
	maxSeq := 0
	for _, e := range entries {
		if e.Seq > maxSeq {
			maxSeq = e.Seq
		}
	}
	entry.Seq = maxSeq + 1
	entries = append(entries, entry)

	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("serializing overlay: %w", err)
	}
	return store.WriteAtomic(OverlayPath(root), data)
}

// ApplyOverlay replays the manual edits onto a freshly compiled tree in
// recorded order, once per compile. Unknown names and rejected edits
// become overlay warnings in the conflict log; the log itself is never
// rewritten.
func ApplyOverlay(comp *Compilation, entries []OverlayEntry, weights store.SchedulingWeights) {
	dayStart := windowStart(comp.Date, weights)
	for _, e := range entries {
		n := comp.Find(e.ItemName)
		if n == nil {
			comp.Note(ConflictOverlay, e.ItemName, fmt.Sprintf(
				"%s: no such block in today's schedule", e.Action))
			continue
		}

		switch e.Action {
		case ActionTrim:
			newDur := n.Duration - e.Amount
			if newDur < weights.MinDuration {
				comp.Note(ConflictOverlay, e.ItemName, fmt.Sprintf(
					"trim %dm rejected: below %dm floor", e.Amount, weights.MinDuration))
				continue
			}
			n.Duration = newDur
			n.Explicit = newDur
			n.UpdateParentTimes()
		case ActionCut:
			cutNode(comp, n)
		case ActionChange:
			if _, ok := timeparse.ClockOn(comp.Date, e.NewStartTime); !ok {
				comp.Note(ConflictOverlay, e.ItemName, fmt.Sprintf(
					"change rejected: bad time %q", e.NewStartTime))
				continue
			}
			n.Anchor = e.NewStartTime
			n.StartTime, _ = timeparse.ClockOn(comp.Date, e.NewStartTime)
			n.EndTime = n.StartTime.Add(time.Duration(n.Duration) * time.Minute)
			n.UpdateParentTimes()
		default:
			comp.Note(ConflictOverlay, e.ItemName, "unknown overlay action "+e.Action)
			continue
		}
		Reflow(comp, dayStart)
	}
}
