package schedule

import (
	"fmt"
	"time"

	"github.com/chronos-cli/chronos/pkg/store"
)

// Compile runs the whole pipeline for one date: status context, template
// selection, expansion, scoring, capacity analysis, conflict resolution,
// buffer insertion, and the manual overlay. It is synchronous and
// idempotent: the same inputs always produce the same compilation.
//
// The only fatal error is a missing or unreadable base template; every
// other problem becomes a conflict-log entry.
func Compile(st *store.Store, settings *store.Settings, date time.Time) (*Compilation, error) {
	ctx, err := st.LoadStatus(settings)
	if err != nil {
		return nil, fmt.Errorf("loading status: %w", err)
	}

	sel, err := SelectTemplate(st, date.Weekday().String(), ctx)
	if err != nil {
		return nil, err
	}

	comp := Expand(st, sel, ctx, date, settings.Weights)
	Score(comp, settings, ctx)
	AnalyzeCapacity(comp, settings.Weights)
	Resolve(comp, settings.Weights)
	InsertBuffers(comp, settings.Buffers)

	overlay, err := LoadOverlay(st.Root)
	if err != nil {
		comp.Note(ConflictOverlay, "", err.Error())
	} else {
		ApplyOverlay(comp, overlay, settings.Weights)
	}

	return comp, nil
}
