// Package listener runs the background loop that fires alarms and
// reminders: a 1 Hz tick over the armed alarm/reminder records, with
// fsnotify-driven cache invalidation.
package listener

import (
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/chronos-cli/chronos/pkg/store"
	"github.com/chronos-cli/chronos/pkg/timeparse"
)

// Dispatcher submits a synthesized CLI invocation for a fired trigger.
type Dispatcher interface {
	Dispatch(argv []string) error
}

// Alarm lifecycle statuses. An item with none of these is armed.
const (
	StatusRinging   = "ringing"
	StatusSnoozed   = "snoozed"
	StatusDismissed = "dismissed"
)

// Listener polls the clock against alarm and reminder records.
type Listener struct {
	Store    *store.Store
	Dispatch Dispatcher
	Log      *log.Logger

	// Interval between ticks; defaults to one second.
	Interval time.Duration

	cache []*store.Item
	dirty atomic.Bool
}

// New builds a listener over a store. The dispatcher may be nil, in
// which case target actions are logged but not submitted.
func New(st *store.Store, d Dispatcher, logger *log.Logger) *Listener {
	if logger == nil {
		logger = log.Default()
	}
	l := &Listener{Store: st, Dispatch: d, Log: logger, Interval: time.Second}
	l.dirty.Store(true)
	return l
}

// Invalidate forces the next tick to reload items from disk. Safe to
// call from the watcher goroutine.
func (l *Listener) Invalidate() {
	l.dirty.Store(true)
}

// Loop ticks until the shutdown channel closes. A file watcher keeps
// the item cache fresh; if watching fails, every tick reloads instead.
func (l *Listener) Loop(shutdown <-chan struct{}) error {
	stop, err := StartWatcher(l.Store.Root, l.Invalidate)
	if err != nil {
		l.Log.Printf("watcher unavailable, reloading every tick: %v", err)
	} else {
		defer stop()
	}

	interval := l.Interval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-shutdown:
			return nil
		case now := <-ticker.C:
			if err != nil {
				l.Invalidate()
			}
			l.Tick(now)
		}
	}
}

// Tick runs one evaluation pass at the given instant.
func (l *Listener) Tick(now time.Time) {
	if l.dirty.Load() {
		l.reload()
	}
	for _, it := range l.cache {
		l.evaluate(it, now)
	}
}

func (l *Listener) reload() {
	l.cache = l.cache[:0]
	for _, typ := range []string{store.TypeAlarm, store.TypeReminder} {
		items, err := l.Store.List(typ)
		if err != nil {
			l.Log.Printf("loading %s items: %v", typ, err)
			continue
		}
		l.cache = append(l.cache, items...)
	}
	l.dirty.Store(false)
}

// evaluate advances one alarm/reminder through its lifecycle: restore
// past the reset time, wake from snooze, ring when due.
func (l *Listener) evaluate(it *store.Item, now time.Time) {
	if it.ResetTime != "" && it.Status != "" {
		if at, ok := timeparse.ClockOn(now, it.ResetTime); ok && !now.Before(at) {
			it.Status = ""
			it.SnoozeUntil = ""
			l.persist(it)
			return
		}
	}

	switch it.Status {
	case StatusRinging, StatusDismissed:
		return
	case StatusSnoozed:
		if at, ok := timeparse.ClockOn(now, it.SnoozeUntil); ok && now.Before(at) {
			return
		}
		// Snooze expired; ring again.
	default:
		if !l.due(it, now) {
			return
		}
	}
	l.ring(it, now)
}

// due reports whether an armed item's trigger time has arrived today.
func (l *Listener) due(it *store.Item, now time.Time) bool {
	if it.Time == "" || !l.recursToday(it, now) {
		return false
	}
	at, ok := timeparse.ClockOn(now, it.Time)
	return ok && !now.Before(at)
}

func (l *Listener) recursToday(it *store.Item, now time.Time) bool {
	switch it.Recurrence {
	case "", "daily":
		return true
	case "weekdays":
		wd := now.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	case "weekends":
		wd := now.Weekday()
		return wd == time.Saturday || wd == time.Sunday
	default:
		return strings.EqualFold(it.Recurrence, now.Weekday().String())
	}
}

// ring marks the item ringing, logs the trigger, and dispatches the
// linked target action if the item has one.
func (l *Listener) ring(it *store.Item, now time.Time) {
	it.Status = StatusRinging
	it.SnoozeUntil = ""
	l.persist(it)
	l.Log.Printf("%s %q fired at %s", it.Type, it.Name, timeparse.FormatClock(now))

	if it.Target == nil {
		return
	}
	argv := synthesize(it.Target)
	if argv == nil {
		l.Log.Printf("%s %q has unrecognized target action %q", it.Type, it.Name, it.Target.Type)
		return
	}
	if l.Dispatch == nil {
		l.Log.Printf("no dispatcher; dropping %v", argv)
		return
	}
	if err := l.Dispatch.Dispatch(argv); err != nil {
		l.Log.Printf("dispatching %v: %v", argv, err)
	}
}

// synthesize turns a target action into the CLI invocation it stands
// for.
func synthesize(a *store.Action) []string {
	switch a.Type {
	case "complete":
		typ := a.Value
		if typ == "" {
			typ = store.TypeTask
		}
		return []string{"complete", typ, a.Name}
	case "edit":
		return []string{"edit", a.Name}
	case "set":
		return []string{"status", a.Name, a.Value}
	default:
		return nil
	}
}

func (l *Listener) persist(it *store.Item) {
	if err := l.Store.Update(it); err != nil {
		l.Log.Printf("updating %s %q: %v", it.Type, it.Name, err)
	}
}
