package schedule

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chronos-cli/chronos/pkg/store"
	"github.com/chronos-cli/chronos/pkg/timeparse"
	"gopkg.in/yaml.v3"
)

// scheduleFile is the on-disk shape of a compiled day.
type scheduleFile struct {
	Date      string         `yaml:"date"`
	Template  string         `yaml:"template,omitempty"`
	Variant   string         `yaml:"variant,omitempty"`
	Meta      CapacityReport `yaml:"meta"`
	Conflicts []Conflict     `yaml:"conflicts,omitempty"`
	Schedule  []nodeYAML     `yaml:"schedule"`
}

// nodeYAML is the wire form of a Node; clock fields are "HH:MM" and
// round-trip through ReadFile.
type nodeYAML struct {
	Name       string      `yaml:"name"`
	Type       string      `yaml:"type"`
	StartTime  string      `yaml:"start_time,omitempty"`
	EndTime    string      `yaml:"end_time,omitempty"`
	Duration   int         `yaml:"duration"`
	IsParallel bool        `yaml:"is_parallel,omitempty"`
	IsBuffer   bool        `yaml:"is_buffer,omitempty"`
	Depth      int         `yaml:"depth,omitempty"`
	OrderIndex int         `yaml:"order_index,omitempty"`
	Anchor     string      `yaml:"anchor,omitempty"`
	Importance float64     `yaml:"importance_score,omitempty"`
	Status     string      `yaml:"status"`
	Children   []nodeYAML  `yaml:"children,omitempty"`
	Original   *store.Item `yaml:"original_item_data,omitempty"`
}

// SchedulePath returns the compiled-schedule file for a date.
func SchedulePath(root string, date time.Time) string {
	return filepath.Join(root, "Schedules", date.Format("2006-01-02")+".yml")
}

// WriteFile persists a compilation atomically. Writing the same
// compilation twice produces byte-equal files.
func WriteFile(root string, comp *Compilation) error {
	out := scheduleFile{
		Date:      comp.Date.Format("2006-01-02"),
		Template:  comp.Template,
		Variant:   comp.Variant,
		Meta:      comp.Capacity,
		Conflicts: comp.Conflicts,
		Schedule:  nodesToYAML(comp.Nodes),
	}
	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("serializing schedule: %w", err)
	}
	return store.WriteAtomic(SchedulePath(root, comp.Date), data)
}

// ReadFile loads a previously compiled schedule. A missing file returns
// (nil, nil).
func ReadFile(root string, date time.Time) (*Compilation, error) {
	data, err := os.ReadFile(SchedulePath(root, date))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading schedule: %w", err)
	}

	var in scheduleFile
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parsing schedule: %w", err)
	}

	comp := &Compilation{
		Date:      date,
		Weekday:   date.Weekday().String(),
		Template:  in.Template,
		Variant:   in.Variant,
		Capacity:  in.Meta,
		Conflicts: in.Conflicts,
	}
	comp.Nodes = nodesFromYAML(in.Schedule, nil, date)
	return comp, nil
}

func nodesToYAML(nodes []*Node) []nodeYAML {
	out := make([]nodeYAML, 0, len(nodes))
	for _, n := range nodes {
		w := nodeYAML{
			Name:       n.Name,
			Type:       n.Type,
			Duration:   n.Duration,
			IsParallel: n.IsParallel,
			IsBuffer:   n.IsBuffer,
			Depth:      n.Depth,
			OrderIndex: n.OrderIndex,
			Anchor:     n.Anchor,
			Importance: n.Importance,
			Status:     n.Status,
			Children:   nodesToYAML(n.Children),
		}
		if !n.StartTime.IsZero() {
			w.StartTime = timeparse.FormatClock(n.StartTime)
			w.EndTime = timeparse.FormatClock(n.EndTime)
		}
		if !n.IsBuffer && n.Original.Name != "" {
			item := n.Original
			w.Original = &item
		}
		out = append(out, w)
	}
	return out
}

func nodesFromYAML(in []nodeYAML, parent *Node, date time.Time) []*Node {
	var out []*Node
	for _, w := range in {
		n := &Node{
			Name:       w.Name,
			Type:       w.Type,
			Duration:   w.Duration,
			Explicit:   w.Duration,
			IsParallel: w.IsParallel,
			IsBuffer:   w.IsBuffer,
			Depth:      w.Depth,
			OrderIndex: w.OrderIndex,
			Anchor:     w.Anchor,
			Importance: w.Importance,
			Status:     w.Status,
			Parent:     parent,
		}
		if w.Original != nil {
			n.Original = *w.Original
			n.Item = w.Original
		}
		if t, ok := timeparse.ClockOn(date, w.StartTime); ok {
			n.StartTime = t
		}
		if t, ok := timeparse.ClockOn(date, w.EndTime); ok {
			n.EndTime = t
		}
		n.Children = nodesFromYAML(w.Children, n, date)
		out = append(out, n)
	}
	return out
}
