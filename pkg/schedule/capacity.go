package schedule

import (
	"github.com/chronos-cli/chronos/pkg/store"
	"github.com/chronos-cli/chronos/pkg/timeparse"
)

// CapacityReport compares scheduled demand against the day's waking
// window.
type CapacityReport struct {
	WindowStart string `yaml:"window_start"`
	WindowEnd   string `yaml:"window_end"`
	Capacity    int    `yaml:"capacity_minutes"`
	Demand      int    `yaml:"demand_minutes"`
	Delta       int    `yaml:"delta_minutes"` // positive when over capacity
	Exceeded    bool   `yaml:"exceeded"`
}

// AnalyzeCapacity sums leaf durations (excluding parallel and buffer
// nodes) against the waking window and records the report on the
// compilation. Over-capacity is flagged in the conflict log but is not
// fatal; it drives the resolver.
func AnalyzeCapacity(comp *Compilation, weights store.SchedulingWeights) CapacityReport {
	start := windowStart(comp.Date, weights)
	end := windowEnd(comp.Date, weights)

	report := CapacityReport{
		WindowStart: weights.WindowStart,
		WindowEnd:   weights.WindowEnd,
		Capacity:    int(end.Sub(start).Minutes()),
		Demand:      demandMinutes(comp),
	}
	report.Delta = report.Demand - report.Capacity
	report.Exceeded = report.Delta > 0

	comp.Capacity = report
	if report.Exceeded {
		comp.Note(ConflictCapacity, "", "Capacity Conflict: demand exceeds window by "+
			timeparse.FormatMinutes(report.Delta))
	}
	return report
}

func demandMinutes(comp *Compilation) int {
	total := 0
	comp.Walk(func(n *Node) {
		if n.Leaf() && !n.IsParallel && !n.IsBuffer {
			total += n.Duration
		}
	})
	return total
}
