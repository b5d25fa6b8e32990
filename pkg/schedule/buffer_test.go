package schedule

import (
	"testing"

	"github.com/chronos-cli/chronos/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertBuffersFillsGaps(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.Write("day", "Monday", &store.Item{
		Items: []store.ChildSpec{
			{Type: "task", Name: "One", Duration: "60m", StartTime: "09:00"},
			{Type: "task", Name: "Two", Duration: "60m", StartTime: "10:30"},
		},
	}))
	comp := expandMonday(t, s, nil)
	InsertBuffers(comp, store.Buffers{Duration: 10, MinGap: 60})

	require.Len(t, comp.Nodes, 3)
	buf := comp.Nodes[1]
	assert.True(t, buf.IsBuffer)
	assert.Equal(t, 10, buf.Duration)
	start, end := clock(t, buf)
	assert.Equal(t, "10:00", start)
	assert.Equal(t, "10:10", end)

	// Buffers are invisible to overlap detection and capacity demand
	assert.Empty(t, overlaps(comp))
	assert.Equal(t, 120, demandMinutes(comp))
}

func TestInsertBuffersSkipsWideAndTightGaps(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.Write("day", "Monday", &store.Item{
		Items: []store.ChildSpec{
			{Type: "task", Name: "A", Duration: "30m", StartTime: "09:00"},
			// back-to-back: no room for a buffer
			{Type: "task", Name: "B", Duration: "30m", StartTime: "09:30"},
			// two-hour gap: intentional free space, left open
			{Type: "task", Name: "C", Duration: "30m", StartTime: "12:00"},
		},
	}))

	comp := expandMonday(t, s, nil)
	InsertBuffers(comp, store.Buffers{Duration: 10, MinGap: 60})

	assert.Len(t, comp.Nodes, 3)
	for _, n := range comp.Nodes {
		assert.False(t, n.IsBuffer)
	}
}

func TestInsertBuffersCategoryPads(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.Write("day", "Monday", &store.Item{
		Items: []store.ChildSpec{
			{Type: "task", Name: "Gym", Duration: "60m", StartTime: "09:00", Category: "exercise"},
			{Type: "task", Name: "Calls", Duration: "60m", StartTime: "10:30"},
		},
	}))

	comp := expandMonday(t, s, nil)
	InsertBuffers(comp, store.Buffers{
		Duration:     10,
		MinGap:       60,
		CategoryPads: map[string]int{"exercise": 25},
	})

	require.Len(t, comp.Nodes, 3)
	assert.True(t, comp.Nodes[1].IsBuffer)
	assert.Equal(t, 25, comp.Nodes[1].Duration)
}

func TestCapacityReport(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.Write("routine", "Block", &store.Item{
		Items: []store.ChildSpec{
			{Type: "task", Name: "A", Duration: "90m"},
			{Type: "task", Name: "B", Duration: "parallel"},
			{Type: "task", Name: "C", Duration: "30m"},
		},
	}))
	require.NoError(t, s.Write("day", "Monday", &store.Item{
		Items: []store.ChildSpec{{Type: "routine", Name: "Block"}},
	}))
	settings := defaultSettings(t, s)
	settings.Weights.WindowStart = "08:00"
	settings.Weights.WindowEnd = "10:00"

	sel, err := SelectTemplate(s, "Monday", nil)
	require.NoError(t, err)
	comp := Expand(s, sel, nil, monday, settings.Weights)
	report := AnalyzeCapacity(comp, settings.Weights)

	// Leaves only, parallel excluded, parents not double-counted
	assert.Equal(t, 120, report.Demand)
	assert.Equal(t, 120, report.Capacity)
	assert.False(t, report.Exceeded)
	assert.Empty(t, comp.Conflicts)
}
