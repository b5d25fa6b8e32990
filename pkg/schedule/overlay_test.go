package schedule

import (
	"testing"

	"github.com/chronos-cli/chronos/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMonday(t *testing.T, s *store.Store) {
	t.Helper()
	require.NoError(t, s.Write("day", "Monday", &store.Item{
		Items: []store.ChildSpec{
			{Type: "task", Name: "Deep Work", Duration: "120m", StartTime: "09:00"},
			{Type: "task", Name: "Review", Duration: "30m"},
		},
	}))
}

func TestOverlayAppendAssignsSeq(t *testing.T) {
	s := setupTestStore(t)

	require.NoError(t, AppendOverlay(s.Root, OverlayEntry{Action: ActionTrim, ItemName: "a", Amount: 10}))
	require.NoError(t, AppendOverlay(s.Root, OverlayEntry{Action: ActionCut, ItemName: "b"}))

	entries, err := LoadOverlay(s.Root)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Seq)
	assert.Equal(t, 2, entries[1].Seq)
	assert.Equal(t, ActionTrim, entries[0].Action)
}

func TestOverlayTrimPersistsAcrossRecompiles(t *testing.T) {
	s := setupTestStore(t)
	writeMonday(t, s)
	settings := defaultSettings(t, s)

	comp, err := Compile(s, settings, monday)
	require.NoError(t, err)
	require.NotNil(t, comp.Find("Deep Work"))
	assert.Equal(t, 120, comp.Find("Deep Work").Duration)

	require.NoError(t, AppendOverlay(s.Root, OverlayEntry{
		Action: ActionTrim, ItemName: "deep work", Amount: 30,
	}))

	// The template is unchanged; the trim is replayed on every recompile
	for i := 0; i < 2; i++ {
		comp, err = Compile(s, settings, monday)
		require.NoError(t, err)
		dw := comp.Find("Deep Work")
		require.NotNil(t, dw)
		assert.Equal(t, 90, dw.Duration)
	}
}

func TestOverlayTrimBelowFloorRejected(t *testing.T) {
	s := setupTestStore(t)
	writeMonday(t, s)
	settings := defaultSettings(t, s)

	comp, err := Compile(s, settings, monday)
	require.NoError(t, err)

	ApplyOverlay(comp, []OverlayEntry{
		{Seq: 1, Action: ActionTrim, ItemName: "Review", Amount: 28},
	}, settings.Weights)

	review := comp.Find("Review")
	require.NotNil(t, review)
	assert.Equal(t, 30, review.Duration)

	var warned bool
	for _, c := range comp.Conflicts {
		if c.Kind == ConflictOverlay && c.Name == "Review" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestOverlayCut(t *testing.T) {
	s := setupTestStore(t)
	writeMonday(t, s)
	settings := defaultSettings(t, s)

	comp, err := Compile(s, settings, monday)
	require.NoError(t, err)

	ApplyOverlay(comp, []OverlayEntry{
		{Seq: 1, Action: ActionCut, ItemName: "Review"},
	}, settings.Weights)

	assert.Nil(t, comp.Find("Review"))
	assert.NotNil(t, comp.Find("Deep Work"))
}

func TestOverlayChangeReanchors(t *testing.T) {
	s := setupTestStore(t)
	writeMonday(t, s)
	settings := defaultSettings(t, s)

	comp, err := Compile(s, settings, monday)
	require.NoError(t, err)

	ApplyOverlay(comp, []OverlayEntry{
		{Seq: 1, Action: ActionChange, ItemName: "Deep Work", NewStartTime: "14:00"},
	}, settings.Weights)

	dw := comp.Find("Deep Work")
	require.NotNil(t, dw)
	start, end := clock(t, dw)
	assert.Equal(t, "14:00", start)
	assert.Equal(t, "16:00", end)
}

func TestOverlayUnknownNameWarnedAndSkipped(t *testing.T) {
	s := setupTestStore(t)
	writeMonday(t, s)
	settings := defaultSettings(t, s)

	comp, err := Compile(s, settings, monday)
	require.NoError(t, err)
	before := len(comp.Conflicts)

	ApplyOverlay(comp, []OverlayEntry{
		{Seq: 1, Action: ActionTrim, ItemName: "Nonexistent", Amount: 10},
	}, settings.Weights)

	require.Len(t, comp.Conflicts, before+1)
	assert.Equal(t, ConflictOverlay, comp.Conflicts[before].Kind)
	assert.Equal(t, "Nonexistent", comp.Conflicts[before].Name)
}

func TestOverlayReplayOrder(t *testing.T) {
	s := setupTestStore(t)

	// Seq order wins over file order
	data := "- seq: 2\n  action: cut\n  item_name: Review\n" +
		"- seq: 1\n  action: trim\n  item_name: Review\n  amount: 10\n"
	require.NoError(t, store.WriteAtomic(OverlayPath(s.Root), []byte(data)))

	entries, err := LoadOverlay(s.Root)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ActionTrim, entries[0].Action)
	assert.Equal(t, ActionCut, entries[1].Action)
}
