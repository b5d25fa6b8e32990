package commitment

import (
	"testing"
	"time"

	"github.com/chronos-cli/chronos/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monday is a fixed evaluation date used across the package tests.
var monday = time.Date(2025, 6, 2, 12, 0, 0, 0, time.Local)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore(t.TempDir())
	require.NoError(t, err)
	return s
}

// recorder is a Dispatcher double that captures every argv.
type recorder struct {
	calls [][]string
	err   error
}

func (r *recorder) Dispatch(argv []string) error {
	r.calls = append(r.calls, argv)
	return r.err
}

func TestBucket(t *testing.T) {
	cases := []struct {
		period string
		want   string
	}{
		{"day", "2025-06-02"},
		{"week", "2025-W23"},
		{"month", "2025-06"},
		{"", "all"},
		{"year", "all"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Bucket(monday, c.period), "period %q", c.period)
	}

	// ISO week boundaries: Sunday belongs to the preceding ISO week
	sunday := time.Date(2025, 6, 8, 0, 0, 0, 0, time.Local)
	nextMonday := time.Date(2025, 6, 9, 0, 0, 0, 0, time.Local)
	assert.Equal(t, "2025-W23", Bucket(sunday, "week"))
	assert.Equal(t, "2025-W24", Bucket(nextMonday, "week"))
}

func writeCommitment(t *testing.T, s *store.Store, it *store.Item) {
	t.Helper()
	require.NoError(t, s.Write("commitment", "Meditate Twice", it))
}

func TestFrequencyRuleFiresOncePerPeriod(t *testing.T) {
	s := setupTestStore(t)
	r := &recorder{}
	writeCommitment(t, s, &store.Item{
		Frequency:       &store.Frequency{Times: 2, Period: "week"},
		AssociatedItems: []store.ItemRef{{Type: "habit", Name: "Meditate"}},
		Triggers: &store.Triggers{OnMet: []store.Action{
			{Type: "achievement", Name: "Meditation Streak"},
			{Type: "script", Command: "notify met"},
		}},
	})
	require.NoError(t, s.Write("habit", "Meditate", &store.Item{
		CompletionDates: []string{"2025-06-02"},
	}))

	// One completion this week: below threshold
	require.NoError(t, EvaluateCommitments(s, r, monday))
	ach, err := s.Read("achievement", "Meditation Streak")
	require.NoError(t, err)
	assert.Nil(t, ach)

	// Second completion crosses the threshold
	require.NoError(t, s.Write("habit", "Meditate", &store.Item{
		CompletionDates: []string{"2025-06-02", "2025-06-03"},
	}))
	require.NoError(t, EvaluateCommitments(s, r, monday.AddDate(0, 0, 1)))

	ach, err = s.Read("achievement", "Meditation Streak")
	require.NoError(t, err)
	require.NotNil(t, ach)
	require.Len(t, r.calls, 1)
	assert.Equal(t, []string{"notify", "met"}, r.calls[0])

	c, err := s.Read("commitment", "Meditate Twice")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-03", c.LastMet)

	// A third completion in the same week does not re-fire
	require.NoError(t, s.Write("habit", "Meditate", &store.Item{
		CompletionDates: []string{"2025-06-02", "2025-06-03", "2025-06-04"},
	}))
	require.NoError(t, EvaluateCommitments(s, r, monday.AddDate(0, 0, 2)))
	assert.Len(t, r.calls, 1)
}

func TestFrequencyRuleResetsNextPeriod(t *testing.T) {
	s := setupTestStore(t)
	r := &recorder{}
	writeCommitment(t, s, &store.Item{
		Frequency:       &store.Frequency{Times: 2, Period: "week"},
		AssociatedItems: []store.ItemRef{{Type: "habit", Name: "Meditate"}},
		Triggers:        &store.Triggers{OnMet: []store.Action{{Type: "script", Command: "notify met"}}},
		LastMet:         "2025-06-03",
	})
	require.NoError(t, s.Write("habit", "Meditate", &store.Item{
		CompletionDates: []string{"2025-06-02", "2025-06-03", "2025-06-09", "2025-06-10"},
	}))

	// Following ISO week: the guard no longer applies
	require.NoError(t, EvaluateCommitments(s, r, monday.AddDate(0, 0, 8)))
	assert.Len(t, r.calls, 1)
}

func TestNeverRuleFiresOncePerDay(t *testing.T) {
	s := setupTestStore(t)
	r := &recorder{}
	require.NoError(t, s.Write("commitment", "No Smoking", &store.Item{
		Never:          true,
		ForbiddenItems: []store.ItemRef{{Type: "habit", Name: "Smoke"}},
		Triggers:       &store.Triggers{OnViolation: []store.Action{{Type: "script", Command: "notify violation"}}},
	}))
	require.NoError(t, s.Write("habit", "Smoke", &store.Item{
		CompletionDates: []string{"2025-06-02"},
	}))

	require.NoError(t, EvaluateCommitments(s, r, monday))
	require.Len(t, r.calls, 1)

	c, err := s.Read("commitment", "No Smoking")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-02", c.LastViolation)

	// Same day: guarded
	require.NoError(t, EvaluateCommitments(s, r, monday))
	assert.Len(t, r.calls, 1)

	// Next day with a fresh violation fires again
	require.NoError(t, s.Write("habit", "Smoke", &store.Item{
		CompletionDates: []string{"2025-06-02", "2025-06-03"},
	}))
	require.NoError(t, EvaluateCommitments(s, r, monday.AddDate(0, 0, 1)))
	assert.Len(t, r.calls, 2)
}

func TestGuardAdvancesWhenActionFails(t *testing.T) {
	s := setupTestStore(t)
	r := &recorder{err: assert.AnError}
	writeCommitment(t, s, &store.Item{
		Frequency:       &store.Frequency{Times: 1, Period: "day"},
		AssociatedItems: []store.ItemRef{{Type: "habit", Name: "Meditate"}},
		Triggers:        &store.Triggers{OnMet: []store.Action{{Type: "script", Command: "broken"}}},
	})
	require.NoError(t, s.Write("habit", "Meditate", &store.Item{
		CompletionDates: []string{"2025-06-02"},
	}))

	err := EvaluateCommitments(s, r, monday)
	assert.Error(t, err)
	require.Len(t, r.calls, 1)

	c, err := s.Read("commitment", "Meditate Twice")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-02", c.LastMet)

	// No re-fire storm on the next evaluation
	require.NoError(t, EvaluateCommitments(s, r, monday))
	assert.Len(t, r.calls, 1)
}

func TestMilestoneCountCriterion(t *testing.T) {
	s := setupTestStore(t)
	r := &recorder{}
	require.NoError(t, s.Write("milestone", "Thirty Runs", &store.Item{
		Goal: "Run regularly",
		Criteria: &store.Criteria{Count: &store.CountCriterion{
			Of:    []store.ItemRef{{Type: "habit", Name: "Run"}},
			Times: 3,
		}},
		OnComplete: []store.Action{{Type: "script", Command: "notify done"}},
	}))
	require.NoError(t, s.Write("habit", "Run", &store.Item{
		CompletionDates: []string{"2025-05-20", "2025-06-01"},
	}))

	require.NoError(t, EvaluateMilestones(s, r, monday))
	m, err := s.Read("milestone", "Thirty Runs")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, m.Status)
	require.NotNil(t, m.Progress)
	assert.Equal(t, 2, m.Progress.Current)
	assert.Equal(t, 3, m.Progress.Target)
	assert.InDelta(t, 66.7, m.Progress.Percent, 0.1)
	assert.Empty(t, r.calls)

	// Crossing the target completes and fires once
	require.NoError(t, s.Write("habit", "Run", &store.Item{
		CompletionDates: []string{"2025-05-20", "2025-06-01", "2025-06-02"},
	}))
	require.NoError(t, EvaluateMilestones(s, r, monday))
	m, err = s.Read("milestone", "Thirty Runs")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, m.Status)
	assert.InDelta(t, 100.0, m.Progress.Percent, 0.01)
	require.Len(t, r.calls, 1)

	require.NoError(t, EvaluateMilestones(s, r, monday))
	assert.Len(t, r.calls, 1)
}

func TestMilestoneChecklistCriterion(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.Write("milestone", "Launch Prep", &store.Item{
		Criteria: &store.Criteria{Checklist: &store.ChecklistCriterion{
			Items: []store.ItemRef{
				{Type: "task", Name: "Write Docs"},
				{Type: "task", Name: "Cut Release"},
				{Type: "task", Name: "Announce"},
			},
		}},
	}))
	require.NoError(t, s.Write("task", "Write Docs", &store.Item{Status: "completed"}))
	require.NoError(t, s.Write("task", "Cut Release", &store.Item{
		CompletionDates: []string{"2025-06-01"},
	}))
	require.NoError(t, s.Write("task", "Announce", &store.Item{}))

	require.NoError(t, EvaluateMilestones(s, nil, monday))
	m, err := s.Read("milestone", "Launch Prep")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, m.Status)
	assert.Equal(t, 2, m.Progress.Current)
	assert.Equal(t, 3, m.Progress.Target)
}

func TestMilestoneStatusNeverRegresses(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.Write("milestone", "Thirty Runs", &store.Item{
		Status: StatusCompleted,
		Criteria: &store.Criteria{Count: &store.CountCriterion{
			Of:    []store.ItemRef{{Type: "habit", Name: "Run"}},
			Times: 3,
		}},
	}))
	require.NoError(t, s.Write("habit", "Run", &store.Item{}))

	require.NoError(t, EvaluateMilestones(s, nil, monday))
	m, err := s.Read("milestone", "Thirty Runs")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, m.Status)
}
