package main

import (
	"testing"
	"time"

	"github.com/chronos-cli/chronos/pkg/schedule"
	"github.com/chronos-cli/chronos/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataDirPrecedence(t *testing.T) {
	t.Setenv("CHRONOS_DIR", "/tmp/from-env")

	assert.Equal(t, "/tmp/from-flag", dataDir("/tmp/from-flag"))
	assert.Equal(t, "/tmp/from-env", dataDir(""))

	t.Setenv("CHRONOS_DIR", "")
	assert.Equal(t, store.DefaultDataDir(), dataDir(""))
}

func TestRenderSchedule(t *testing.T) {
	s, err := store.NewStore(t.TempDir())
	require.NoError(t, err)
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.Local)
	require.NoError(t, s.Write("day", "Monday", &store.Item{
		Items: []store.ChildSpec{
			{Type: "task", Name: "Deep Work", Duration: "120m", StartTime: "09:00"},
			{Type: "task", Name: "Laundry", Duration: "parallel"},
		},
	}))
	settings, err := s.LoadSettings()
	require.NoError(t, err)
	comp, err := schedule.Compile(s, settings, monday)
	require.NoError(t, err)

	out := renderSchedule(comp)
	assert.Contains(t, out, "Monday 2025-06-02")
	assert.Contains(t, out, "Deep Work")
	assert.Contains(t, out, "09:00")
	assert.Contains(t, out, "Laundry")
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{
		"today", "reschedule", "complete", "miss", "mark",
		"trim", "cut", "change", "list", "show", "status", "listen",
	} {
		sub, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
}
