package views

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/tickle/internal/db"
	"github.com/dori/tickle/internal/manager"
	"github.com/dori/tickle/internal/model"
)

func loadStats(t *testing.T, v StatsView) StatsView {
	t.Helper()
	next, _ := v.Update(v.Init()())
	return next.(StatsView)
}

func TestStatsView(t *testing.T) {
	mirror, err := db.Open()
	require.NoError(t, err)
	defer mirror.Close()

	mgr := newManager()
	late := fixedNow.Add(-time.Hour)
	addTask(t, mgr, manager.NewTask{Title: "pay rent", Priority: model.PriorityHigh, Tags: []string{"home"}, Due: &late})
	addTask(t, mgr, manager.NewTask{Title: "sweep", Tags: []string{"home"}})
	addTask(t, mgr, manager.NewTask{Title: "done already"})
	_, err = mgr.MarkComplete(3, true)
	require.NoError(t, err)

	v := NewStatsView(mgr, mirror).SetSize(100, 30)
	assert.Equal(t, "Loading...", v.View())

	v = loadStats(t, v)
	s := v.Stats()
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Open)
	assert.Equal(t, 1, s.Overdue)
	assert.Equal(t, 1, s.ByPriority[model.PriorityHigh])

	out := v.View()
	assert.Contains(t, out, "Open by Priority")
	assert.Contains(t, out, "@home")
	assert.Contains(t, out, "33%")
}

func TestStatsViewRefresh(t *testing.T) {
	mirror, err := db.Open()
	require.NoError(t, err)
	defer mirror.Close()

	mgr := newManager()
	v := loadStats(t, NewStatsView(mgr, mirror))
	assert.Equal(t, 0, v.Stats().Total)
	assert.NotContains(t, v.View(), "Top Tags")

	addTask(t, mgr, manager.NewTask{Title: "new"})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.NotNil(t, cmd)
	next, _ := v.Update(cmd())
	assert.Equal(t, 1, next.(StatsView).Stats().Total)
}

func TestStatsViewError(t *testing.T) {
	mirror, err := db.Open()
	require.NoError(t, err)
	require.NoError(t, mirror.Close())

	v := loadStats(t, NewStatsView(newManager(), mirror))
	assert.Contains(t, v.View(), "Statistics unavailable")
}
