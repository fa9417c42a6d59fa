package ui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/tickle/internal/app"
	"github.com/dori/tickle/internal/config"
	"github.com/dori/tickle/internal/reminder"
	"github.com/dori/tickle/internal/ui/theme"
)

func newTestRoot(t *testing.T) RootModel {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Notifications = false

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local)
	a, err := app.New(cfg,
		app.WithClock(func() time.Time { return now }),
		app.WithNotifyRunner(func(string, ...string) error { return nil }),
	)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	m := NewRootModel(a)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(RootModel)
}

func send(m RootModel, msg tea.Msg) (RootModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(RootModel), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSwitchViews(t *testing.T) {
	m := newTestRoot(t)
	assert.Equal(t, ViewList, m.CurrentView())
	assert.Contains(t, m.View(), "[List]")

	m, cmd := send(m, runes("2"))
	assert.Equal(t, ViewStats, m.CurrentView())
	require.NotNil(t, cmd)
	m, _ = send(m, cmd())
	assert.Contains(t, m.View(), "Open by Priority")

	m, _ = send(m, runes("1"))
	assert.Equal(t, ViewList, m.CurrentView())
}

func TestHelpOverlay(t *testing.T) {
	m := newTestRoot(t)

	m, _ = send(m, runes("?"))
	assert.Contains(t, m.View(), "tickle Help")

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotContains(t, m.View(), "tickle Help")
}

func TestQuit(t *testing.T) {
	m := newTestRoot(t)

	_, cmd := send(m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestQIsTextWhileTyping(t *testing.T) {
	m := newTestRoot(t)

	m, _ = send(m, runes("a"))
	require.True(t, m.listView.IsInputMode())

	m, _ = send(m, runes("q"))
	assert.True(t, m.listView.IsInputMode())
	assert.Equal(t, ViewList, m.CurrentView())

	// View switching keys are text too
	m, _ = send(m, runes("2"))
	assert.Equal(t, ViewList, m.CurrentView())
}

func TestReminderMsgShowsCounts(t *testing.T) {
	m := newTestRoot(t)

	m, _ = send(m, ReminderMsg{Report: reminder.Report{Overdue: 2, DueSoon: 1}})
	out := m.View()
	assert.Contains(t, out, "2 overdue")
	assert.Contains(t, out, "1 due soon")
	assert.NotContains(t, out, "due today")
}

func TestThemeCycle(t *testing.T) {
	defer theme.SetTheme(theme.Nord)
	m := newTestRoot(t)

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, "dracula", theme.Current.Theme.Name)
	require.NotNil(t, cmd)

	m, _ = send(m, cmd())
	assert.Contains(t, m.View(), "Theme: dracula")
}

func TestExternalMessages(t *testing.T) {
	m := newTestRoot(t)

	m, cmd := send(m, SwitchViewMsg{View: ViewStats})
	assert.Equal(t, ViewStats, m.CurrentView())
	assert.NotNil(t, cmd)

	m, _ = send(m, ErrorMsg{Err: errors.New("unknown theme \"solar\"")})
	assert.Contains(t, m.View(), "unknown theme")

	m, _ = send(m, StatusMsg{Message: "ready"})
	out := m.View()
	assert.Contains(t, out, "ready")
	assert.NotContains(t, out, "unknown theme")
}
