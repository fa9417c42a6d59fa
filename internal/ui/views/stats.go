package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/tickle/internal/db"
	"github.com/dori/tickle/internal/manager"
	"github.com/dori/tickle/internal/model"
	"github.com/dori/tickle/internal/ui/theme"
)

type statsLoadedMsg struct {
	stats db.Stats
	err   error
}

// StatsView shows totals computed by the reporting mirror
type StatsView struct {
	mgr    *manager.Manager
	mirror *db.DB
	width  int
	height int

	stats  db.Stats
	loaded bool
	err    error
}

// NewStatsView creates a new stats view
func NewStatsView(mgr *manager.Manager, mirror *db.DB) StatsView {
	return StatsView{
		mgr:    mgr,
		mirror: mirror,
	}
}

// Init initializes the stats view
func (v StatsView) Init() tea.Cmd {
	return v.loadStats()
}

// SetSize sets the view dimensions
func (v StatsView) SetSize(width, height int) StatsView {
	v.width = width
	v.height = height
	return v
}

// loadStats syncs the manager into the mirror and queries it
func (v StatsView) loadStats() tea.Cmd {
	return func() tea.Msg {
		if err := v.mirror.Sync(v.mgr.Snapshot()); err != nil {
			return statsLoadedMsg{err: err}
		}
		s, err := v.mirror.Stats(v.mgr.Now())
		return statsLoadedMsg{stats: s, err: err}
	}
}

// Stats returns the last loaded statistics
func (v StatsView) Stats() db.Stats {
	return v.stats
}

// Update handles messages for the stats view
func (v StatsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		v.err = msg.err
		if msg.err == nil {
			v.stats = msg.stats
			v.loaded = true
		}
		return v, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			return v, v.loadStats()
		}
	}

	return v, nil
}

// View renders the stats view
func (v StatsView) View() string {
	t := theme.Current.Theme

	if v.err != nil {
		return lipgloss.NewStyle().Foreground(t.Error).Render("Statistics unavailable: " + v.err.Error())
	}
	if !v.loaded {
		return "Loading..."
	}

	s := v.stats
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	sections = append(sections, titleStyle.Render("Statistics"))
	sections = append(sections, "")

	cardStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 2).
		Width(16)
	labelStyle := lipgloss.NewStyle().Foreground(t.Subtle)
	card := func(value string, label string, color lipgloss.Color) string {
		return cardStyle.Render(
			lipgloss.NewStyle().Bold(true).Foreground(color).Render(value) + "\n" +
				labelStyle.Render(label),
		)
	}

	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top,
		card(fmt.Sprintf("%d", s.Open), "Open", t.Primary),
		card(fmt.Sprintf("%d", s.Completed), "Completed", t.Success),
		card(fmt.Sprintf("%.0f%%", s.CompletionRate()*100), "Done rate", t.Info),
	))
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top,
		card(fmt.Sprintf("%d", s.Overdue), "Overdue", t.Overdue),
		card(fmt.Sprintf("%d", s.DueToday), "Due today", t.DueToday),
		card(fmt.Sprintf("%d", s.Recurring), "Recurring", t.Recurring),
	))
	sections = append(sections, "")

	sections = append(sections, v.renderPriorities())
	sections = append(sections, "")

	if len(s.TopTags) > 0 {
		sections = append(sections, v.renderTopTags())
		sections = append(sections, "")
	}

	sections = append(sections, labelStyle.Render("r: refresh"))

	return strings.Join(sections, "\n")
}

// renderPriorities renders open tasks per priority as bars
func (v StatsView) renderPriorities() string {
	t := theme.Current.Theme

	lines := []string{lipgloss.NewStyle().Bold(true).Foreground(t.Secondary).Render("Open by Priority")}

	maxCount := 1
	for _, n := range v.stats.ByPriority {
		maxCount = max(maxCount, n)
	}

	for _, p := range model.Priorities {
		n := v.stats.ByPriority[p]
		bar := lipgloss.NewStyle().Foreground(t.PriorityColor(p)).Render(strings.Repeat("█", barWidth(n, maxCount)))
		lines = append(lines, fmt.Sprintf("%-8s %s %d", p, bar, n))
	}
	return strings.Join(lines, "\n")
}

// renderTopTags renders the most used tags on open tasks
func (v StatsView) renderTopTags() string {
	t := theme.Current.Theme

	lines := []string{lipgloss.NewStyle().Bold(true).Foreground(t.Secondary).Render("Top Tags")}

	maxCount := 1
	for _, tc := range v.stats.TopTags {
		maxCount = max(maxCount, tc.Count)
	}

	for _, tc := range v.stats.TopTags {
		bar := lipgloss.NewStyle().Foreground(t.Info).Render(strings.Repeat("█", barWidth(tc.Count, maxCount)))
		lines = append(lines, fmt.Sprintf("%-15s %s %d", "@"+tc.Tag, bar, tc.Count))
	}
	return strings.Join(lines, "\n")
}

func barWidth(n, maxCount int) int {
	const barMaxWidth = 30
	w := n * barMaxWidth / maxCount
	if w < 1 && n > 0 {
		w = 1
	}
	return w
}

// IsInputMode returns whether the view is in input mode
func (v StatsView) IsInputMode() bool {
	return false
}
