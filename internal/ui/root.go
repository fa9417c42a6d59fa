package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/tickle/internal/app"
	"github.com/dori/tickle/internal/reminder"
	"github.com/dori/tickle/internal/ui/theme"
	"github.com/dori/tickle/internal/ui/views"
)

// RootModel is the main application model that manages views
type RootModel struct {
	app    *app.App
	keys   KeyMap
	help   help.Model
	width  int
	height int

	currentView View
	listView    views.ListView
	statsView   views.StatsView
	helpVisible bool

	report reminder.Report

	// Status message
	statusMsg string
	errorMsg  string
}

// NewRootModel creates a new root model
func NewRootModel(application *app.App) RootModel {
	h := help.New()
	h.ShowAll = false

	return RootModel{
		app:         application,
		keys:        DefaultKeyMap(),
		help:        h,
		currentView: ViewList,
		listView:    views.NewListView(application.Manager),
		statsView:   views.NewStatsView(application.Manager, application.Mirror),
		report:      application.LastReport(),
	}
}

// Init initializes the model
func (m RootModel) Init() tea.Cmd {
	return m.listView.Init()
}

// CurrentView returns the active view
func (m RootModel) CurrentView() View {
	return m.currentView
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// Header takes one line, footer three
		contentHeight := m.height - 4
		m.listView = m.listView.SetSize(m.width, contentHeight)
		m.statsView = m.statsView.SetSize(m.width, contentHeight)

	case tea.KeyMsg:
		m.statusMsg = ""
		m.errorMsg = ""

		isInputMode := false
		if m.currentView == ViewList {
			isInputMode = m.listView.IsInputMode()
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			// q is text while typing; ctrl+c always quits
			if msg.String() == "ctrl+c" || !isInputMode {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.ThemeCycle):
			next := theme.Next()
			theme.SetTheme(next)
			return m, func() tea.Msg { return ThemeChangedMsg{ThemeName: next.Name} }
		}

		if isInputMode {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Help):
			m.helpVisible = !m.helpVisible
			m.help.ShowAll = m.helpVisible
			return m, nil

		case m.helpVisible && key.Matches(msg, m.keys.Back):
			m.helpVisible = false
			m.help.ShowAll = false
			return m, nil

		case key.Matches(msg, m.keys.ListView):
			return m.switchView(ViewList)

		case key.Matches(msg, m.keys.StatsView):
			return m.switchView(ViewStats)
		}

	case SwitchViewMsg:
		return m.switchView(msg.View)

	case ReminderMsg:
		m.report = msg.Report
		// Poller ticks can change what is overdue; redraw from fresh data
		if m.currentView == ViewList && !m.listView.IsInputMode() {
			return m, m.listView.Init()
		}
		return m, nil

	case ErrorMsg:
		m.errorMsg = msg.Err.Error()
		m.statusMsg = ""
		return m, nil

	case StatusMsg:
		m.statusMsg = msg.Message
		m.errorMsg = ""
		return m, nil

	case ThemeChangedMsg:
		m.statusMsg = fmt.Sprintf("Theme: %s", msg.ThemeName)
		return m, nil
	}

	var cmd tea.Cmd
	switch m.currentView {
	case ViewList:
		var next tea.Model
		next, cmd = m.listView.Update(msg)
		m.listView = next.(views.ListView)
	case ViewStats:
		var next tea.Model
		next, cmd = m.statsView.Update(msg)
		m.statsView = next.(views.StatsView)
	}

	return m, cmd
}

// switchView activates v and reloads its data
func (m RootModel) switchView(v View) (tea.Model, tea.Cmd) {
	m.helpVisible = false
	m.help.ShowAll = false
	switch v {
	case ViewList:
		m.currentView = ViewList
		return m, m.listView.Init()
	case ViewStats:
		m.currentView = ViewStats
		return m, m.statsView.Init()
	}
	return m, nil
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	styles := theme.Current.Styles
	sections := []string{m.renderHeader()}

	contentHeight := m.height - 4
	if m.errorMsg != "" || m.statusMsg != "" {
		contentHeight--
	}

	var content string
	if m.helpVisible {
		content = m.renderHelp()
	} else {
		switch m.currentView {
		case ViewList:
			content = m.listView.View()
		case ViewStats:
			content = m.statsView.View()
		default:
			content = styles.Panel.Render("View not implemented")
		}
	}

	contentLines := strings.Count(content, "\n") + 1
	if contentLines < contentHeight {
		content += strings.Repeat("\n", contentHeight-contentLines)
	}
	sections = append(sections, content)
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

// renderHeader renders the title, view and reminder counts
func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("tickle")

	subtle := lipgloss.NewStyle().Foreground(t.Subtle).Padding(0, 1)
	viewIndicator := subtle.Render(fmt.Sprintf("[%s]", m.currentView.String()))

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, title, viewIndicator, m.renderReminders())
	rightSide := subtle.Render(fmt.Sprintf("sort: %s  theme: %s", m.app.Manager.SortOrder(), t.Name))

	gap := max(0, m.width-lipgloss.Width(leftSide)-lipgloss.Width(rightSide))
	return leftSide + strings.Repeat(" ", gap) + rightSide
}

// renderReminders renders the latest reminder counts, empty when nothing is due
func (m RootModel) renderReminders() string {
	t := theme.Current.Theme
	r := m.report

	var parts []string
	if r.Overdue > 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(t.Overdue).Bold(true).Render(fmt.Sprintf("%d overdue", r.Overdue)))
	}
	if r.DueToday > 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(t.DueToday).Render(fmt.Sprintf("%d due today", r.DueToday)))
	}
	if r.DueSoon > 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(t.Info).Render(fmt.Sprintf("%d due soon", r.DueSoon)))
	}
	if len(parts) == 0 {
		return ""
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(parts, " · "))
}

// renderFooter renders the footer/status bar
func (m RootModel) renderFooter() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	key := func(k, desc string) string {
		return styles.HelpKey.Render(k) + styles.HelpDesc.Render(" "+desc)
	}
	sep := styles.HelpSeparator.Render(" │ ")

	var lines []string
	if m.errorMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Error).Render(m.errorMsg))
	} else if m.statusMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Info).Render(m.statusMsg))
	}

	switch {
	case m.currentView == ViewList && m.listView.IsInputMode():
		lines = append(lines, key("enter", "confirm")+sep+key("esc", "cancel"))
	case m.currentView == ViewList:
		lines = append(lines,
			key("a", "add")+sep+
				key("enter", "edit")+sep+
				key("tab", "done")+sep+
				key("d", "del")+sep+
				key("p", "priority")+sep+
				key("/", "search")+sep+
				key(":", "cmd"),
			key("c", "hide done")+sep+
				key("1-2", "views")+sep+
				key("C-t", "theme")+sep+
				key("?", "help")+sep+
				key("q", "quit"),
		)
	case m.currentView == ViewStats:
		lines = append(lines,
			key("r", "refresh"),
			key("1-2", "views")+sep+
				key("C-t", "theme")+sep+
				key("?", "help")+sep+
				key("q", "quit"),
		)
	default:
		lines = append(lines, m.help.View(m.keys))
	}

	return strings.Join(lines, "\n")
}

// renderHelp renders the help overlay
func (m RootModel) renderHelp() string {
	t := theme.Current.Theme

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary).MarginBottom(1)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Secondary).MarginTop(1)
	keyStyle := lipgloss.NewStyle().Foreground(t.Foreground).Bold(true).Width(14)
	cmdKeyStyle := lipgloss.NewStyle().Foreground(t.Info).Bold(true).Width(24)
	descStyle := lipgloss.NewStyle().Foreground(t.Subtle)

	var b strings.Builder
	section := func(name string, ks lipgloss.Style, rows [][2]string) {
		b.WriteString(sectionStyle.Render(name))
		b.WriteString("\n")
		for _, kv := range rows {
			b.WriteString(ks.Render(kv[0]))
			b.WriteString(descStyle.Render(kv[1]))
			b.WriteString("\n")
		}
	}

	b.WriteString(titleStyle.Render("tickle Help"))
	b.WriteString("\n")

	section("Navigation", keyStyle, [][2]string{
		{"↑/k ↓/j", "Navigate up/down"},
		{"g / G", "Go to top/bottom"},
		{"PgUp/PgDn", "Page up/down"},
	})
	section("Task Actions", keyStyle, [][2]string{
		{"a", "Quick add (@tag !high due:fri at:9:00 every:weekly)"},
		{"enter / e", "Edit title"},
		{"tab / x", "Toggle done (recurring tasks spawn the next one)"},
		{"d", "Delete task"},
		{"p", "Cycle priority"},
		{"c", "Hide/show completed"},
	})
	section("Views", keyStyle, [][2]string{
		{"1 / 2", "List / Statistics"},
		{"/", "Search title and description"},
		{":", "Command palette"},
		{"?", "Toggle this help"},
		{"ctrl+t", "Cycle theme"},
		{"q / ctrl+c", "Quit"},
	})
	section("Command Palette (:)", cmdKeyStyle, [][2]string{
		{":due <date> [HH:MM]", "Set due date (today, fri, 2024-01-15), or none"},
		{":priority <p>", "Set priority (high, medium, low)"},
		{":tag / :untag <name>", "Add or remove a tag"},
		{":desc <text>", "Set description (empty clears)"},
		{":recur <r>", "none, daily, weekly, monthly"},
		{":next", "Create the next occurrence now"},
		{":sort <mode>", "id, priority, title, status, due_date"},
		{":filter <criteria>", "open done overdue today recurring high @tag"},
		{":clear", "Clear filters"},
		{":theme <name>", "Change theme (" + strings.Join(theme.Names(), ", ") + ")"},
	})

	b.WriteString("\n")
	b.WriteString(descStyle.Render("Press ? or esc to close"))

	return b.String()
}
