// Package menu is the plain numbered text front-end, used with --plain or
// when no terminal is attached.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/dori/tickle/internal/db"
	"github.com/dori/tickle/internal/manager"
	"github.com/dori/tickle/internal/reminder"
)

// Menu runs the prompt loop against a task manager
type Menu struct {
	mgr     *manager.Manager
	mirror  *db.DB
	report  func() reminder.Report
	hours   int
	logger  *log.Logger
	in      *bufio.Scanner
	out     io.Writer
	heading lipgloss.Style
	errText lipgloss.Style
}

// Option configures a Menu
type Option func(*Menu)

// WithMirror enables the statistics entry
func WithMirror(mirror *db.DB) Option {
	return func(m *Menu) { m.mirror = mirror }
}

// WithReport shows the latest reminder report above the menu
func WithReport(report func() reminder.Report) Option {
	return func(m *Menu) { m.report = report }
}

// WithDueSoonHours sets the look-ahead used by the reminders listing
func WithDueSoonHours(hours int) Option {
	return func(m *Menu) {
		if hours > 0 {
			m.hours = hours
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(m *Menu) {
		if logger != nil {
			m.logger = logger.WithPrefix("menu")
		}
	}
}

// New creates a menu reading from in and writing to out
func New(mgr *manager.Manager, in io.Reader, out io.Writer, opts ...Option) *Menu {
	r := lipgloss.NewRenderer(out)
	m := &Menu{
		mgr:     mgr,
		hours:   manager.DefaultDueSoonHours,
		logger:  log.New(io.Discard),
		in:      bufio.NewScanner(in),
		out:     out,
		heading: r.NewStyle().Bold(true),
		errText: r.NewStyle().Foreground(lipgloss.Color("1")),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type action struct {
	label string
	run   func(*Menu) error
}

var actions = []action{
	{"Add task", (*Menu).addTask},
	{"Quick add", (*Menu).quickAdd},
	{"View tasks", (*Menu).viewTasks},
	{"Update task", (*Menu).updateTask},
	{"Delete task", (*Menu).deleteTask},
	{"Mark task as complete/incomplete", (*Menu).toggleTask},
	{"Search tasks", (*Menu).searchTasks},
	{"Filter tasks", (*Menu).filterTasks},
	{"Change sort order", (*Menu).sortTasks},
	{"Reminders", (*Menu).showReminders},
	{"Statistics", (*Menu).showStats},
}

// Run loops until the user exits, input ends or ctx is cancelled
func (m *Menu) Run(ctx context.Context) error {
	m.println("Welcome to tickle!")
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		m.display()
		choice, err := m.ask(fmt.Sprintf("Enter your choice (0-%d): ", len(actions)))
		if errors.Is(err, io.EOF) {
			m.println("\nExiting...")
			return nil
		}
		if err != nil {
			return err
		}

		n, convErr := strconv.Atoi(choice)
		switch {
		case convErr != nil || n < 0 || n > len(actions):
			m.errorf("Invalid choice. Please enter a number between 0 and %d.", len(actions))
			continue
		case n == 0:
			m.println("Goodbye!")
			return nil
		}

		a := actions[n-1]
		m.logger.Debug("menu action", "choice", n, "action", a.label)
		err = a.run(m)
		if errors.Is(err, io.EOF) {
			m.println("\nExiting...")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (m *Menu) display() {
	rule := strings.Repeat("=", 40)
	m.println("\n" + rule)
	m.println(m.heading.Render("tickle"))
	if m.report != nil {
		if line := reportLine(m.report()); line != "" {
			m.println(line)
		}
	}
	m.println(rule)
	for i, a := range actions {
		m.printf("%d. %s\n", i+1, a.label)
	}
	m.println("0. Exit")
	m.println(rule)
}

// ask prompts and returns the trimmed answer, or io.EOF when input ends
func (m *Menu) ask(prompt string) (string, error) {
	fmt.Fprint(m.out, prompt)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(m.in.Text()), nil
}

// askID prompts for a task id; ok is false when the answer is not a number
func (m *Menu) askID(prompt string) (int, bool, error) {
	s, err := m.ask(prompt)
	if err != nil {
		return 0, false, err
	}
	id, convErr := strconv.Atoi(s)
	if convErr != nil {
		m.errorf("Error: Please enter a valid task ID (number).")
		return 0, false, nil
	}
	return id, true, nil
}

func (m *Menu) println(s string) {
	fmt.Fprintln(m.out, s)
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}

func (m *Menu) errorf(format string, args ...any) {
	m.println(m.errText.Render(fmt.Sprintf(format, args...)))
}

func reportLine(r reminder.Report) string {
	if r.Empty() {
		return ""
	}
	return fmt.Sprintf("Reminders: %d overdue, %d due today, %d due soon", r.Overdue, r.DueToday, r.DueSoon)
}
