// Package notify sends desktop notifications through notify-send.
package notify

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

// AppName is passed to notify-send as the sending application
const AppName = "tickle"

// Urgency levels for notifications
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string // Optional icon name
}

// Runner executes an external command
type Runner func(name string, args ...string) error

func execRunner(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// Notifier handles sending desktop notifications
type Notifier struct {
	mu      sync.Mutex
	enabled bool
	run     Runner
}

// NewNotifier creates a new notifier. A nil runner uses os/exec.
func NewNotifier(run Runner) *Notifier {
	if run == nil {
		run = execRunner
	}
	return &Notifier{
		enabled: true,
		run:     run,
	}
}

// SetEnabled enables or disables notifications
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	n.enabled = enabled
	n.mu.Unlock()
}

// IsEnabled returns whether notifications are enabled
func (n *Notifier) IsEnabled() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.enabled
}

// Args builds the notify-send argument list
func (notification Notification) Args() []string {
	args := []string{}

	switch notification.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	// Timeout in milliseconds
	if notification.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(notification.Timeout.Milliseconds())))
	}

	if notification.Icon != "" {
		args = append(args, "-i", notification.Icon)
	}

	args = append(args, "-a", AppName)

	args = append(args, notification.Title)
	if notification.Body != "" {
		args = append(args, notification.Body)
	}
	return args
}

// Send sends a desktop notification using notify-send
func (n *Notifier) Send(notification Notification) error {
	if !n.IsEnabled() {
		return nil
	}
	if err := n.run("notify-send", notification.Args()...); err != nil {
		return fmt.Errorf("notify-send: %w", err)
	}
	return nil
}

// SendSimple sends a simple notification with title and body
func (n *Notifier) SendSimple(title, body string) error {
	return n.Send(Notification{
		Title:   title,
		Body:    body,
		Urgency: UrgencyNormal,
		Timeout: 5 * time.Second,
	})
}

// SendDueReminder sends a task due reminder
func (n *Notifier) SendDueReminder(taskTitle string, dueIn time.Duration) error {
	var body string
	if dueIn <= 0 {
		body = "Task is now overdue!"
	} else if dueIn < time.Hour {
		body = "Task due in less than an hour"
	} else {
		body = fmt.Sprintf("Task due in %s", roundHours(dueIn))
	}

	urgency := UrgencyNormal
	if dueIn <= 0 {
		urgency = UrgencyCritical
	}

	return n.Send(Notification{
		Title:   taskTitle,
		Body:    body,
		Urgency: urgency,
		Timeout: 15 * time.Second,
		Icon:    "emblem-important-symbolic",
	})
}

// SendReminderSummary sends one notification summarizing the reminder counts.
// Nothing is sent when all counts are zero.
func (n *Notifier) SendReminderSummary(overdue, dueToday, dueSoon int) error {
	var parts []string
	if overdue > 0 {
		parts = append(parts, fmt.Sprintf("%d overdue", overdue))
	}
	if dueToday > 0 {
		parts = append(parts, fmt.Sprintf("%d due today", dueToday))
	}
	if dueSoon > 0 {
		parts = append(parts, fmt.Sprintf("%d due soon", dueSoon))
	}
	if len(parts) == 0 {
		return nil
	}

	urgency := UrgencyNormal
	if overdue > 0 {
		urgency = UrgencyCritical
	}

	return n.Send(Notification{
		Title:   "Task reminders",
		Body:    strings.Join(parts, ", "),
		Urgency: urgency,
		Timeout: 10 * time.Second,
		Icon:    "appointment-soon-symbolic",
	})
}

func roundHours(d time.Duration) string {
	h := int(d.Round(time.Hour) / time.Hour)
	if h == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", h)
}
