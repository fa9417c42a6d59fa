// Package reminder periodically checks the task list for overdue and
// upcoming tasks and reports them.
package reminder

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dori/tickle/internal/model"
)

// Defaults used when the poller is not configured otherwise.
const (
	DefaultInterval     = time.Minute
	DefaultDueSoonHours = 24
)

// Source is the task view the poller reads from
type Source interface {
	OverdueTasks() []model.Task
	DueTodayTasks() []model.Task
	DueSoonTasks(hours int) []model.Task
	Now() time.Time
}

// Notifier delivers desktop notifications
type Notifier interface {
	SendDueReminder(title string, dueIn time.Duration) error
	SendReminderSummary(overdue, dueToday, dueSoon int) error
}

// Report is the result of one reminder check
type Report struct {
	At            time.Time
	Overdue       int
	DueToday      int
	DueSoon       int
	OverdueTitles []string
	DueSoonTitles []string
}

// Empty reports whether nothing needs attention
func (r Report) Empty() bool {
	return r.Overdue == 0 && r.DueToday == 0 && r.DueSoon == 0
}

// Sink receives every report
type Sink func(Report)

// Poller checks a Source on a fixed interval
type Poller struct {
	src      Source
	interval time.Duration
	hours    int
	sink     Sink
	notifier Notifier
	logger   *log.Logger

	mu       sync.Mutex
	notified map[notifyKey]struct{}
	last     Report
}

// notifyKey identifies one due occurrence; changing the due time re-arms it
type notifyKey struct {
	id  int
	due int64
}

// Option configures a Poller
type Option func(*Poller)

// WithInterval sets how often the poller checks
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithDueSoonHours sets the due-soon look-ahead window
func WithDueSoonHours(hours int) Option {
	return func(p *Poller) {
		if hours > 0 {
			p.hours = hours
		}
	}
}

// WithSink sets the report callback
func WithSink(sink Sink) Option {
	return func(p *Poller) { p.sink = sink }
}

// WithNotifier enables desktop notifications
func WithNotifier(n Notifier) Option {
	return func(p *Poller) { p.notifier = n }
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(p *Poller) {
		if logger != nil {
			p.logger = logger.WithPrefix("reminder")
		}
	}
}

// New creates a poller over src
func New(src Source, opts ...Option) *Poller {
	p := &Poller{
		src:      src,
		interval: DefaultInterval,
		hours:    DefaultDueSoonHours,
		logger:   log.New(io.Discard),
		notified: make(map[notifyKey]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Interval returns the check interval
func (p *Poller) Interval() time.Duration { return p.interval }

// Last returns the most recent report
func (p *Poller) Last() Report {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Run checks immediately and then on every tick until ctx is cancelled
func (p *Poller) Run(ctx context.Context) {
	p.logger.Debug("poller started", "interval", p.interval, "due_soon_hours", p.hours)
	p.Check()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("poller stopped")
			return
		case <-ticker.C:
			p.Check()
		}
	}
}

// Check runs one reminder pass and returns its report
func (p *Poller) Check() Report {
	now := p.src.Now()
	overdue := p.src.OverdueTasks()
	today := p.src.DueTodayTasks()
	soon := p.src.DueSoonTasks(p.hours)

	report := Report{
		At:            now,
		Overdue:       len(overdue),
		DueToday:      len(today),
		DueSoon:       len(soon),
		OverdueTitles: titles(overdue),
		DueSoonTitles: titles(soon),
	}

	p.mu.Lock()
	p.last = report
	fresh := p.claimLocked(now, overdue, soon)
	p.mu.Unlock()

	if !report.Empty() {
		p.logger.Info("reminders", "overdue", report.Overdue, "due_today", report.DueToday, "due_soon", report.DueSoon)
	}
	p.notify(report, fresh)

	if p.sink != nil {
		p.sink(report)
	}
	return report
}

type pending struct {
	title string
	dueIn time.Duration
}

// claimLocked returns tasks not yet notified for their current due time and
// forgets tasks that no longer appear in any list
func (p *Poller) claimLocked(now time.Time, lists ...[]model.Task) []pending {
	var out []pending
	live := make(map[notifyKey]struct{})
	for _, list := range lists {
		for _, t := range list {
			if t.Due == nil {
				continue
			}
			key := notifyKey{id: t.ID, due: t.Due.Unix()}
			live[key] = struct{}{}
			if _, seen := p.notified[key]; seen {
				continue
			}
			p.notified[key] = struct{}{}
			out = append(out, pending{title: t.Title, dueIn: t.Due.Sub(now)})
		}
	}
	for key := range p.notified {
		if _, ok := live[key]; !ok {
			delete(p.notified, key)
		}
	}
	return out
}

func (p *Poller) notify(report Report, fresh []pending) {
	if p.notifier == nil || len(fresh) == 0 {
		return
	}

	// A burst of new reminders collapses into one summary
	if len(fresh) > 3 {
		if err := p.notifier.SendReminderSummary(report.Overdue, report.DueToday, report.DueSoon); err != nil {
			p.logger.Warn("summary notification failed", "err", err)
		}
		return
	}
	for _, f := range fresh {
		if err := p.notifier.SendDueReminder(f.title, f.dueIn); err != nil {
			p.logger.Warn("notification failed", "title", f.title, "err", err)
			return
		}
	}
}

func titles(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}
