// Package app wires configuration, logging, the task manager, the
// reporting mirror and the reminder poller into one application.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/dori/tickle/internal/config"
	"github.com/dori/tickle/internal/db"
	"github.com/dori/tickle/internal/logging"
	"github.com/dori/tickle/internal/manager"
	"github.com/dori/tickle/internal/notify"
	"github.com/dori/tickle/internal/reminder"
)

// LockFileName is the instance lock inside the data directory
const LockFileName = "tickle.lock"

// App holds the application state and dependencies
type App struct {
	Config    *config.Config
	Manager   *manager.Manager
	Mirror    *db.DB
	Notifier  *notify.Notifier
	Logger    *log.Logger
	SessionID string
	DataDir   string

	// Primary is true when this process holds the instance lock. Only the
	// primary instance sends desktop notifications.
	Primary bool

	clock    func() time.Time
	logFile  *logging.FileLogger
	lockFile *flock.Flock

	mu     sync.Mutex
	poller *reminder.Poller
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures an App
type Option func(*App)

// WithClock replaces time.Now for the manager and poller
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.clock = now }
}

// WithNotifyRunner replaces the notify-send runner
func WithNotifyRunner(run notify.Runner) Option {
	return func(a *App) { a.Notifier = notify.NewNotifier(run) }
}

// New creates a new application instance
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	app := &App{
		Config:    cfg,
		DataDir:   cfg.DataDir,
		SessionID: uuid.NewString(),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.Notifier == nil {
		app.Notifier = notify.NewNotifier(nil)
	}

	logFile, err := logging.OpenFile(cfg.DataDir, cfg.LogOptions())
	if err != nil {
		return nil, err
	}
	app.logFile = logFile
	app.Logger = logFile.With("session", shortID(app.SessionID))

	if err := app.acquireLock(); err != nil {
		logFile.Close()
		return nil, err
	}
	app.Notifier.SetEnabled(cfg.Notifications && app.Primary)

	mirror, err := db.Open()
	if err != nil {
		app.releaseLock()
		logFile.Close()
		return nil, fmt.Errorf("failed to open reporting mirror: %w", err)
	}
	app.Mirror = mirror

	app.Manager = manager.New(
		manager.WithClock(app.clock),
		manager.WithLogger(app.Logger),
		manager.WithSortMode(cfg.SortMode()),
	)

	app.Logger.Info("started",
		"data_dir", cfg.DataDir,
		"config", cfg.ConfigFile,
		"primary", app.Primary,
		"notifications", app.Notifier.IsEnabled(),
	)
	return app, nil
}

// acquireLock takes the instance lock if it is free. A second instance
// still runs but is not primary.
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.DataDir, LockFileName)
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	a.Primary = locked
	if !locked {
		a.Logger.Warn("another instance holds the lock; notifications disabled", "owner", LockOwner(a.DataDir))
		return nil
	}

	owner := fmt.Sprintf("%s %d\n", a.SessionID, os.Getpid())
	if err := os.WriteFile(lockPath, []byte(owner), 0644); err != nil {
		a.Logger.Warn("could not record lock owner", "err", err)
	}
	return nil
}

// LockOwner returns the session id recorded in the lock file, if any
func LockOwner(dataDir string) string {
	data, err := os.ReadFile(filepath.Join(dataDir, LockFileName))
	if err != nil {
		return ""
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// releaseLock releases the file lock and closes its handle
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Close()
	}
}

// StartReminders starts the reminder poller in the background. Reports are
// passed to sink, which may be nil.
func (a *App) StartReminders(ctx context.Context, sink reminder.Sink) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.poller != nil {
		return
	}

	a.poller = reminder.New(a.Manager,
		reminder.WithInterval(a.Config.Reminder),
		reminder.WithDueSoonHours(a.Config.DueSoonHours),
		reminder.WithNotifier(a.Notifier),
		reminder.WithLogger(a.Logger),
		reminder.WithSink(sink),
	)

	ctx, a.cancel = context.WithCancel(ctx)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.poller.Run(ctx)
	}()
}

// LastReport returns the poller's latest report, or an empty one before
// the poller has run
func (a *App) LastReport() reminder.Report {
	a.mu.Lock()
	p := a.poller
	a.mu.Unlock()
	if p == nil {
		return reminder.Report{}
	}
	return p.Last()
}

// Close stops the poller and cleans up application resources
func (a *App) Close() error {
	a.mu.Lock()
	cancel := a.cancel
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	a.wg.Wait()

	var errs []error

	if a.Mirror != nil {
		if err := a.Mirror.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close mirror: %w", err))
		}
	}

	a.releaseLock()

	if a.Logger != nil {
		a.Logger.Info("stopped")
	}
	if err := a.logFile.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close log file: %w", err))
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
