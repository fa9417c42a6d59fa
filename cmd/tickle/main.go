package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/dori/tickle/internal/app"
	"github.com/dori/tickle/internal/config"
	"github.com/dori/tickle/internal/menu"
	"github.com/dori/tickle/internal/reminder"
	"github.com/dori/tickle/internal/ui"
	"github.com/dori/tickle/internal/ui/theme"
)

var (
	version = "0.1.0"
)

func main() {
	// Subcommand handling
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("tickle v%s\n", version)
			return
		case "help", "-h", "--help":
			printHelp()
			return
		}
	}

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	help := `tickle - an in-memory todo tracker with reminders

Usage:
  tickle [flags]            Start the TUI (or the plain menu without a terminal)
  tickle version            Show version
  tickle help               Show this help

Flags:
  --plain                   Use the numbered text menu
  --theme <name>            Theme (nord, dracula)
  --sort <mode>             Initial sort (id, priority, title, status, due_date)
  --config <file>           Config file (default ~/.config/tickle/tickle.toml)
  --data-dir <dir>          Directory for the log file and instance lock
  --reminder-interval <d>   How often to check for due tasks (default 60s)
  --due-soon-hours <n>      Due-soon window in hours (default 24)
  --no-notify               Disable desktop notifications
  --log-level <level>       debug, info, warn, error
  --log-format <format>     text, json, logfmt

Quick Add Syntax (TUI 'a', menu option 2):
  Review PR @work !high due:tomorrow at:14:00
  Pay rent @bills due:2024-07-01 every:monthly

  Tags:      @tag
  Priority:  !low !medium !high (or !l !m !h)
  Due date:  due:today due:tomorrow due:friday due:next-week due:2024-01-15
  Time:      at:HH:MM
  Repeats:   every:daily every:weekly every:monthly

Tasks live in memory only and are gone when tickle exits.`

	fmt.Println(help)
}

func run(args []string) error {
	fs := flag.NewFlagSet("tickle", flag.ContinueOnError)
	cfg, err := config.Load(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	application, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	var startupErr error
	if !theme.SetByName(cfg.Theme) {
		application.Logger.Warn("unknown theme, using default", "theme", cfg.Theme, "default", theme.Current.Theme.Name)
		startupErr = fmt.Errorf("unknown theme %q, using %s", cfg.Theme, theme.Current.Theme.Name)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Plain || !isatty.IsTerminal(os.Stdin.Fd()) {
		if startupErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", startupErr)
		}
		return runMenu(ctx, application)
	}
	return runTUI(ctx, application, startupErr)
}

func runMenu(ctx context.Context, application *app.App) error {
	application.StartReminders(ctx, nil)

	m := menu.New(application.Manager, os.Stdin, os.Stdout,
		menu.WithMirror(application.Mirror),
		menu.WithReport(application.LastReport),
		menu.WithDueSoonHours(application.Config.DueSoonHours),
		menu.WithLogger(application.Logger),
	)
	return m.Run(ctx)
}

func runTUI(ctx context.Context, application *app.App, startupErr error) error {
	p := tea.NewProgram(
		ui.NewRootModel(application),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	application.StartReminders(ctx, func(r reminder.Report) {
		p.Send(ui.ReminderMsg{Report: r})
	})
	if startupErr != nil {
		// Send blocks until the event loop is running
		go p.Send(ui.ErrorMsg{Err: startupErr})
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
