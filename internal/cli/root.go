// Package cli wires the studyplan commands. With no subcommand it runs the
// terminal UI.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/studyplan/internal/config"
	"github.com/sadopc/studyplan/internal/store"
	"github.com/sadopc/studyplan/internal/tui"
	"github.com/spf13/cobra"
)

// app is the state shared by every command of one invocation.
type app struct {
	configPath string
	dbPath     string
	logLevel   string

	cfg     *config.Config
	store   *store.Store
	logFile *os.File

	now func() time.Time
}

func newApp() *app {
	return &app{now: time.Now}
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "studyplan",
		Short: "Plan exam revision and track focus sessions",
		Long: `studyplan turns your subjects, an exam date and a daily study budget into
a day-by-day timetable, tracks which sessions you completed and runs a
Pomodoro timer. Run it without a subcommand to open the terminal UI.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: func(*cobra.Command, []string) error { return a.close() },
		RunE:               a.runTUI,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default <config dir>/studyplan/config.yaml)")
	pf.StringVar(&a.dbPath, "db", "", "database path (overrides db_path)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newPlanCmd(a),
		newSubjectsCmd(a),
		newExamCmd(a),
		newDoneCmd(a),
		newProgressCmd(a),
		newStatsCmd(a),
		newBackupCmd(a),
		newConfigCmd(a),
	)
	return root
}

// Execute runs the CLI until ctx is cancelled or the command returns.
func Execute(ctx context.Context) error {
	a := newApp()
	root := newRootCmd(a)
	err := root.ExecuteContext(ctx)
	if err != nil {
		slog.Error("command failed", "error", err)
	}
	// Post-run hooks are skipped when a command fails.
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

// setup loads configuration, installs the file logger and opens the store.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	if err := a.openLog(); err != nil {
		return err
	}

	s, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	a.store = s
	slog.Debug("started", "command", cmd.CommandPath(), "db", cfg.DBPath)
	return nil
}

func (a *app) openLog() error {
	if a.cfg.LogFile == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(a.cfg.LogFile), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(a.cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	a.logFile = f
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: a.cfg.Level()})))
	return nil
}

// close releases the store and the log file. It is safe to call twice.
func (a *app) close() error {
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
		a.store = nil
	}
	if a.logFile != nil {
		errs = append(errs, a.logFile.Close())
		a.logFile = nil
	}
	return errors.Join(errs...)
}

func (a *app) runTUI(cmd *cobra.Command, _ []string) error {
	p := tea.NewProgram(tui.NewApp(a.store), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
