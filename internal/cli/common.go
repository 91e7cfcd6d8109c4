package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bactool/internal/config"
	"bactool/internal/entity"
	"bactool/internal/record"
	"bactool/internal/store"
	"bactool/pkg/logging"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Session is what a command works with: configuration, store and registry.
type Session struct {
	Config   config.BactoolConfig
	Store    *store.SQLStore
	Registry *record.Registry
	Flags    *CommandFlags
}

// InitLogging sets up CLI logging from the flags and configured level.
func InitLogging(flags *CommandFlags, cfg config.BactoolConfig) {
	level, _ := logging.ParseLevel(cfg.LogLevel)
	switch {
	case flags.Debug:
		level = logging.LevelDebug
	case flags.Quiet && level < logging.LevelWarn:
		level = logging.LevelWarn
	}
	logging.InitForCLI(level, os.Stderr)
}

// OpenSession loads the configuration, opens the store and makes sure every
// entity table exists.
func OpenSession(ctx context.Context, flags *CommandFlags) (*Session, error) {
	if flags.Debug {
		logging.InitForCLI(logging.LevelDebug, os.Stderr)
	}
	cfg, err := config.LoadConfig(flags.ConfigPath)
	if err != nil {
		return nil, err
	}
	InitLogging(flags, cfg)

	if flags.DBDriver != "" {
		cfg.Database.Driver = flags.DBDriver
	}
	if flags.DBDSN != "" {
		cfg.Database.DSN = flags.DBDSN
	}

	if cfg.Database.Driver == config.DriverSQLite && cfg.Database.DSN != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.DSN), 0o750); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	st, err := store.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	reg := entity.NewRegistry(st)
	if err := st.EnsureSchema(ctx, reg.DDL()...); err != nil {
		st.Close()
		return nil, err
	}
	return &Session{Config: cfg, Store: st, Registry: reg, Flags: flags}, nil
}

// Close releases the store.
func (s *Session) Close() error {
	return s.Store.Close()
}

// WithProgress runs fn while a spinner shows msg, unless quiet is set.
func WithProgress(quiet bool, msg string, fn func() error) error {
	if quiet {
		return fn()
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + msg
	s.Start()
	err := fn()
	if err != nil {
		s.FinalMSG = text.FgRed.Sprint("Failed: "+msg) + "\n"
	}
	s.Stop()
	return err
}

// FormatError formats an error message for CLI output
func FormatError(err error) string {
	return fmt.Sprintf("Error: %v", err)
}

// FormatSuccess formats a success message for CLI output
func FormatSuccess(msg string) string {
	return fmt.Sprintf("✓ %s", msg)
}

// FormatWarning formats a warning message for CLI output
func FormatWarning(msg string) string {
	return fmt.Sprintf("⚠ %s", msg)
}
