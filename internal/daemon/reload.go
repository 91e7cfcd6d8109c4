// Package daemon asks systemd to pick up regenerated Bacula configuration.
package daemon

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-systemd/v22/dbus"

	"bactool/pkg/logging"
)

// ErrJobFailed is returned when systemd finishes a reload job with any
// result other than "done".
var ErrJobFailed = errors.New("reload job did not complete")

// Reloader reloads a service unit.
type Reloader interface {
	ReloadUnit(ctx context.Context, unit string) error
}

// unitConn is the part of the systemd D-Bus connection used here.
type unitConn interface {
	ReloadOrRestartUnitContext(ctx context.Context, name string, mode string, ch chan<- string) (int, error)
	Close()
}

// Systemd reloads units through the system bus.
type Systemd struct {
	connect func(ctx context.Context) (unitConn, error)
}

// NewSystemd returns a reloader talking to the systemd system instance.
func NewSystemd() *Systemd {
	return &Systemd{connect: func(ctx context.Context) (unitConn, error) {
		return dbus.NewWithContext(ctx)
	}}
}

// ReloadUnit reloads unit, restarting it when it cannot reload, and waits
// for the job to finish.
func (s *Systemd) ReloadUnit(ctx context.Context, unit string) error {
	if unit == "" {
		return errors.New("no unit configured")
	}

	conn, err := s.connect(ctx)
	if err != nil {
		return fmt.Errorf("connect to systemd: %w", err)
	}
	defer conn.Close()

	ch := make(chan string, 1)
	jobID, err := conn.ReloadOrRestartUnitContext(ctx, unit, "replace", ch)
	if err != nil {
		return fmt.Errorf("reload %s: %w", unit, err)
	}
	logging.Debug("Daemon", "Queued reload job %d for %s", jobID, unit)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case result := <-ch:
		if result != "done" {
			return fmt.Errorf("%w: %s finished with %q", ErrJobFailed, unit, result)
		}
	}
	logging.Info("Daemon", "Reloaded %s", unit)
	return nil
}
