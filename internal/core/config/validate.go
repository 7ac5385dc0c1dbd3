package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"slices"
	"time"

	"github.com/hay-kot/criterio"
)

// DefaultTheme is the theme used when none is configured.
const DefaultTheme = "tokyo-night"

// Themes lists the built-in TUI theme names.
var Themes = []string{"gruvbox", "tokyo-night"}

// Validate checks that the configuration is valid. Every invalid field is
// reported; the error unwraps to criterio.FieldErrors.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder
	check := func(field string, err error) {
		if err != nil {
			errs = errs.Append(field, err)
		}
	}

	check("toast.mode", validMode(c.Toast.Mode))
	check("toast.delay", positiveDuration(c.Toast.Delay))
	check("database.max_open_conns", atLeastOne(c.Database.MaxOpenConns))
	check("database.max_idle_conns", nonNegative(c.Database.MaxIdleConns))
	check("database.busy_timeout", nonNegative(c.Database.BusyTimeout))
	check("server.shutdown_timeout", positiveDuration(c.Server.ShutdownTimeout))

	return criterio.ValidateStruct(
		criterio.Run("data_dir", c.DataDir, dataDir),
		criterio.Run("server.addr", c.Server.Addr, hostPort),
		criterio.Run("tui.theme", c.TUI.Theme, knownTheme),
		errs.ToError(),
	)
}

func dataDir(path string) error {
	if err := notEmpty(path); err != nil {
		return err
	}
	return isDirectoryOrNotExist(path)
}

func notEmpty(s string) error {
	if s == "" {
		return errors.New("cannot be empty")
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return errors.New("exists but is not a directory")
	}
	return nil
}

func validMode(m ToastMode) error {
	if !m.IsValid() {
		return fmt.Errorf("must be %q or %q, got %q", ToastModeQueue, ToastModeSlot, m)
	}
	return nil
}

func positiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("must be positive, got %s", d)
	}
	return nil
}

func atLeastOne(n int) error {
	if n < 1 {
		return fmt.Errorf("must be at least 1, got %d", n)
	}
	return nil
}

func nonNegative(n int) error {
	if n < 0 {
		return fmt.Errorf("must not be negative, got %d", n)
	}
	return nil
}

func hostPort(addr string) error {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("invalid address %q: %w", addr, err)
	}
	return nil
}

func knownTheme(name string) error {
	if !slices.Contains(Themes, name) {
		return fmt.Errorf("unknown theme %q", name)
	}
	return nil
}
