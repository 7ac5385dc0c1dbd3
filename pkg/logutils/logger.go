package logutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/colonyops/tada/internal/core/logging"
)

// New returns a new logger that writes JSON to the specified file.
// If file is empty, logs are written to stderr in console format so they
// stay readable next to command output.
//
// The level parameter can be one of: debug, info, warn, error, fatal.
func New(level string, file string) (zerolog.Logger, func(), error) {
	closer := func() {}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, closer, err
	}

	var writer io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	if file != "" {
		logsDir := filepath.Dir(file)
		if err := os.MkdirAll(logsDir, 0o755); err != nil {
			return zerolog.Logger{}, closer, fmt.Errorf("create logs dir: %w", err)
		}

		osFile, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Logger{}, closer, err
		}
		closer = func() { _ = osFile.Close() }
		writer = osFile
	}

	return NewWithWriter(lvl, writer), closer, nil
}

// NewWithWriter builds the application logger on an arbitrary writer.
func NewWithWriter(lvl zerolog.Level, w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		Hook(logging.ContextHook{}).
		With().
		Timestamp().
		Logger().
		Level(lvl)
}
