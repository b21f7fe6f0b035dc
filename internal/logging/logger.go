// Package logging builds the process-wide zerolog logger: a console writer
// on stderr with TTY-aware colors, an optional append-mode file sink, and
// the level derived from verbose/quiet.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/jberkman/foilrun/internal/config"
	"github.com/jberkman/foilrun/internal/term"
)

// New returns the configured logger and a close function for the file sink
// (a no-op when no log file was requested).
func New(cfg *config.Config) (zerolog.Logger, func() error, error) {
	term.Configure(cfg.ColorMode)

	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
		NoColor:    !term.Enabled(),
	}

	var w io.Writer = console
	closer := func() error { return nil }
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return zerolog.Logger{}, nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Logger{}, nil, err
		}
		// The console gets the pretty rendering; the file keeps the raw
		// JSON lines.
		w = zerolog.MultiLevelWriter(console, f)
		closer = f.Close
	}

	level := zerolog.InfoLevel
	switch {
	case cfg.Verbose:
		level = zerolog.DebugLevel
	case cfg.Quiet:
		level = zerolog.WarnLevel
	}

	log := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return log, closer, nil
}
