package main

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/tischda/chordkeys/internal/logging"
)

// logger is shared by the daemon, the watcher and the Windows service.
var logger = zerolog.Nop()

// setupLogging builds the logger for both service and console mode. It
// writes to s.LogFile when set, otherwise to out (stdout when nil).
//
// Returns:
//   - io.Closer: The opened log file, nil when logging to out.
//   - error: Non-nil if the log file cannot be created.
func setupLogging(s Settings, out io.Writer) (io.Closer, error) {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(s.LogLevel)
	if s.LogFormat != "" {
		cfg.Format = s.LogFormat
	}
	cfg.Path = s.LogFile
	cfg.Out = out
	l, closer, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}
	logger = l.With().Str("app", name).Logger()
	if s.LogFile != "" {
		logger.Info().Msg("=== LOG INITIALIZED ===")
	}
	return closer, nil
}
