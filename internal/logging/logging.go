package logging

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// New opens the client log at <dir>/lostaf.log. The TUI owns the terminal,
// so nothing is ever written to stdout/stderr; when the file cannot be
// opened the logger discards everything.
func New(dir string) zerolog.Logger {
	level := parseLevel(os.Getenv("LOSTAF_LOG"))

	f, err := os.OpenFile(filepath.Join(dir, "lostaf.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop()
	}
	return zerolog.New(f).Level(level).With().Timestamp().Logger()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "":
		return zerolog.InfoLevel
	default:
		return zerolog.InfoLevel
	}
}
