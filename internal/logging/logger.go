// Package logging sets up the process-wide slog configuration. All log
// output goes to stderr; stdout stays reserved for run reports and
// JSON-RPC framing.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New returns the application logger at the given level.
func New(level slog.Level) *slog.Logger {
	return NewAt(os.Stderr, level)
}

// NewAt builds a logger writing to w. Split out so tests can capture
// the output.
func NewAt(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: normalizeKeys,
	}))
}

// NewNop returns a logger that drops everything.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// normalizeKeys keeps attribute names consistent across packages. The
// adapters log failures under "err"; anything arriving as "error" is
// folded into the same key.
func normalizeKeys(groups []string, a slog.Attr) slog.Attr {
	if a.Key == "error" {
		a.Key = "err"
	}
	return a
}
