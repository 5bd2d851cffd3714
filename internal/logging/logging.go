// Package logging builds the run logger. Diagnostics use five named
// verbosity levels on top of log/slog; there is no global logger, the
// caller passes the returned *slog.Logger down explicitly.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/san-kum/ecosim/internal/bgc"
)

// Level is a named verbosity.
type Level int

const (
	LevelSilent Level = iota
	LevelError
	LevelWarning
	LevelProgress
	LevelDetail
	LevelDiagnostic
)

// Slog levels for the named verbosities. Progress is Info.
const (
	SlogDetail     = slog.LevelDebug
	SlogDiagnostic = slog.LevelDebug - 4
)

var levelNames = map[Level]string{
	LevelSilent:     "silent",
	LevelError:      "error",
	LevelWarning:    "warning",
	LevelProgress:   "progress",
	LevelDetail:     "detail",
	LevelDiagnostic: "diagnostic",
}

func (l Level) String() string {
	if s, ok := levelNames[l]; ok {
		return s
	}
	return "unknown"
}

// ParseLevel accepts the names used in configuration.
func ParseLevel(s string) (Level, error) {
	for l, name := range levelNames {
		if strings.EqualFold(s, name) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown log level %q", bgc.ErrInvalidConfig, s)
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelError:
		return slog.LevelError
	case LevelWarning:
		return slog.LevelWarn
	case LevelProgress:
		return slog.LevelInfo
	case LevelDetail:
		return SlogDetail
	case LevelDiagnostic:
		return SlogDiagnostic
	}
	return slog.LevelError + 4
}

// levelLabel renders slog levels with the verbosity names.
func levelLabel(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "ERROR"
	case l >= slog.LevelWarn:
		return "WARNING"
	case l >= slog.LevelInfo:
		return "PROGRESS"
	case l >= SlogDetail:
		return "DETAIL"
	}
	return "DIAGNOSTIC"
}

// New returns a logger writing to w in "text" or "json" format.
func New(w io.Writer, level Level, format string) *slog.Logger {
	if level == LevelSilent {
		return Discard()
	}
	opts := &slog.HandlerOptions{
		Level: level.slogLevel(),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey && len(groups) == 0 {
				if l, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(levelLabel(l))
				}
			}
			return a
		},
	}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Open builds a logger from configuration values. An empty path logs to
// stderr. The returned closer must be called when the run ends.
func Open(levelName, format, path string) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(levelName)
	if err != nil {
		return nil, nil, err
	}
	if path == "" {
		return New(os.Stderr, level, format), nopCloser{}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, &bgc.IOError{Op: "open log", Path: path, Err: err}
	}
	return New(f, level, format), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Discard drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
