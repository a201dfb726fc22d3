// Package logger provides the process slog handler: records go to a console writer, are
// appended to a log file, and the most recent lines are kept in memory for the HTTP API.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LogFilePath is the default log file, relative to the working directory.
const LogFilePath = "logs/sim.txt"

// DefaultKeep is the number of lines kept in memory by New.
const DefaultKeep = 1000

// Options configures New.
type Options struct {
	// Console receives every record; nil means os.Stderr.
	Console io.Writer
	// File is the log file path. Empty disables the file.
	File string
	// Level is the minimum level handled.
	Level slog.Leveler
	// Keep bounds the in-memory history. Zero means DefaultKeep.
	Keep int
	// JSON selects slog's JSON format instead of text.
	JSON bool
}

// Logger is a slog.Handler tee with an in-memory line buffer.
type Logger struct {
	*slog.Logger
	sink *sink
}

// sink is shared by every handler derived through WithAttrs/WithGroup.
type sink struct {
	mu      sync.Mutex
	console io.Writer
	file    *os.File
	lines   []string
	keep    int
}

func (s *sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.console.Write(p)
	if s.file != nil {
		_, _ = s.file.Write(p)
	}
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		s.lines = append(s.lines, line)
	}
	if over := len(s.lines) - s.keep; over > 0 {
		s.lines = append(s.lines[:0], s.lines[over:]...)
	}
	return len(p), nil
}

// New returns a Logger. The log directory is created if needed; a file that cannot be
// opened is reported and the logger keeps working without it.
func New(opts Options) (*Logger, error) {
	s := &sink{console: opts.Console, keep: opts.Keep}
	if s.console == nil {
		s.console = os.Stderr
	}
	if s.keep <= 0 {
		s.keep = DefaultKeep
	}
	var ferr error
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			ferr = err
		} else if f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); err != nil {
			ferr = err
		} else {
			s.file = f
		}
	}
	hopts := &slog.HandlerOptions{Level: opts.Level}
	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(s, hopts)
	} else {
		h = slog.NewTextHandler(s, hopts)
	}
	return &Logger{Logger: slog.New(h), sink: s}, ferr
}

// Discard returns a Logger that writes nowhere but still records Lines.
func Discard() *Logger {
	l, _ := New(Options{Console: io.Discard})
	return l
}

// Lines returns a copy of the stored lines, oldest first.
func (l *Logger) Lines() []string {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	out := make([]string, len(l.sink.lines))
	copy(out, l.sink.lines)
	return out
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	if l.sink.file == nil {
		return nil
	}
	err := l.sink.file.Close()
	l.sink.file = nil
	return err
}
