// Package logging builds the charmbracelet/log logger shared by the store,
// the session and the CLI.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Options holds configuration for the logger.
type Options struct {
	Level  string
	Format string // text, json or logfmt
	File   string // empty discards output; the TUI owns the terminal
	Prefix string
}

// New returns a logger and a closer for its sink.
func New(opts Options) (*log.Logger, io.Closer, error) {
	level, err := log.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	var (
		w      io.Writer = io.Discard
		closer io.Closer = nopCloser{}
	)
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "todo"
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter(opts.Format),
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	return logger, closer, nil
}

func formatter(name string) log.Formatter {
	switch strings.ToLower(name) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
