// Package logging builds the diagnostic logger. Output goes to stderr so
// command output on stdout stays clean.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

var levels = map[string]log.Level{
	"debug": log.DebugLevel,
	"info":  log.InfoLevel,
	"warn":  log.WarnLevel,
	"error": log.ErrorLevel,
}

var formatters = map[string]log.Formatter{
	"text":   log.TextFormatter,
	"json":   log.JSONFormatter,
	"logfmt": log.LogfmtFormatter,
}

func ParseLevel(s string) (log.Level, error) {
	if s == "" {
		return log.WarnLevel, nil
	}
	l, ok := levels[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("invalid log level %q (want debug, info, warn or error)", s)
	}
	return l, nil
}

func ParseFormatter(s string) (log.Formatter, error) {
	if s == "" {
		return log.TextFormatter, nil
	}
	f, ok := formatters[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("invalid log format %q (want text, json or logfmt)", s)
	}
	return f, nil
}

// New returns a logger writing to w. Timestamps are only reported at debug
// level.
func New(w io.Writer, level, format string) (*log.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	f, err := ParseFormatter(format)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Formatter:       f,
		ReportTimestamp: lvl == log.DebugLevel,
		Prefix:          "todomaster",
	}), nil
}
