// Package logging builds the process logger: human-readable console output on
// stderr plus an optional size-rotated JSON file.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls New.
type Options struct {
	Level string
	File  string
	// Console is where human-readable output goes, os.Stderr when nil.
	Console io.Writer
}

// New returns the root logger and a function closing the log file, if any.
func New(opts Options) (zerolog.Logger, func() error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	var w io.Writer = zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339}
	closer := func() error { return nil }

	if opts.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		w = zerolog.MultiLevelWriter(w, file)
		closer = file.Close
	}

	logger := zerolog.New(w).Level(ParseLevel(opts.Level)).With().Timestamp().Logger()
	return logger, closer
}

// ParseLevel maps a config value to a level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
