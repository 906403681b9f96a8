// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects log level and destination.
type Options struct {
	Level string
	// File, when set, receives logs through a size-rotated writer.
	File string
	// Quiet discards logs that have no file to go to, for full-screen UIs.
	Quiet bool
}

// Setup applies opts to the standard logger and returns the writer it logs to.
func Setup(opts Options) (io.Writer, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		lvl, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = lvl
	}

	var out io.Writer = os.Stderr
	switch {
	case opts.File != "":
		out = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
		}
	case opts.Quiet:
		out = io.Discard
	}

	log.SetLevel(level)
	log.SetOutput(out)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	return out, nil
}
