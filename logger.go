package main

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger returns a structured JSON slog.Logger with the given level.
// When logFile is set, records are also written to a size-rotated file.
func NewLogger(level slog.Leveler, logFile string) (*slog.Logger, io.Closer) {
	var out io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}
	if logFile != "" {
		rotating := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, rotating)
		closer = rotating
	}
	h := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	return slog.New(h), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
