package main

import (
	"io"
	"log/slog"
)

// newLogger returns a silent logger unless verbose is set, in which case
// debug-level text records go to w.
func newLogger(verbose bool, w io.Writer) *slog.Logger {
	if !verbose || w == nil {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
