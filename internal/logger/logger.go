// Package logger provides run logging and crash recovery for qutimport.
package logger

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// New builds the run logger. Every record carries the run id so output of
// separate invocations against one tree can be told apart.
func New(w io.Writer, verbose bool) (*slog.Logger, string) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	runID := uuid.NewString()
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	SetRunID(runID)
	return slog.New(h).With("run", runID[:8]), runID
}
