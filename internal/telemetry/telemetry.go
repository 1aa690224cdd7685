// Package telemetry wraps a standard log.Logger behind a small interface,
// generalising the teacher's scattered Verbose-bool-gated fmt.Printf
// calls (e.g. SimulatedAnnealingConfig.Verbose, sampling/ensemble.go's
// progress prints) into one dependency the sampler takes instead of a
// config flag.
package telemetry

import (
	"io"
	"log"
)

// Logger is the narrow surface the sampler needs: progress narration,
// nothing structured.
type Logger interface {
	Progress(format string, args ...any)
}

type stdLogger struct {
	l *log.Logger
}

// NewStdLogger wraps a *log.Logger writing to w (use os.Stderr for a
// verbose CLI run, io.Discard for silent library use).
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{l: log.New(w, "", log.LstdFlags)}
}

func (s *stdLogger) Progress(format string, args ...any) {
	s.l.Printf(format, args...)
}

// Discard is the default logger: every call is a no-op.
var Discard Logger = discardLogger{}

type discardLogger struct{}

func (discardLogger) Progress(string, ...any) {}
