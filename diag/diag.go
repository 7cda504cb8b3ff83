// Package diag provides a logging and counters context threaded
// explicitly through the circuit pipeline, replacing the process-wide
// verbose/verbstr globals of the original C++ implementation with a value
// the caller owns and can have more than one of (e.g. one per test case).
package diag

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Context carries a component logger plus running counters for one
// circuit-processing session. The zero value is usable: it logs nothing,
// matching a non-verbose default run. Of the counters, only GatesCreated
// is updated (by the circuit's gate factories); nothing in this module
// increments RewritesApplied or ClausesEmitted.
type Context struct {
	log zerolog.Logger

	GatesCreated   int
	RewritesApplied int
	ClausesEmitted int
}

// New returns a Context writing to w at the given level. Pass io.Discard
// and zerolog.Disabled for a silent context (the common case in tests).
func New(w io.Writer, level zerolog.Level) *Context {
	if w == nil {
		w = io.Discard
	}
	return &Context{log: zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

// NewVerbose returns a Context writing human-readable diagnostics to
// stderr at debug level, equivalent to running with -v.
func NewVerbose() *Context {
	cw := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return &Context{log: zerolog.New(cw).Level(zerolog.DebugLevel).With().Timestamp().Logger()}
}

// Silent returns a Context that discards everything, for use where the
// caller has no logging context of its own (e.g. package-level helpers and
// tests that don't care about diagnostics).
func Silent() *Context {
	return New(io.Discard, zerolog.Disabled)
}

// Logger exposes the underlying zerolog.Logger for callers that want to
// add structured fields before logging (c.Logger().Info().Int("gate",
// idx).Msg("...")).
func (c *Context) Logger() zerolog.Logger {
	if c == nil {
		return zerolog.Nop()
	}
	return c.log
}

// Debugf logs a formatted debug-level message, a no-op unless verbose.
func (c *Context) Debugf(format string, args ...interface{}) {
	if c == nil {
		return
	}
	c.log.Debug().Msgf(format, args...)
}

// Warnf logs a formatted warning.
func (c *Context) Warnf(format string, args ...interface{}) {
	if c == nil {
		return
	}
	c.log.Warn().Msgf(format, args...)
}

// Infof logs a formatted informational message.
func (c *Context) Infof(format string, args ...interface{}) {
	if c == nil {
		return
	}
	c.log.Info().Msgf(format, args...)
}
