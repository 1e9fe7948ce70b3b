// Package obslog provides the engine's structured logger and a helper for
// accumulating recoverable parse errors without ever failing a frame.
package obslog

import (
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	mu  sync.Mutex
	log *zap.Logger
)

// L returns the process-wide logger, building a sane production default on
// first use.
func L() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if log == nil {
		cfg := zap.NewProductionConfig()
		cfg.DisableStacktrace = true
		built, err := cfg.Build()
		if err != nil {
			built = zap.NewNop()
		}
		log = built
	}
	return log
}

// SetLogger overrides the process-wide logger, e.g. to install a
// development config from the CLI.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

// ErrorList accumulates recoverable parse errors (HTML or CSS). It is never
// fatal: callers append to it and keep going, per the spec's "parse error
// (recoverable)" error kind.
type ErrorList struct {
	err error
}

// Add records a recoverable error, fired off to the logger as a debug event
// and folded into the accumulated multierr.
func (e *ErrorList) Add(err error) {
	if err == nil {
		return
	}
	e.err = multierr.Append(e.err, err)
	L().Sugar().Debugw("recoverable parse error", "error", err)
}

// Err returns the accumulated errors, or nil if none were recorded.
func (e *ErrorList) Err() error {
	return e.err
}

// Len reports how many errors have accumulated.
func (e *ErrorList) Len() int {
	return len(multierr.Errors(e.err))
}
