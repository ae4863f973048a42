// Package difflog is the ambient structured-logging wrapper used by store
// and cmd/smartdiff. The pure core (difftypes, treeedit,
// engine) never imports it and stays side-effect free.
package difflog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production-profile *zap.Logger, switched to debug level when
// verbose is set.
func New(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

// Nop returns a logger that discards everything, for tests and library
// callers that don't want smartdiff's own logging.
func Nop() *zap.Logger {
	return zap.NewNop()
}

// Field re-exports zap.Field so callers only need one import for the common
// construction calls (String/Int/Error/Duration).
type Field = zapcore.Field

// String builds a string field.
func String(key, value string) Field { return zap.String(key, value) }

// Int builds an int field.
func Int(key string, value int) Field { return zap.Int(key, value) }

// Err builds an error field under the conventional "error" key.
func Err(err error) Field { return zap.Error(err) }
