// Package logger builds the process-wide zap logger.
package logger

import (
	"go.uber.org/zap"
)

// New returns a JSON production logger when production is set and a
// human-readable development logger otherwise.
func New(production bool) (*zap.Logger, error) {
	if production {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
