// Package logging constructs the zap loggers shared by every subsystem.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a named, subsystem-scoped logger. Debug selects a
// development encoder (colored level, caller) over the production one.
func New(name string, debug bool) *zap.Logger {
	var (
		cfg zap.Config
		err error
	)

	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}

	l, err := cfg.Build()
	if err != nil {
		// logger construction only fails on an invalid static config,
		// which never happens here — fall back rather than panic.
		l = zap.NewNop()
	}

	return l.Named(name)
}

// Nop returns a discarding logger, used as the zero value in tests.
func Nop() *zap.Logger {
	return zap.NewNop()
}
