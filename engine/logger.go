package engine

import (
	"sync"

	"go.uber.org/zap"
)

var (
	loggerOnce sync.Once
	logger     *zap.Logger
)

// Logger returns the package-level logger, defaulting to a no-op logger
// until SetLogger installs one. Mirrors the bytecode and heap packages'
// logger idiom.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger installs the engine package's logger. Call before constructing
// a VM whose dispatch loop should log CALL/RETURN/TRACE activity.
func SetLogger(l *zap.Logger) {
	loggerOnce.Do(func() {})
	logger = l
}
