package pool

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

// Logger returns the pool package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	logger.CompareAndSwap(nil, zap.NewNop())
	return logger.Load()
}

// SetLogger configures the pool package's default logger. A nil logger is ignored.
// Call it before any pool is created; WithLogger overrides it per pool.
func SetLogger(l *zap.Logger) {
	if l == nil {
		return
	}
	logger.Store(l)
}
