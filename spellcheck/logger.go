package spellcheck

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

// Logger returns the spellcheck package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	logger.CompareAndSwap(nil, zap.NewNop())
	return logger.Load()
}

// SetLogger configures the spellcheck package's default logger. A nil logger is ignored.
// Call it before any Runtime is created; WithLogger overrides it per runtime.
func SetLogger(l *zap.Logger) {
	if l == nil {
		return
	}
	logger.Store(l)
}
