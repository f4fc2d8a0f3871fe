package vkres

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var loggerPtr atomic.Pointer[zap.Logger]

func init() {
	loggerPtr.Store(zap.NewNop())
}

// SetLogger configures the logger used by vkres. By default nothing is
// logged. Passing nil restores the silent default.
//
// Object creation, allocation and destruction are logged at debug level,
// failed native calls at warn level.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Safe for concurrent use.
func Logger() *zap.Logger {
	return loggerPtr.Load()
}
