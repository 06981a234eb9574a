// Package logger owns the process-wide zap logger.
package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugEnv switches the logger to the development configuration when set.
const DebugEnv = "TERRASHADE_DEBUG"

// Log is usable before Init is called; it discards everything until then.
var Log = zap.NewNop()

var once sync.Once

// Init builds the shared logger. Subsequent calls are no-ops.
func Init() {
	once.Do(func() {
		var cfg zap.Config
		if os.Getenv(DebugEnv) != "" {
			cfg = zap.NewDevelopmentConfig()
		} else {
			cfg = zap.NewProductionConfig()
			cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		}

		l, err := cfg.Build()
		if err != nil {
			// Fall back to a plain console logger
			l = zap.NewExample()
		}
		Log = l
	})
}

// Sync flushes buffered entries. Errors from syncing stderr on some
// platforms are ignored.
func Sync() {
	_ = Log.Sync()
}
