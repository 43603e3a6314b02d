// Package obs sets up the process-wide zap logger, grounded on
// AKJUS-oqtopus-engine/coreapp/cmd/edge/main.go's zapLogger/setZap: a
// console encoder in dev mode, a JSON encoder with an ISO8601 timestamp key
// otherwise, written to stdout.
package obs

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap.Logger for dev (human-readable console) or production
// (structured JSON) mode and installs it as the global logger via
// zap.ReplaceGlobals, so every package can log through zap.L() without
// threading a *zap.Logger through every call.
func New(dev bool) *zap.Logger {
	var encoder zapcore.Encoder
	if dev {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		c := zap.NewProductionEncoderConfig()
		c.EncodeTime = zapcore.ISO8601TimeEncoder
		c.TimeKey = "timestamp"
		encoder = zapcore.NewJSONEncoder(c)
	}

	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if dev {
		level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level)
	logger := zap.New(core, zap.AddCaller())
	zap.ReplaceGlobals(logger)
	return logger
}
