// internal/logging/logging.go
package logging

import (
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"renovrisk/internal/config"
)

// New builds a logger writing to w. Unknown levels fall back to info; quiet
// raises the floor to warn so only problems reach stderr.
func New(cfg config.Log, quiet bool, w io.Writer) *zap.Logger {
	level := zapcore.InfoLevel
	if err := level.Set(strings.ToLower(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}
	if quiet && level < zapcore.WarnLevel {
		level = zapcore.WarnLevel
	}

	ec := zap.NewProductionEncoderConfig()
	var enc zapcore.Encoder
	if strings.EqualFold(cfg.Encoding, "json") {
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(ec)
	} else {
		ec = zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(ec)
	}

	opts := []zap.Option{zap.ErrorOutput(zapcore.AddSync(w))}
	if cfg.Development {
		opts = append(opts, zap.Development(), zap.AddCaller())
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), zap.NewAtomicLevelAt(level))
	return zap.New(core, opts...)
}
