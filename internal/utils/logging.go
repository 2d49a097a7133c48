package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Logger *zap.Logger

func InitLogger() {
	var err error
	Logger, err = zap.NewProduction()
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
}

func GetLogger() *zap.Logger {
	if Logger == nil {
		InitLogger()
	}
	return Logger
}

// NewCLILogger builds the logger used by the terminal runner. Console output
// unless asJSON is set; debug lowers the level.
func NewCLILogger(asJSON, debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if !asJSON {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true
	}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

const maxLogLength = 120

// TruncateForLog shortens candidate text before it is logged
func TruncateForLog(s string) string {
	r := []rune(s)
	if len(r) <= maxLogLength {
		return s
	}
	return string(r[:maxLogLength]) + "..."
}
