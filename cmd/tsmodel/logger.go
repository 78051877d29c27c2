package main

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sartorproj/gotsmodel/config"
)

// newLogger builds a development logger for console output and a
// production logger for json output.
func newLogger(c config.LoggingConfig) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if c.Format == "json" {
		cfg = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(c.Level)
	if err != nil {
		return nil, err
	}
	cfg.Level = level
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableCaller = true

	return cfg.Build()
}
