package main

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logDev  = "dev"
	logProd = "prod"
	logNone = "none"
)

// newLogger builds a development or production logger with ISO8601 timestamps under the
// ts key and no caller annotations
func newLogger(kind string) (*zap.Logger, error) {
	var cfg zap.Config
	switch kind {
	case logDev:
		cfg = zap.NewDevelopmentConfig()
	case logProd:
		cfg = zap.NewProductionConfig()
	case logNone:
		return zap.NewNop(), nil
	default:
		return nil, fmt.Errorf("unknown log format %q, expected one of %s, %s or %s", kind, logDev, logProd, logNone)
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableCaller = true

	return cfg.Build()
}
