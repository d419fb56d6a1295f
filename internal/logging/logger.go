// Package logging builds the zap loggers used by the sift adapters.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings.
const (
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldRoute      = "route"
	FieldStatus     = "status"
	FieldDurationMS = "duration_ms"
	FieldAddress    = "address"
	FieldBackend    = "backend"
	FieldCount      = "count"
	FieldID         = "id"
	FieldQuery      = "query"
	FieldError      = "error"
)

// New creates a logger at the given level.
//
// JSON output uses zap's production encoder for machine consumption.
// Otherwise a console encoder with short timestamps is used.
func New(level string, jsonOutput bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	var cfg zap.Config
	if jsonOutput {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}

// Must is like New but panics on error.
// Use only with levels known to be valid.
func Must(level string, jsonOutput bool) *zap.Logger {
	l, err := New(level, jsonOutput)
	if err != nil {
		panic(err)
	}
	return l
}
