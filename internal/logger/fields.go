package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Structured field keys shared across packages.
const (
	FieldProvider = "ai_provider"
	FieldModel    = "ai_model"
	FieldJob      = "job_id"
	FieldRun      = "run_id"
)

// Pairs turns alternating keys and values into string fields.
// Both sides are trimmed; a pair with an empty key or value is dropped, as is a trailing key.
func Pairs(kv ...string) []zap.Field {
	fields := make([]zap.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, value := strings.TrimSpace(kv[i]), strings.TrimSpace(kv[i+1])
		if key == "" || value == "" {
			continue
		}
		fields = append(fields, zap.String(key, value))
	}
	return fields
}

// Scoped returns l with the given pairs attached. A nil l becomes a no-op logger.
func Scoped(l *zap.Logger, kv ...string) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}

	fields := Pairs(kv...)
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

// WithModel scopes a logger to a generative model.
func WithModel(l *zap.Logger, provider, model string) *zap.Logger {
	return Scoped(l, FieldProvider, provider, FieldModel, model)
}

// WithJob scopes a logger to one job of a batch run. runID may be empty.
func WithJob(l *zap.Logger, jobID, runID string) *zap.Logger {
	return Scoped(l, FieldJob, jobID, FieldRun, runID)
}
