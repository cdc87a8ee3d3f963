package logger

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// LogRequest logs one completed HTTP request at a level matching its
// status. A nil log falls back to the global logger.
func LogRequest(log Logger, method, url string, statusCode int, duration time.Duration) {
	if log == nil {
		log = GetLogger()
	}

	fields := map[string]interface{}{
		"method":   method,
		"url":      url,
		"status":   statusCode,
		"duration": duration,
	}

	switch {
	case statusCode >= 500:
		log.ErrorWithFields("HTTP request server error", fields)
	case statusCode >= 400:
		log.WarnWithFields("HTTP request client error", fields)
	default:
		log.DebugWithFields("HTTP request completed", fields)
	}
}

// LogResolution logs the outcome of one animal's image resolution
func LogResolution(log Logger, name, outcome, path string, err error) {
	if log == nil {
		log = GetLogger()
	}

	fields := map[string]interface{}{
		"animal":  name,
		"outcome": outcome,
	}
	if path != "" {
		fields["path"] = path
	}

	entry := log.WithFields(fields)
	if err != nil {
		entry = entry.WithError(err)
	}

	switch outcome {
	case "failed":
		entry.Error("image resolution failed")
	case "placeholder":
		entry.Warn("image resolution fell back to placeholder")
	default:
		entry.Info("image resolved")
	}
}

// LogRateLimit logs that a worker hit the shared politeness limiter
func LogRateLimit(log Logger, resource string) {
	if log == nil {
		log = GetLogger()
	}
	log.WithField("resource", resource).Debug("rate limit reached, backing off")
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

// nopLogger is a logger that does nothing (useful for testing)
type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) Fatal(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) WithContext(ctx context.Context) Logger                    { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) FatalWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger                               { return nil }
