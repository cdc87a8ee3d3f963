package logger

import (
	"errors"
	"testing"
	"time"
)

func TestLogRequestLevels(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantLevel  string
		wantMsg    string
	}{
		{"success is debug", 200, "DEBUG", "HTTP request completed"},
		{"redirect is debug", 301, "DEBUG", "HTTP request completed"},
		{"client error is warn", 404, "WARN", "HTTP request client error"},
		{"server error is error", 503, "ERROR", "HTTP request server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := NewTestLogger()
			LogRequest(log, "GET", "https://en.wikipedia.org/wiki/Dog", tt.statusCode, 50*time.Millisecond)

			msgs := log.MessagesByLevel(tt.wantLevel)
			if len(msgs) != 1 {
				t.Fatalf("expected 1 %s message, got %d: %s", tt.wantLevel, len(msgs), log.String())
			}
			if msgs[0].Message != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, msgs[0].Message)
			}
			if msgs[0].Fields["status"] != tt.statusCode {
				t.Errorf("expected status field %d, got %v", tt.statusCode, msgs[0].Fields["status"])
			}
		})
	}
}

func TestLogResolutionOutcomes(t *testing.T) {
	tests := []struct {
		name      string
		outcome   string
		path      string
		err       error
		wantLevel string
		wantMsg   string
	}{
		{"downloaded is info", "downloaded", "/images/dog.jpg", nil, "INFO", "image resolved"},
		{"cached is info", "cached", "/images/dog.jpg", nil, "INFO", "image resolved"},
		{"placeholder is warn", "placeholder", "/images/dog.jpg", errors.New("503"), "WARN", "image resolution fell back to placeholder"},
		{"failed is error", "failed", "", errors.New("connection refused"), "ERROR", "image resolution failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := NewTestLogger()
			LogResolution(log, "Dog", tt.outcome, tt.path, tt.err)

			msgs := log.MessagesByLevel(tt.wantLevel)
			if len(msgs) != 1 {
				t.Fatalf("expected 1 %s message, got %d: %s", tt.wantLevel, len(msgs), log.String())
			}
			if msgs[0].Message != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, msgs[0].Message)
			}
			if msgs[0].Fields["animal"] != "Dog" {
				t.Errorf("expected animal field, got %v", msgs[0].Fields)
			}
			if tt.path != "" && msgs[0].Fields["path"] != tt.path {
				t.Errorf("expected path field %q, got %v", tt.path, msgs[0].Fields["path"])
			}
		})
	}
}

func TestLogResolutionFailedWithoutError(t *testing.T) {
	// An animal with no source page and no placeholder fails with a nil
	// error; the outcome alone decides the level
	log := NewTestLogger()
	LogResolution(log, "Mythical Beast", "failed", "", nil)

	if !log.HasError() {
		t.Errorf("expected an error-level message: %s", log.String())
	}
}

func TestLogRateLimit(t *testing.T) {
	log := NewTestLogger()
	LogRateLimit(log, "https://en.wikipedia.org/wiki/Dog")

	msgs := log.MessagesByLevel("DEBUG")
	if len(msgs) != 1 {
		t.Fatalf("expected 1 debug message, got %d: %s", len(msgs), log.String())
	}
	if !log.HasMessage("rate limit reached") {
		t.Errorf("expected rate limit message, got %s", log.String())
	}
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()

	// Every method must be callable without side effects or panics
	log.Debug("debug")
	log.Info("info")
	log.Warn("warn")
	log.Error("error")
	log.WithField("key", "value").Info("derived")
	log.WithFields(map[string]interface{}{"a": 1}).Warn("derived")
	log.WithError(errors.New("boom")).Error("derived")
	log.InfoWithFields("fields", map[string]interface{}{"b": 2})
}
