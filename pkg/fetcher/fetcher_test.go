package fetcher

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	errs "wikifauna/pkg/errors"
	"wikifauna/pkg/logger"
	"wikifauna/pkg/retry"
)

func newTestFetcher(maxSize int64, maxAttempts int) *Fetcher {
	f := New(&http.Client{Timeout: 5 * time.Second}, "wikifauna-test/1.0",
		maxSize, maxAttempts, logger.NewTestLogger())
	f.SetBackoff(&retry.ConstantBackoff{Delay: time.Millisecond})
	return f
}

func TestFetchWritesFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jpeg bytes"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "images", "dog.jpg")
	f := newTestFetcher(1024, 3)

	if err := f.Fetch(server.URL, dest); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Failed to read downloaded file: %v", err)
	}
	if string(data) != "jpeg bytes" {
		t.Errorf("Unexpected file content: %s", data)
	}
	if _, err := os.Stat(dest + ".tmp"); !os.IsNotExist(err) {
		t.Error("Expected temp file to be renamed away")
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("jpeg bytes"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "dog.jpg")
	f := newTestFetcher(1024, 3)

	if err := f.Fetch(server.URL, dest); err != nil {
		t.Fatalf("Expected success on third attempt, got: %v", err)
	}
	if got := atomic.LoadInt32(&requests); got != 3 {
		t.Errorf("Expected 3 requests, got %d", got)
	}
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "dog.jpg")
	f := newTestFetcher(1024, 3)

	err := f.Fetch(server.URL, dest)
	if err == nil {
		t.Fatal("Expected error from 404")
	}
	if got := atomic.LoadInt32(&requests); got != 1 {
		t.Errorf("Expected exactly 1 request for 404, got %d", got)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("Expected no file at destination after failed fetch")
	}
}

func TestFetchRejectsDeclaredOversizedBody(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Write(make([]byte, 4096)) // Content-Length declared by httptest
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "whale.jpg")
	f := newTestFetcher(64, 3)

	err := f.Fetch(server.URL, dest)
	if err == nil {
		t.Fatal("Expected oversized error")
	}

	var perr *errs.Error
	if !errors.As(err, &perr) || perr.Type != errs.ErrorTypeOversized {
		t.Errorf("Expected oversized error type, got %v", err)
	}
	// Size violations are terminal, no retry
	if got := atomic.LoadInt32(&requests); got != 1 {
		t.Errorf("Expected exactly 1 request, got %d", got)
	}
}

func TestFetchRejectsUnderdeclaredOversizedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Chunked response, no Content-Length to check up front
		flusher := w.(http.Flusher)
		for i := 0; i < 8; i++ {
			w.Write(make([]byte, 32))
			flusher.Flush()
		}
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "whale.jpg")
	f := newTestFetcher(64, 3)

	err := f.Fetch(server.URL, dest)
	if err == nil {
		t.Fatal("Expected oversized error from streamed body")
	}

	var perr *errs.Error
	if !errors.As(err, &perr) || perr.Type != errs.ErrorTypeOversized {
		t.Errorf("Expected oversized error type, got %v", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("Expected no partial file at destination")
	}
	if _, statErr := os.Stat(dest + ".tmp"); !os.IsNotExist(statErr) {
		t.Error("Expected temp file to be cleaned up")
	}
}

func TestFetchEmptyURL(t *testing.T) {
	f := newTestFetcher(1024, 3)
	if err := f.Fetch("", filepath.Join(t.TempDir(), "x.jpg")); err == nil {
		t.Error("Expected error for empty URL")
	}
}

func TestFetchExhaustsAttempts(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "dog.jpg")
	f := newTestFetcher(1024, 3)

	if err := f.Fetch(server.URL, dest); err == nil {
		t.Fatal("Expected error after exhausting attempts")
	}
	if got := atomic.LoadInt32(&requests); got != 3 {
		t.Errorf("Expected 3 requests, got %d", got)
	}
}
