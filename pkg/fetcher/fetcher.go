package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	errs "wikifauna/pkg/errors"
	"wikifauna/pkg/logger"
	"wikifauna/pkg/retry"
)

// Fetcher durably downloads single URLs to destination paths. Bodies are
// streamed through a temp file and renamed into place, so the final failure
// path never leaves a partial file at the destination.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	maxSize     int64
	maxAttempts int
	backoff     retry.BackoffStrategy
	logger      logger.Logger
}

// New creates a Fetcher. maxSize is the response-size ceiling in bytes;
// maxAttempts bounds the retry loop.
func New(client *http.Client, userAgent string, maxSize int64, maxAttempts int, log logger.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Fetcher{
		client:      client,
		userAgent:   userAgent,
		maxSize:     maxSize,
		maxAttempts: maxAttempts,
		backoff:     retry.DefaultExponentialBackoff(),
		logger:      log,
	}
}

// SetBackoff replaces the backoff strategy (tests use a constant backoff)
func (f *Fetcher) SetBackoff(b retry.BackoffStrategy) {
	f.backoff = b
}

// Fetch downloads url to dest. Server errors and transport failures are
// retried with exponential backoff up to the attempt bound; client errors
// and oversized responses abort immediately. A nil return means a complete,
// non-oversized body was written to dest.
func (f *Fetcher) Fetch(url, dest string) error {
	if url == "" {
		return errs.New(errs.ErrorTypeUnknown, "no URL provided")
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	attempt := 0
	cfg := &retry.Config{
		MaxAttempts: f.maxAttempts,
		Backoff:     f.backoff,
		RetryIf:     retry.DefaultRetryIf,
		Context:     context.Background(),
		Logger:      f.logger,
		OnRetry: func(n int, err error, delay time.Duration) {
			f.logger.WarnWithFields("download attempt failed", map[string]interface{}{
				"url":      url,
				"attempt":  n,
				"error":    err.Error(),
				"delay_ms": delay.Milliseconds(),
			})
		},
	}

	err := retry.Do(func() error {
		attempt++
		return f.attempt(url, dest, attempt)
	}, cfg)

	if err != nil {
		f.logger.ErrorWithFields("download failed", map[string]interface{}{
			"url":      url,
			"attempts": attempt,
			"error":    err.Error(),
		})
		return err
	}

	f.logger.InfoWithFields("download completed", map[string]interface{}{
		"url":      url,
		"dest":     dest,
		"attempts": attempt,
	})
	return nil
}

// attempt performs one request and classifies the outcome
func (f *Fetcher) attempt(url, dest string, attempt int) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return errs.Newf(errs.ErrorTypeUnknown, "failed to create request: %v", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return errs.Newf(errs.ErrorTypeNetwork, "request failed: %v", err)
	}
	defer resp.Body.Close()

	// A declared oversized body is not transient; abort before streaming
	if f.maxSize > 0 && resp.ContentLength > f.maxSize {
		return errs.Newf(errs.ErrorTypeOversized,
			"declared content length %d exceeds ceiling %d", resp.ContentLength, f.maxSize)
	}

	if resp.StatusCode >= 400 {
		kind := errs.ClassifyStatusCode(resp.StatusCode)
		return errs.NewHTTP(kind, resp.StatusCode,
			fmt.Sprintf("attempt %d returned status %d", attempt, resp.StatusCode))
	}

	return f.stream(resp.Body, dest)
}

// stream writes the body to dest via a temp file, enforcing the size
// ceiling for servers that underdeclare Content-Length
func (f *Fetcher) stream(body io.Reader, dest string) error {
	tmp := dest + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	reader := body
	if f.maxSize > 0 {
		reader = io.LimitReader(body, f.maxSize+1)
	}

	written, err := io.Copy(out, reader)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tmp)
		return errs.Newf(errs.ErrorTypeNetwork, "streaming failed: %v", err)
	}
	if closeErr != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close temporary file: %w", closeErr)
	}
	if f.maxSize > 0 && written > f.maxSize {
		os.Remove(tmp)
		return errs.Newf(errs.ErrorTypeOversized,
			"body exceeded ceiling %d during streaming", f.maxSize)
	}

	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}
