package wiki

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	errs "wikifauna/pkg/errors"
	"wikifauna/pkg/logger"
)

// Client is an HTTP client for the encyclopedia site and its API. Each
// download worker owns one long-lived Client; clients are never shared
// across workers.
type Client struct {
	httpClient  *http.Client
	headers     map[string]string
	apiEndpoint string
	logger      logger.Logger
}

// NewClient creates a new wiki client
func NewClient(timeout time.Duration, apiEndpoint, userAgent string, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent":      userAgent,
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
		},
		apiEndpoint: apiEndpoint,
		logger:      log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// HTTPClient exposes the underlying client for components that stream
// response bodies themselves
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errs.Newf(errs.ErrorTypeNetwork, "network error: %v", err)
	}

	logger.LogRequest(c.logger, req.Method, req.URL.String(), resp.StatusCode, duration)

	return resp, nil
}

// Get performs a GET request to the specified URL
func (c *Client) Get(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.Newf(errs.ErrorTypeUnknown, "failed to create request: %v", err)
	}

	return c.doRequest(req)
}

// GetJSON performs a GET request and decodes the JSON response
func (c *Client) GetJSON(url string, target interface{}) error {
	resp, err := c.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.NewHTTP(errs.ErrorTypeNetwork, resp.StatusCode,
			fmt.Sprintf("failed to read response body: %v", err))
	}

	if err := json.Unmarshal(body, target); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return errs.NewHTTP(errs.ErrorTypeParsing, resp.StatusCode,
			fmt.Sprintf("failed to parse JSON: %v", err))
	}

	return nil
}

// checkResponseStatus converts a non-2xx response into a typed error
func (c *Client) checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	// doRequest already logged the status at the appropriate level
	kind := errs.ClassifyStatusCode(resp.StatusCode)
	return errs.NewHTTP(kind, resp.StatusCode, http.StatusText(resp.StatusCode))
}

// FetchPage downloads the page at url and writes the raw markup to dest,
// creating parent directories as needed. The write goes through a temp file
// so a failed fetch never leaves a truncated snapshot behind.
func (c *Client) FetchPage(url, dest string) error {
	c.logger.InfoWithFields("fetching page", map[string]interface{}{
		"url":  url,
		"dest": dest,
	})

	resp, err := c.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp := dest + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}

	_, err = io.Copy(out, resp.Body)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tmp)
		return errs.Newf(errs.ErrorTypeNetwork, "failed to save page: %v", err)
	}
	if closeErr != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close snapshot file: %w", closeErr)
	}

	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename snapshot file: %w", err)
	}

	c.logger.InfoWithFields("page snapshot saved", map[string]interface{}{
		"dest": dest,
	})
	return nil
}

// FetchDocument downloads the page at url and returns its body. Used by the
// locator, which parses pages in memory rather than snapshotting them.
func (c *Client) FetchDocument(url string) (io.ReadCloser, error) {
	resp, err := c.Get(url)
	if err != nil {
		return nil, errs.Newf(errs.ErrorTypePageUnavailable, "page fetch failed: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, errs.NewHTTP(errs.ErrorTypePageUnavailable, resp.StatusCode,
			fmt.Sprintf("page returned status %d", resp.StatusCode))
	}

	return resp.Body, nil
}

// SearchThumbnail asks the site API for a representative thumbnail for the
// given title. Returns an empty string when the API has nothing, which is a
// normal negative result, not an error.
func (c *Client) SearchThumbnail(title string, size int) (string, error) {
	if c.apiEndpoint == "" {
		return "", nil
	}

	url := ThumbnailSearchURL(c.apiEndpoint, title, size)

	var result ThumbnailQueryResponse
	if err := c.GetJSON(url, &result); err != nil {
		return "", err
	}

	for _, page := range result.Query.Pages {
		if page.Thumbnail != nil && page.Thumbnail.Source != "" {
			c.logger.DebugWithFields("thumbnail found via search API", map[string]interface{}{
				"title":  title,
				"source": page.Thumbnail.Source,
			})
			return page.Thumbnail.Source, nil
		}
	}

	c.logger.DebugWithFields("no thumbnail via search API", map[string]interface{}{
		"title": title,
	})
	return "", nil
}
