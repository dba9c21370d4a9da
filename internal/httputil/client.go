// Package httputil provides a security-hardened HTTP client and input sanitization utilities.
package httputil

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/121.0"

// maxBodySize caps how much of a response body is read.
const maxBodySize = 10 * 1024 * 1024 // 10MB

// Fetcher downloads a page and returns its body as text.
// The label identifies the request in logs and errors (usually a video ID).
type Fetcher interface {
	Fetch(ctx context.Context, url string, label string) (string, error)
}

// Client is the default Fetcher, backed by a hardened http.Client.
type Client struct {
	http      *http.Client
	userAgent string
}

// NewClient creates a hardened HTTP client with secure defaults.
func NewClient(timeout time.Duration, userAgent string) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		http:      newHTTPClient(timeout),
		userAgent: userAgent,
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			ForceAttemptHTTP2:   true,
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			DisableCompression:  false,
			MaxIdleConnsPerHost: 5,
		},
	}
}

// Fetch performs a GET request and returns the response body.
// Non-200 responses are errors.
func (c *Client) Fetch(ctx context.Context, url string, label string) (string, error) {
	if err := ValidateURL(url); err != nil {
		return "", fmt.Errorf("%s: invalid URL: %w", label, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%s: creating request: %w", label, err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: request failed: %w", label, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: unexpected status %d for %s", label, resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("%s: reading response: %w", label, err)
	}

	return string(body), nil
}
