// Package fetcher downloads PDF documents and landing pages over HTTP.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/apperr"
	"github.com/sanjeevkumarraob/adaptive-summarizer/pkg/stream"
)

const readChunkSize = 64 * 1024

// Config configures the fetcher
type Config struct {
	Timeout   time.Duration // default 30s
	MaxBytes  int64         // default 50MB
	UserAgent string
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 50 * 1024 * 1024
	}
	if c.UserAgent == "" {
		c.UserAgent = "adaptive-summarizer/1.0"
	}
}

// Fetcher performs bounded GET requests
type Fetcher struct {
	client *http.Client
	config Config
}

// New creates a Fetcher that follows at most five redirects
func New(cfg Config) *Fetcher {
	cfg.defaults()
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects (%d)", len(via))
				}
				if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
					return fmt.Errorf("redirect to unsupported scheme %q", req.URL.Scheme)
				}
				return nil
			},
		},
		config: cfg,
	}
}

// ValidateHTTPURL parses raw and requires an http or https URL with a host
func ValidateHTTPURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return nil, apperr.Input("validate url", "invalid URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, apperr.Input("validate url", "unsupported URL scheme %q: use http or https", u.Scheme)
	}
	return u, nil
}

// ValidatePDFURL additionally requires the path to reference a .pdf file
func ValidatePDFURL(raw string) (*url.URL, error) {
	u, err := ValidateHTTPURL(raw)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(strings.ToLower(u.Path), ".pdf") {
		return nil, apperr.Input("validate url", "URL must point to a PDF file")
	}
	return u, nil
}

// FetchPDF validates and downloads a PDF
func (f *Fetcher) FetchPDF(ctx context.Context, raw string) ([]byte, error) {
	u, err := ValidatePDFURL(raw)
	if err != nil {
		return nil, err
	}
	return f.get(ctx, u, "application/pdf,*/*")
}

// FetchPage downloads an HTML page and returns it with its final URL
func (f *Fetcher) FetchPage(ctx context.Context, raw string) ([]byte, *url.URL, error) {
	u, err := ValidateHTTPURL(raw)
	if err != nil {
		return nil, nil, err
	}
	body, err := f.get(ctx, u, "text/html,application/xhtml+xml")
	if err != nil {
		return nil, nil, err
	}
	return body, u, nil
}

func (f *Fetcher) get(ctx context.Context, u *url.URL, accept string) ([]byte, error) {
	const op = "fetch"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, apperr.Input(op, "failed to create request: %v", err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", accept)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperr.Extraction(op, http.StatusBadGateway, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperr.Extraction(op, resp.StatusCode, fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}
	if resp.ContentLength > f.config.MaxBytes {
		return nil, apperr.Input(op, "remote file exceeds maximum size of %d bytes", f.config.MaxBytes)
	}

	body, err := stream.NewChunkedReader(resp.Body, readChunkSize, f.config.MaxBytes).ReadAll()
	if errors.Is(err, stream.ErrTooLarge) {
		return nil, apperr.Input(op, "remote file exceeds maximum size of %d bytes", f.config.MaxBytes)
	}
	if err != nil {
		return nil, apperr.Extraction(op, http.StatusBadGateway, fmt.Errorf("failed to read response body: %w", err))
	}
	return body, nil
}
