package upstream

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"web3_tools/internal/logger"
	"web3_tools/internal/observability"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

const (
	DefaultTimeout = 10 * time.Second

	maxBodySize  = 8 << 20
	maxErrorBody = 64 << 10
	userAgent    = "web3-tools/1.0"
)

// Client performs single GET calls against third party APIs. No retries.
type Client struct {
	http    *http.Client
	timeout time.Duration
	log     logger.AppLogger
	metrics *observability.Metrics
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func NewClient(log logger.AppLogger, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		http:    &http.Client{},
		timeout: timeout,
		log:     log.With(zap.String("service", "upstream")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the raw body of a 2xx answer. Any failure is an *Error.
func (c *Client) Get(ctx context.Context, provider, rawURL string) ([]byte, error) {
	started := time.Now()
	body, err := c.get(ctx, provider, rawURL)
	outcome := "ok"
	if err != nil {
		var upErr *Error
		if errors.As(err, &upErr) {
			outcome = string(upErr.Kind)
		}
		c.log.Error("upstream call failed", err, zap.String("provider", provider), zap.String("outcome", outcome))
	}
	c.metrics.ObserveUpstream(provider, outcome, time.Since(started))
	return body, err
}

// GetJSON decodes a 2xx JSON answer into target.
func (c *Client) GetJSON(ctx context.Context, provider, rawURL string, target any) error {
	body, err := c.Get(ctx, provider, rawURL)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(body, target); err != nil {
		return newError(KindParse, provider, rawURL, fmt.Errorf("failed to unmarshal response body: %w", err))
	}
	return nil
}

// GetXML decodes a 2xx XML answer into target.
func (c *Client) GetXML(ctx context.Context, provider, rawURL string, target any) error {
	body, err := c.Get(ctx, provider, rawURL)
	if err != nil {
		return err
	}
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.CharsetReader = charset.NewReaderLabel
	if err = dec.Decode(target); err != nil {
		return newError(KindParse, provider, rawURL, fmt.Errorf("failed to parse xml: %w", err))
	}
	return nil
}

func (c *Client) get(ctx context.Context, provider, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, newError(KindTransport, provider, rawURL, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, application/rss+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, newError(kindOf(ctx, err), provider, rawURL, stripURL(err))
	}
	defer resp.Body.Close()

	var reader io.ReadCloser
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		reader, err = gzip.NewReader(resp.Body)
		if err != nil {
			return nil, newError(KindParse, provider, rawURL, fmt.Errorf("failed to create gzip reader: %w", err))
		}
		defer reader.Close()
	default:
		reader = resp.Body
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(reader, maxErrorBody))
		upErr := newError(KindStatus, provider, rawURL, fmt.Errorf("unexpected status %d", resp.StatusCode))
		upErr.StatusCode = resp.StatusCode
		upErr.Body = b
		return nil, upErr
	}

	b, err := io.ReadAll(io.LimitReader(reader, maxBodySize+1))
	if err != nil {
		return nil, newError(kindOf(ctx, err), provider, rawURL, fmt.Errorf("failed to read response body: %w", err))
	}
	if len(b) > maxBodySize {
		return nil, newError(KindParse, provider, rawURL, fmt.Errorf("response body exceeds %d bytes", maxBodySize))
	}
	return b, nil
}

func kindOf(ctx context.Context, err error) Kind {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindTransport
}

// stripURL drops the *url.Error wrapper, whose message repeats the full request url.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}

// redact keeps scheme, host and path so credentials in the query never reach logs.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid url>"
	}
	return u.Scheme + "://" + u.Host + u.Path
}
