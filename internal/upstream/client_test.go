package upstream

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"web3_tools/internal/entities"
	"web3_tools/internal/logger"
	"web3_tools/internal/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(timeout time.Duration) *Client {
	return NewClient(logger.NewNop(), timeout)
}

func asUpstreamError(t *testing.T, err error) *Error {
	t.Helper()
	var upErr *Error
	require.True(t, errors.As(err, &upErr), "expected *upstream.Error, got %T", err)
	return upErr
}

func TestClient_GetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"USD": 42.5}`))
	}))
	defer srv.Close()

	var res map[string]float64
	require.NoError(t, newTestClient(time.Second).GetJSON(context.Background(), "test", srv.URL, &res))
	assert.Equal(t, 42.5, res["USD"])
}

func TestClient_GzipBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte(`{"USD": 7}`))
		_ = gz.Close()
	}))
	defer srv.Close()

	var res map[string]float64
	require.NoError(t, newTestClient(time.Second).GetJSON(context.Background(), "test", srv.URL, &res))
	assert.Equal(t, 7.0, res["USD"])
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := newTestClient(50*time.Millisecond).Get(context.Background(), "test", srv.URL)
	require.Error(t, err)
	assert.Equal(t, KindTimeout, asUpstreamError(t, err).Kind)
}

func TestClient_Transport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	_, err := newTestClient(time.Second).Get(context.Background(), "test", addr+"?apikey=secret")
	require.Error(t, err)
	assert.Equal(t, KindTransport, asUpstreamError(t, err).Kind)
	assert.NotContains(t, err.Error(), "secret")
	assert.NotContains(t, Classify("test", err).Message, "secret")
}

func TestClient_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"status":{"error_code":429}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(time.Second).Get(context.Background(), "test", srv.URL+"?apikey=secret")
	upErr := asUpstreamError(t, err)
	assert.Equal(t, KindStatus, upErr.Kind)
	assert.Equal(t, http.StatusTooManyRequests, upErr.StatusCode)
	assert.True(t, upErr.RateLimited())
	assert.Contains(t, string(upErr.Body), "error_code")
	assert.NotContains(t, upErr.Error(), "secret")
}

func TestClient_Parse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html`))
	}))
	defer srv.Close()

	c := newTestClient(time.Second)
	var res map[string]any
	err := c.GetJSON(context.Background(), "test", srv.URL, &res)
	assert.Equal(t, KindParse, asUpstreamError(t, err).Kind)

	var doc struct{}
	err = c.GetXML(context.Background(), "test", srv.URL, &doc)
	assert.Equal(t, KindParse, asUpstreamError(t, err).Kind)
}

func TestClient_Metrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	m := observability.NewMetrics()
	c := NewClient(logger.NewNop(), time.Second, WithMetrics(m))
	_, _ = c.Get(context.Background(), "binance", srv.URL)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequests.WithLabelValues("binance", "status")))
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code string
	}{
		{"timeout", &Error{Kind: KindTimeout}, entities.CodeTimeout},
		{"transport", &Error{Kind: KindTransport, Err: errors.New("refused")}, entities.CodeRequestFailed},
		{"rate limited", &Error{Kind: KindStatus, StatusCode: 429}, entities.CodeRateLimited},
		{"status", &Error{Kind: KindStatus, StatusCode: 503}, "coingecko_failed"},
		{"parse", &Error{Kind: KindParse, Err: errors.New("eof")}, entities.CodeInvalidResponse},
		{"plain", errors.New("boom"), entities.CodeRequestFailed},
		{"tool error", entities.NewToolError(entities.CodeNotFound, "nope"), entities.CodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, Classify("coingecko", tc.err).Code)
		})
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestClient_WithHTTPClient(t *testing.T) {
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{},
			Body:       io.NopCloser(strings.NewReader(`{"ok":true}`)),
			Request:    r,
		}, nil
	})}

	var res map[string]bool
	c := NewClient(logger.NewNop(), time.Second, WithHTTPClient(hc))
	require.NoError(t, c.GetJSON(context.Background(), "test", "https://example.invalid/x", &res))
	assert.True(t, res["ok"])
}
