package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type echoBody struct {
	Value string `json:"value"`
}

func newTestConnector(url string, opts ...HttpOpts) *Connector {
	return NewConnector(&ConnectorConfig{BaseURL: url, Logger: zap.NewNop()}, opts...)
}

func TestDoRequestRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/echo", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "yes", r.Header.Get("X-Test"))

		var in echoBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		_ = json.NewEncoder(w).Encode(echoBody{Value: in.Value + "!"})
	}))
	t.Cleanup(server.Close)

	c := newTestConnector(server.URL, WithAuthToken("secret"), WithRequestLogging())

	var out echoBody
	err := c.DoRequest(context.Background(), http.MethodPost, "/echo", echoBody{Value: "hi"}, &out, WithHeader("X-Test", "yes"))
	require.NoError(t, err)
	assert.Equal(t, "hi!", out.Value)
}

func TestDoRequestHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	c := newTestConnector(server.URL)

	err := c.DoRequest(context.Background(), http.MethodGet, "/", nil, nil)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.True(t, IsRetryable(err))
}

func TestDoRequestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(server.Close)

	c := newTestConnector(server.URL, WithRequestTimeout(20*time.Millisecond))

	err := c.DoRequest(context.Background(), http.MethodGet, "/", nil, nil)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.True(t, IsRetryable(err))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{err: &HTTPError{StatusCode: http.StatusTooManyRequests}, want: true},
		{err: &HTTPError{StatusCode: http.StatusBadGateway}, want: true},
		{err: &HTTPError{StatusCode: http.StatusUnauthorized}, want: false},
		{err: &HTTPError{StatusCode: http.StatusBadRequest}, want: false},
		{err: fmt.Errorf("wrapped: %w", &NetworkError{Err: errors.New("reset")}), want: true},
		{err: errors.New("decode response: bad json"), want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsRetryable(tt.err), "IsRetryable(%v)", tt.err)
	}
}

func TestRedactHidesCredentials(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer secret")
	h.Set("Accept", "application/json")

	out := redact(h)

	assert.Equal(t, "[REDACTED]", out.Get("Authorization"))
	assert.Equal(t, "application/json", out.Get("Accept"))
	assert.Equal(t, "Bearer secret", h.Get("Authorization"))
}

func TestDoRequestErrorBodyIsTruncated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(strings.Repeat("x", 10*maxErrorBody)))
	}))
	t.Cleanup(server.Close)

	err := newTestConnector(server.URL).DoRequest(context.Background(), http.MethodGet, "/", nil, nil)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Len(t, httpErr.Message, maxErrorBody)
	assert.False(t, IsRetryable(err))
}

func TestDoRequestURLOverride(t *testing.T) {
	var hits []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits = append(hits, r.URL.Path)
	}))
	t.Cleanup(server.Close)

	c := newTestConnector("http://base.invalid")

	err := c.DoRequest(context.Background(), http.MethodPost, "/ignored", echoBody{}, nil, WithURL(server.URL+"/hooks"))

	require.NoError(t, err)
	assert.Equal(t, []string{"/hooks"}, hits)
}
