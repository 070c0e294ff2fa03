package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

const (
	// Upper bound on a response body. Completions are text, a few hundred KiB at most.
	maxResponseBody = 8 << 20
	// Error bodies are kept in HTTPError and logged, so only their head is read.
	maxErrorBody = 2 << 10
)

// Connector sends JSON requests to one upstream service.
type Connector struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

type ConnectorConfig struct {
	BaseURL string
	Logger  *zap.Logger
}

func NewConnector(config *ConnectorConfig, options ...HttpOpts) *Connector {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Connector{
		baseURL:    config.BaseURL,
		httpClient: newClient(options...),
		logger:     logger,
	}
}

type RequestOpt func(*requestConfig)

type requestConfig struct {
	header http.Header
	url    string
}

// WithHeader sets a header on a single request. It overrides connector-wide
// headers such as the bearer token.
func WithHeader(key, value string) RequestOpt {
	return func(c *requestConfig) {
		c.header.Set(key, value)
	}
}

// WithURL sends the request to url instead of the connector's base URL.
func WithURL(url string) RequestOpt {
	return func(c *requestConfig) {
		c.url = url
	}
}

// DoRequest encodes reqBody as JSON, sends it and decodes a 2xx response into
// respBody. Either body may be nil. Non-2xx responses return *HTTPError and
// transport failures return *NetworkError.
func (c *Connector) DoRequest(ctx context.Context, method, endpoint string, reqBody, respBody any, opts ...RequestOpt) error {
	cfg := &requestConfig{
		header: http.Header{},
		url:    c.baseURL + endpoint,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var body io.Reader
	if reqBody != nil {
		payload, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(payload)
		ctx = context.WithValue(ctx, payloadContextKey{}, payload)
		cfg.header.Set("Content-Type", "application/json")
	}

	req, err := http.NewRequestWithContext(ctx, method, cfg.url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for key, values := range cfg.header {
		req.Header[key] = values
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		head, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{StatusCode: resp.StatusCode, Message: string(head)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return &NetworkError{Err: fmt.Errorf("read response body: %w", err)}
	}
	if respBody == nil || len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, respBody); err != nil {
		c.logger.Warn("undecodable response body",
			zap.String("url", cfg.url),
			zap.ByteString("head", data[:min(len(data), maxErrorBody)]),
			zap.Error(err),
		)
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
