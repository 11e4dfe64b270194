// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is where the service listens in a local setup.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultAgentType selects the legal consultant agent.
	DefaultAgentType = "consultant"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize is the default cap on response bodies.
	MaxResponseSize = 10 * 1024 * 1024

	// DefaultTopK is the number of search hits requested when none is given.
	DefaultTopK = 5

	userAgent = "lexchat/1.0"
)

// Client talks to the legal-answer service. A Client is safe for concurrent
// use once configured; the With* methods must be called before sharing it.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	timeout         time.Duration
	maxResponseSize int64
	limiter         *rate.Limiter
	logger          *zap.Logger
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		timeout:         DefaultTimeout,
		maxResponseSize: MaxResponseSize,
		logger:          zap.NewNop(),
	}
}

// WithTimeout sets the timeout used when the caller's context carries no
// deadline of its own. A caller deadline always wins, longer or shorter.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout > 0 {
		c.timeout = timeout
	}
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// WithMaxResponseSize sets the response body cap in bytes.
func (c *Client) WithMaxResponseSize(n int64) *Client {
	if n > 0 {
		c.maxResponseSize = n
	}
	return c
}

// WithRateLimit limits outgoing requests to rps per second. Zero disables
// the limit.
func (c *Client) WithRateLimit(rps float64) *Client {
	if rps <= 0 {
		c.limiter = nil
		return c
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	return c
}

// WithLogger sets the logger used for request/response lines.
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	if logger != nil {
		c.logger = logger.Named("backend")
	}
	return c
}

// BaseURL returns the service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the fallback per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// =============================================================================
// ENDPOINTS
// =============================================================================

// Chat sends one question and decodes the answer. It never retries.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}
	if req.AgentType == "" {
		req.AgentType = DefaultAgentType
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/api/chat", nil, payload)
	if err != nil {
		return nil, err
	}

	var wire chatWire
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if wire.Answer == nil {
		return nil, fmt.Errorf("%w: missing answer", ErrMalformedResponse)
	}

	return &ChatResponse{
		Answer:    *wire.Answer,
		Citations: wire.Citations,
		Sources:   wire.Sources,
	}, nil
}

// Health probes the service.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	body, err := c.do(ctx, http.MethodGet, "/health", nil, nil)
	if err != nil {
		return nil, err
	}
	var resp HealthResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &resp, nil
}

// Search runs a raw retrieval query. topK <= 0 uses DefaultTopK.
func (c *Client) Search(ctx context.Context, query string, topK int) (*SearchResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyMessage
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("top_k", strconv.Itoa(topK))

	body, err := c.do(ctx, http.MethodGet, "/api/search", params, nil)
	if err != nil {
		return nil, err
	}
	var resp SearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &resp, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// do performs one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload []byte) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := c.readResponse(resp)
	c.logResponse(method, path, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(resp.StatusCode, body)
	}
	return body, nil
}

// readResponse reads the body, failing if it exceeds the size cap.
func (c *Client) readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > c.maxResponseSize {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrResponseTooLarge, c.maxResponseSize)
	}
	return body, nil
}

// logResponse records method, path, status and duration. Bodies are never
// logged.
func (c *Client) logResponse(method, path string, status int, d time.Duration) {
	c.logger.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("duration", d))
}

func newStatusError(code int, body []byte) *StatusError {
	se := &StatusError{StatusCode: code}
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		se.Detail = eb.Detail
		if se.Detail == "" {
			se.Detail = eb.Error
		}
	}
	return se
}
