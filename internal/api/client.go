package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rshade/nutriboard/internal/cache"
	"github.com/rshade/nutriboard/internal/logging"
)

const (
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 10 * time.Second

	// HeaderRequestID carries the per-request correlation ID.
	HeaderRequestID = "X-Request-ID"

	// functionKeyParam is the query parameter carrying the function key.
	functionKeyParam = "code"

	// maxBodyBytes caps how much of a response is read.
	maxBodyBytes = 8 << 20
)

// Client talks to the dashboard backend. Safe for concurrent use.
type Client struct {
	baseURL     string
	functionKey string
	httpClient  *http.Client
	cache       cache.Store
}

// Option configures a Client.
type Option func(*Client)

// WithFunctionKey appends key as the "code" query parameter on every request.
func WithFunctionKey(key string) Option {
	return func(c *Client) {
		c.functionKey = key
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithCache caches successful read-only responses in store.
func WithCache(store cache.Store) Option {
	return func(c *Client) {
		c.cache = store
	}
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// request describes one call to the backend.
type request struct {
	method  string
	path    string
	query   url.Values
	body    any
	headers map[string]string

	// cacheable responses are read from and written to the client cache.
	cacheable bool
}

// response is a completed HTTP exchange whose body was read in full.
type response struct {
	status int
	body   []byte
	cached bool
}

// envelope holds the fields the backend uses to signal failure.
type envelope struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do sends req and returns the body of a successful, non-error response.
func (c *Client) do(ctx context.Context, req request) ([]byte, error) {
	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	if checkErr := checkEnvelope(resp); checkErr != nil {
		return nil, checkErr
	}
	if req.cacheable && !resp.cached {
		c.store(ctx, req, resp.body)
	}
	return resp.body, nil
}

// send performs the HTTP exchange, consulting the cache first for cacheable requests.
func (c *Client) send(ctx context.Context, req request) (*response, error) {
	log := logging.FromContext(ctx)

	if req.cacheable {
		if body, ok := c.lookup(ctx, req); ok {
			return &response{status: http.StatusOK, body: body, cached: true}, nil
		}
	}

	query := url.Values{}
	for k, v := range req.query {
		query[k] = v
	}
	if c.functionKey != "" {
		query.Set(functionKeyParam, c.functionKey)
	}

	target := c.baseURL + req.path
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}

	var bodyReader io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("%w: building request for %s: %v", ErrNetwork, req.path, err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set(HeaderRequestID, requestID)
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Debug().Err(err).
			Str("request_id", requestID).
			Str("method", req.method).
			Str("path", req.path).
			Msg("request failed")
		return nil, fmt.Errorf("%w: %s %s: %v", ErrNetwork, req.method, req.path, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response from %s: %v", ErrNetwork, req.path, err)
	}

	log.Debug().
		Str("request_id", requestID).
		Str("method", req.method).
		Str("path", req.path).
		Int("status", httpResp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("request completed")

	return &response{status: httpResp.StatusCode, body: body}, nil
}

// checkEnvelope classifies a response as success, backend error, network
// error or undecodable.
func checkEnvelope(resp *response) error {
	success := resp.status >= 200 && resp.status < 300

	var env envelope
	if err := json.Unmarshal(resp.body, &env); err != nil {
		if !success {
			return fmt.Errorf("%w: HTTP %d: %s", ErrNetwork, resp.status, snippet(resp.body))
		}
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	switch {
	case env.Error != "":
		return &APIError{Status: resp.status, Message: env.Error}
	case env.Status == "error":
		msg := env.Message
		if msg == "" {
			msg = "request failed"
		}
		return &APIError{Status: resp.status, Message: msg}
	case !success:
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.status)
		}
		return &APIError{Status: resp.status, Message: msg}
	}
	return nil
}

// decode unmarshals body into out, wrapping failures in ErrDecode.
func decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

func (c *Client) cacheKey(req request) string {
	return cache.GenerateKey(req.method, c.baseURL+req.path, req.query)
}

func (c *Client) lookup(ctx context.Context, req request) ([]byte, bool) {
	if c.cache == nil || !c.cache.IsEnabled() {
		return nil, false
	}
	entry, err := c.cache.Get(ctx, c.cacheKey(req))
	if err != nil {
		if !errors.Is(err, cache.ErrCacheNotFound) && !errors.Is(err, cache.ErrCacheExpired) {
			logging.FromContext(ctx).Warn().Err(err).Str("path", req.path).Msg("cache read failed")
		}
		return nil, false
	}
	logging.FromContext(ctx).Debug().Str("path", req.path).Dur("age", entry.Age()).Msg("serving cached response")
	return entry.Data, true
}

func (c *Client) store(ctx context.Context, req request, body []byte) {
	if c.cache == nil || !c.cache.IsEnabled() {
		return
	}
	if err := c.cache.Set(ctx, c.cacheKey(req), json.RawMessage(body)); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("path", req.path).Msg("cache write failed")
	}
}

// snippet trims a non-JSON body for inclusion in an error message.
func snippet(body []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(body))
	if s == "" {
		return "empty response"
	}
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

// doLenient is do for endpoints whose error payloads still carry a usable
// result. When the backend reports an error and accept(body) is true, the
// body is returned without error.
func (c *Client) doLenient(ctx context.Context, req request, accept func(body []byte) bool) ([]byte, error) {
	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	if checkErr := checkEnvelope(resp); checkErr != nil {
		if _, ok := IsAPIError(checkErr); ok && accept(resp.body) {
			return resp.body, nil
		}
		return nil, checkErr
	}
	if req.cacheable && !resp.cached {
		c.store(ctx, req, resp.body)
	}
	return resp.body, nil
}
