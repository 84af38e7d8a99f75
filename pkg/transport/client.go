package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"github.com/soundprediction/go-askagent/pkg/types"
)

// RequestIDHeader is set on every outgoing request.
const RequestIDHeader = "X-Request-ID"

// Config holds the settings for a Client.
type Config struct {
	// BaseURL is the backend root, e.g. "http://127.0.0.1:8000".
	BaseURL string
	// Timeout bounds a single exchange. Zero leaves it to the transport.
	Timeout time.Duration
	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
	Breaker    BreakerConfig
	Logger     *slog.Logger
}

// Request describes one call against the backend.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Header values are sent under the exact names given, without MIME
	// canonicalization.
	Header http.Header
	// Body is JSON encoded when non-nil.
	Body any
	// Accept decides which statuses count as success. Nil means 2xx.
	Accept func(status int) bool
}

// Response is a successful exchange.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client performs classified request/response exchanges. It never retries.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

// NewClient validates the base URL and builds a Client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("baseURL cannot be empty")
	}

	parsedURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid baseURL format: %w", err)
	}
	if parsedURL.Scheme == "" {
		return nil, fmt.Errorf("baseURL must include scheme (http:// or https://)")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("baseURL must use http:// or https:// scheme")
	}
	if parsedURL.Host == "" {
		return nil, fmt.Errorf("baseURL must include a host")
	}
	parsedURL.Path = strings.TrimRight(parsedURL.Path, "/")

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		baseURL:    parsedURL,
		httpClient: httpClient,
		breaker:    newBreaker("backend "+parsedURL.Host, cfg.Breaker, logger),
		logger:     logger,
	}, nil
}

// BaseURL returns the normalized backend root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Do performs a single exchange. Failures are returned as *Error.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	if c.breaker == nil {
		return c.do(ctx, r)
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.do(ctx, r)
	})
	if err != nil {
		if isBreakerRejection(err) {
			return nil, &Error{Kind: KindTransport, Message: "backend unavailable", Err: err}
		}
		return nil, err
	}
	return out.(*Response), nil
}

func (c *Client) do(ctx context.Context, r Request) (*Response, error) {
	req, err := c.newRequest(ctx, r)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	c.logger.DebugContext(ctx, "Sending request", "method", req.Method, "path", req.URL.Path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "Request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(fmt.Errorf("failed to read response: %w", err))
	}

	c.logger.DebugContext(ctx, "Response received",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	accept := r.Accept
	if accept == nil {
		accept = IsSuccess
	}
	if !accept(resp.StatusCode) {
		return nil, statusError(resp.StatusCode, body)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func (c *Client) newRequest(ctx context.Context, r Request) (*http.Request, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	u := *c.baseURL
	u.Path = c.baseURL.Path + "/" + strings.TrimLeft(r.Path, "/")
	if len(r.Query) > 0 {
		u.RawQuery = r.Query.Encode()
	}

	var body io.Reader
	if r.Body != nil {
		payload, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for name, values := range r.Header {
		req.Header[name] = append([]string(nil), values...)
	}

	requestID := types.RequestIDFrom(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set(RequestIDHeader, requestID)

	return req, nil
}

// IsSuccess accepts any 2xx status.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}

// DecodeJSON parses the response body into v.
func DecodeJSON(resp *Response, v any) error {
	if resp == nil {
		return decodeError(fmt.Errorf("empty response"))
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return decodeError(err)
	}
	return nil
}
