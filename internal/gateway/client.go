package gateway

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
)

// Defaults applied when ClientConfig leaves a field empty.
const (
	DefaultBaseURL = "http://localhost:4000/api"
	DefaultTimeout = 30 * time.Second
)

// ClientConfig configures a Client.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	// Token is sent as a bearer token unless the request already carries Authorization.
	Token string
	// Transport overrides the underlying round tripper (tests).
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// Client performs JSON requests against the backend.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *slog.Logger
}

// NewClient creates a client for cfg.
func NewClient(cfg ClientConfig) (*Client, error) {
	raw := cfg.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", raw, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", raw)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	next := cfg.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		base: base,
		http: &http.Client{
			Timeout:   timeout,
			Transport: &headerTransport{next: next, token: cfg.Token},
		},
		logger: logger,
	}, nil
}

// BaseURL returns the resolved base URL.
func (c *Client) BaseURL() string {
	return strings.TrimSuffix(c.base.String(), "/")
}

// Get decodes the JSON response of GET path into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post sends body as JSON and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	target := c.base.JoinPath(strings.TrimLeft(path, "/"))

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if auth, ok := ctx.Value(authKey{}).(string); ok && auth != "" {
		req.Header.Set("Authorization", auth)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "url", target.String(), "error", err)
		return networkError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("request",
		"method", method,
		"url", target.String(),
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", req.Header.Get(HeaderRequestID))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fromResponse(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindUnknown, Status: resp.StatusCode, Message: MsgUnknown,
			Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// HeaderRequestID carries the per-request correlation id.
const HeaderRequestID = "X-Request-Id"

// headerTransport sets the default headers. Headers already present win.
type headerTransport struct {
	next  http.RoundTripper
	token string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	setDefault(req.Header, "Content-Type", "application/json")
	setDefault(req.Header, "Accept", "application/json")
	setDefault(req.Header, HeaderRequestID, uuid.NewString())
	if t.token != "" {
		setDefault(req.Header, "Authorization", "Bearer "+t.token)
	}
	return t.next.RoundTrip(req)
}

func setDefault(h http.Header, key, value string) {
	if h.Get(key) == "" {
		h.Set(key, value)
	}
}

// AuthorizationContext returns a context whose requests carry the given Authorization
// header value instead of the configured token.
func AuthorizationContext(ctx context.Context, value string) context.Context {
	return context.WithValue(ctx, authKey{}, value)
}

type authKey struct{}
