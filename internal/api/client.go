// Package api is a typed HTTP client for the MacrosCoach API
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Auth modes
const (
	AuthBearer = "bearer"
	AuthNone   = "none"
)

// RequestIDHeader carries a per-request id so calls can be matched in server logs
const RequestIDHeader = "X-Request-ID"

// maxErrorBody caps how much of an error response is read for its detail
const maxErrorBody = 64 << 10

// Options configures a Client
type Options struct {
	BaseURL string
	Timeout time.Duration
	// Auth is AuthBearer (default) or AuthNone
	Auth  string
	Token string
	// RateLimit is the maximum requests per second; zero disables limiting
	RateLimit  float64
	UserAgent  string
	Logger     *slog.Logger
	HTTPClient *http.Client
}

// Client issues requests against one MacrosCoach API instance
type Client struct {
	baseURL    string
	httpClient *http.Client
	auth       string
	userAgent  string
	limiter    *rate.Limiter
	validate   *validator
	logger     *slog.Logger

	mu    sync.RWMutex
	token string
}

// NewClient creates a client for the API at opts.BaseURL
func NewClient(opts Options) (*Client, error) {
	u, err := url.Parse(opts.BaseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", opts.BaseURL)
	}

	auth := opts.Auth
	if auth == "" {
		auth = AuthBearer
	}
	if auth != AuthBearer && auth != AuthNone {
		return nil, fmt.Errorf("unknown auth mode %q", auth)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "mcctl"
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: httpClient,
		auth:       auth,
		userAgent:  userAgent,
		limiter:    limiter,
		validate:   newValidator(),
		logger:     logger,
		token:      opts.Token,
	}, nil
}

// BaseURL returns the API address the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// AuthMode returns AuthBearer or AuthNone
func (c *Client) AuthMode() string {
	return c.auth
}

// Token returns the current access token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken replaces the access token used by subsequent calls
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// request describes one API call
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// authed calls need a token in bearer mode
	authed bool
}

// do sends req and decodes a 2xx JSON response into out (when out is non-nil)
func (c *Client) do(ctx context.Context, req request, out any) error {
	fail := func(kind Kind, err error) *Error {
		return &Error{Kind: kind, Method: req.method, Path: req.path, Err: err}
	}

	if req.body != nil {
		if err := c.validate.Struct(req.body); err != nil {
			return fail(KindValidation, err)
		}
	}

	token := c.Token()
	if req.authed && c.auth == AuthBearer && token == "" {
		return fail(KindUnauthorized, errors.New("no access token; run 'mcctl auth demo --save' or 'mcctl auth login --save'"))
	}

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return fail(KindValidation, fmt.Errorf("encoding request body: %w", err))
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return fail(KindTransport, fmt.Errorf("creating request: %w", err))
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set(RequestIDHeader, requestID)
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.auth == AuthBearer && token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fail(KindTransport, fmt.Errorf("waiting for rate limiter: %w", err))
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug("request failed",
			"method", req.method,
			"path", req.path,
			"request_id", requestID,
			"error", err,
		)
		return fail(KindTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("request completed",
		"method", req.method,
		"path", req.path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", requestID,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Kind:       kindForStatus(resp.StatusCode),
			Method:     req.method,
			Path:       req.path,
			StatusCode: resp.StatusCode,
			Detail:     readDetail(resp.Body),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{
			Kind:       KindDecode,
			Method:     req.method,
			Path:       req.path,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decoding response: %w", err),
		}
	}

	return nil
}

// readDetail extracts the "detail" message of an error response. Validation
// errors carry a list of objects with a "msg" field; anything else is
// returned as trimmed text.
func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || len(payload.Detail) == 0 {
		return strings.TrimSpace(string(data))
	}

	var text string
	if err := json.Unmarshal(payload.Detail, &text); err == nil {
		return text
	}

	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil && len(items) > 0 {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if len(it.Loc) > 0 {
				msgs = append(msgs, fmt.Sprintf("%v: %s", it.Loc[len(it.Loc)-1], it.Msg))
			} else {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return string(payload.Detail)
}
