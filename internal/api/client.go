package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/logging"
	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/tenant"
)

const (
	defaultHTTPTimeout = 30 * time.Second

	headerTenant    = "X-Tenant-Id"
	headerRequestID = "X-Request-Id"
	headerTopUpURL  = "X-Topup-Url"

	maxErrorBodyBytes = 4096
)

// Client dispatches JSON (and multipart) requests to the backend.
type Client struct {
	baseURL *url.URL
	tctx    *tenant.Context
	http    *http.Client
	logger  *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout overrides the default per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "api")
		}
	}
}

// New constructs a transport bound to the given tenant context.
func New(baseURL string, tctx *tenant.Context, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("api: base url is required")
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("api: parse base url: %w", err)
	}
	if tctx == nil {
		return nil, fmt.Errorf("api: tenant context is required")
	}
	client := &Client{
		baseURL: parsed,
		tctx:    tctx,
		http:    &http.Client{Timeout: defaultHTTPTimeout},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Tenant returns the tenant context requests are stamped from.
func (c *Client) Tenant() *tenant.Context {
	return c.tctx
}

// Get issues a GET request and decodes the JSON response into out when
// out is non-nil.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	return c.do(req, out)
}

// Post issues a POST request with a JSON body (nil for empty) and decodes
// the JSON response into out when out is non-nil.
func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.sendJSON(ctx, http.MethodPost, path, body, out)
}

// PostQuery issues a bodyless POST request carrying query parameters, used
// by the one-time-token endpoints.
func (c *Client) PostQuery(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	return c.do(req, out)
}

// Put issues a PUT request with a JSON body and decodes the JSON response
// into out when out is non-nil.
func (c *Client) Put(ctx context.Context, path string, body any, out any) error {
	return c.sendJSON(ctx, http.MethodPut, path, body, out)
}

// PostMultipart uploads a single file as a multipart body. The whole payload
// is buffered before dispatch; semantic validation is the server's concern.
func (c *Client) PostMultipart(ctx context.Context, path, field, filename string, r io.Reader, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("api: create multipart field: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("api: buffer upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("api: finalize multipart body: %w", err)
	}

	endpoint := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), &buf)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.do(req, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	endpoint := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	snapshot := c.tctx.Snapshot()
	if snapshot.TenantID == "" {
		// Dispatch without a tenant is a caller bug, not a recoverable
		// condition.
		panic("api: request dispatched without a tenant id")
	}

	requestID := uuid.NewString()
	req.Header.Set(headerTenant, snapshot.TenantID)
	req.Header.Set(headerRequestID, requestID)
	req.Header.Set("Accept", "application/json")
	if snapshot.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+snapshot.Token)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		logging.String("method", req.Method),
		logging.String("path", req.URL.Path),
		logging.Int("status", resp.StatusCode),
		logging.Duration("elapsed", time.Since(started)),
		logging.String(logging.FieldTenant, snapshot.TenantID),
		logging.String(logging.FieldRequestID, requestID))

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeFailure(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}

// decodeFailure is the single place status codes become typed errors.
func decodeFailure(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	payload := strings.TrimSpace(string(body))

	switch resp.StatusCode {
	case http.StatusPaymentRequired:
		return &InsufficientCreditError{
			RemediationURL: strings.TrimSpace(resp.Header.Get(headerTopUpURL)),
			Payload:        payload,
		}
	case http.StatusNotFound:
		return &NotFoundError{Resource: detailFromBody(payload)}
	default:
		return &RemoteError{Status: resp.StatusCode, Body: payload}
	}
}

// detailFromBody pulls FastAPI-style {"detail": "..."} messages out of error
// payloads, falling back to the raw body.
func detailFromBody(payload string) string {
	var wrapper struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal([]byte(payload), &wrapper); err == nil && wrapper.Detail != "" {
		return wrapper.Detail
	}
	return payload
}

// Detail exposes detailFromBody to the service packages translating
// RemoteError bodies.
func Detail(payload string) string {
	return detailFromBody(payload)
}
