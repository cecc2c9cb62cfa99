// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/jeranaias/ergo-tui/internal/model"
)

// Configuration constants for the tracker API.
const (
	// DefaultBaseURL is the development server address.
	DefaultBaseURL = "http://127.0.0.1:8000/api/"

	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 15 * time.Second

	// DefaultMaxRetries is how many times idempotent requests are retried
	// on transport errors and 5xx responses.
	DefaultMaxRetries = 2

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 250 * time.Millisecond

	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 10 * 1024 * 1024

	// RequestIDHeader carries a per-request UUID for correlating logs.
	RequestIDHeader = "X-Request-ID"

	userAgent = "ergo/1.0"
)

// LoginResponse is returned by login/.
type LoginResponse struct {
	Access  string     `json:"access"`
	Refresh string     `json:"refresh"`
	User    model.User `json:"user"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

type statusPatch struct {
	Status model.ProjectStatus `json:"status"`
}

// Client talks to the tracker backend.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration

	mu        sync.RWMutex
	access    string
	refresh   string
	onRefresh func(access string)
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		maxRetries: DefaultMaxRetries,
		retryDelay: retryBaseDelay,
	}, nil
}

// WithTimeout sets the request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout > 0 {
		c.httpClient.Timeout = timeout
	}
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithRateLimit throttles outgoing requests to perSec (0 disables).
func (c *Client) WithRateLimit(perSec float64) *Client {
	if perSec <= 0 {
		c.limiter = nil
		return c
	}
	burst := int(perSec)
	if burst < 1 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(rate.Limit(perSec), burst)
	return c
}

// WithRetries sets the retry count and base backoff for idempotent requests.
func (c *Client) WithRetries(maxRetries int, baseDelay time.Duration) *Client {
	c.maxRetries = maxRetries
	c.retryDelay = baseDelay
	return c
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// SetToken sets the bearer token sent with every request.
func (c *Client) SetToken(access string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.access = access
}

// SetTokens sets the access and refresh tokens. With a refresh token set,
// a 401 triggers one transparent token refresh and retry.
func (c *Client) SetTokens(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.access = access
	c.refresh = refresh
}

// ClearTokens forgets both tokens.
func (c *Client) ClearTokens() {
	c.SetTokens("", "")
}

// Token returns the current access token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.access
}

// OnRefresh registers a callback for transparently refreshed access tokens.
func (c *Client) OnRefresh(fn func(access string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onRefresh = fn
}

// =============================================================================
// ENDPOINTS
// =============================================================================

// RegisterWorker creates a worker account.
func (c *Client) RegisterWorker(ctx context.Context, reg model.Registration) (*model.User, error) {
	return c.register(ctx, "register/worker/", reg)
}

// RegisterAdmin creates an administrator account.
func (c *Client) RegisterAdmin(ctx context.Context, reg model.Registration) (*model.User, error) {
	return c.register(ctx, "register/admin/", reg)
}

// Register creates an account with the given role.
func (c *Client) Register(ctx context.Context, reg model.Registration, role model.Role) (*model.User, error) {
	if role.IsAdmin() {
		return c.RegisterAdmin(ctx, reg)
	}
	return c.RegisterWorker(ctx, reg)
}

func (c *Client) register(ctx context.Context, path string, reg model.Registration) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPost, path, nil, reg, &user, false); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for tokens and the user's profile.
// It does not store the tokens; callers decide via SetTokens.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "login/", nil, creds, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Refresh exchanges a refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context, refresh string) (string, error) {
	var resp refreshResponse
	if err := c.do(ctx, http.MethodPost, "token/refresh/", nil, refreshRequest{Refresh: refresh}, &resp, false); err != nil {
		return "", err
	}
	return resp.Access, nil
}

// Projects lists the projects visible to the current user. Workers see
// their own; administrators see all.
func (c *Client) Projects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := c.do(ctx, http.MethodGet, "projects/", nil, nil, &projects, true); err != nil {
		return nil, err
	}
	return projects, nil
}

// SearchProjects lists projects whose name contains name.
func (c *Client) SearchProjects(ctx context.Context, name string) ([]model.Project, error) {
	var projects []model.Project
	q := url.Values{"name": {name}}
	if err := c.do(ctx, http.MethodGet, "projects/search/", q, nil, &projects, true); err != nil {
		return nil, err
	}
	return projects, nil
}

// Project fetches one project.
func (c *Client) Project(ctx context.Context, id int) (*model.Project, error) {
	var p model.Project
	if err := c.do(ctx, http.MethodGet, projectPath(id), nil, nil, &p, true); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProject creates a project owned by the current user.
func (c *Client) CreateProject(ctx context.Context, in model.ProjectInput) (*model.Project, error) {
	var p model.Project
	if err := c.do(ctx, http.MethodPost, "projects/", nil, in, &p, true); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateStatus sets a project's status.
func (c *Client) UpdateStatus(ctx context.Context, id int, status model.ProjectStatus) (*model.Project, error) {
	var p model.Project
	if err := c.do(ctx, http.MethodPatch, projectPath(id), nil, statusPatch{Status: status}, &p, true); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProject removes a project.
func (c *Client) DeleteProject(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, projectPath(id), nil, nil, nil, true)
}

func projectPath(id int) string {
	return "projects/" + strconv.Itoa(id) + "/"
}

// =============================================================================
// TRANSPORT
// =============================================================================

// do performs a request and decodes a JSON response into out (when non-nil).
// Authenticated requests get one refresh-and-retry on 401.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any, authed bool) error {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	err := c.send(ctx, method, path, query, body, out, authed)
	if authed && errors.Is(err, ErrUnauthorized) && c.tryRefresh(ctx) {
		err = c.send(ctx, method, path, query, body, out, authed)
	}
	return err
}

// tryRefresh renews the access token. It reports whether a new token was stored.
func (c *Client) tryRefresh(ctx context.Context) bool {
	c.mu.RLock()
	refresh := c.refresh
	c.mu.RUnlock()
	if refresh == "" {
		return false
	}

	access, err := c.Refresh(ctx, refresh)
	if err != nil || access == "" {
		log.Printf("API token refresh failed: %v", err)
		return false
	}

	c.mu.Lock()
	c.access = access
	hook := c.onRefresh
	c.mu.Unlock()
	if hook != nil {
		hook(access)
	}
	return true
}

// send performs one logical request, retrying idempotent methods on
// transport errors and 5xx responses with exponential backoff.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body []byte, out any, authed bool) error {
	target := c.baseURL.ResolveReference(&url.URL{Path: path, RawQuery: query.Encode()})
	idempotent := method == http.MethodGet || method == http.MethodDelete

	attempts := 1
	if idempotent && c.maxRetries > 0 {
		attempts += c.maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay * time.Duration(1<<(attempt-1))):
			}
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return fmt.Errorf("rate limit: %w", err)
			}
		}

		status, respBody, err := c.roundTrip(ctx, method, target.String(), body, authed)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("%w: %v", ErrUnreachable, err)
			continue
		}

		if status >= 500 {
			lastErr = parseAPIError(status, respBody)
			continue
		}
		if status < 200 || status >= 300 {
			return parseAPIError(status, respBody)
		}

		if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		return nil
	}
	return lastErr
}

func (c *Client) roundTrip(ctx context.Context, method, target string, body []byte, authed bool) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		if token := c.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	// Headers are never logged; they carry the bearer token.
	log.Printf("API Request: %s %s id=%s", method, req.URL.Path, requestID)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	log.Printf("API Response: %d id=%s (%v)", resp.StatusCode, requestID, time.Since(start).Round(time.Millisecond))

	data, err := readResponse(resp)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, data, nil
}

// readResponse reads the response body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}
