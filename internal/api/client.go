package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/flywindva/hicrew-tui/internal/logging"
	"github.com/flywindva/hicrew-tui/internal/session"
)

// ResourceClient is the collection-endpoint contract the resource managers
// depend on. Implemented by *Client; fakes implement it in tests.
type ResourceClient interface {
	List(ctx context.Context, resource string) ([]Record, error)
	Create(ctx context.Context, resource string, payload map[string]any) (Record, error)
	Update(ctx context.Context, resource, id string, payload map[string]any) (Record, error)
	Delete(ctx context.Context, resource, id string) error
}

// Ensure Client implements ResourceClient at compile time.
var _ ResourceClient = (*Client)(nil)

// TokenSource supplies the bearer token and receives the global 401 signal.
// Satisfied by *session.Store.
type TokenSource interface {
	Token() string
	Invalidate()
}

// Client talks to the HiCrew HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	session   TokenSource
	log       zerolog.Logger
}

const (
	defaultUserAgent = "hicrew-tui/0.1"
	requestTimeout   = 10 * time.Second
)

// NewClient builds a Client for the given API base URL. The session supplies
// the bearer token for authorized calls and is invalidated on the first 401.
func NewClient(baseURL string, sess TokenSource) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		session:   sess,
		log:       logging.WithComponent("api"),
	}, nil
}

// List retrieves the full collection for a resource.
func (c *Client) List(ctx context.Context, resource string) ([]Record, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, resourcePath(resource), nil, &raw); err != nil {
		return nil, err
	}
	return unwrapList(raw, resource)
}

// Create adds a record to a collection and returns the server's copy.
func (c *Client) Create(ctx context.Context, resource string, payload map[string]any) (Record, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, resourcePath(resource), payload, &raw); err != nil {
		return nil, err
	}
	return unwrapRecord(raw, resource)
}

// Update patches a record and returns the server's updated copy.
func (c *Client) Update(ctx context.Context, resource, id string, payload map[string]any) (Record, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPatch, resourcePath(resource, id), payload, &raw); err != nil {
		return nil, err
	}
	return unwrapRecord(raw, resource)
}

// Delete removes a record from a collection.
func (c *Client) Delete(ctx context.Context, resource, id string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodDelete, resourcePath(resource, id), nil, nil)
}

// authResponse mirrors the /auth/login and /auth/register payloads.
type authResponse struct {
	Token string               `json:"token"`
	Pilot session.PilotSummary `json:"pilot"`
}

// Login exchanges credentials for a token and pilot summary. A 401 here means
// bad credentials, not an expired session; the stored session is untouched.
func (c *Client) Login(ctx context.Context, email, password string) (string, session.PilotSummary, error) {
	payload := map[string]any{"email": email, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", payload, &resp); err != nil {
		return "", session.PilotSummary{}, err
	}
	return resp.Token, resp.Pilot, nil
}

// Register creates a pilot account and logs it in.
func (c *Client) Register(ctx context.Context, payload map[string]any) (string, session.PilotSummary, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", payload, &resp); err != nil {
		return "", session.PilotSummary{}, err
	}
	return resp.Token, resp.Pilot, nil
}

// Me fetches the pilot summary for the current token. Used to restore a
// persisted session on startup.
func (c *Client) Me(ctx context.Context) (session.PilotSummary, error) {
	var resp struct {
		Pilot session.PilotSummary `json:"pilot"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &resp); err != nil {
		return session.PilotSummary{}, err
	}
	return resp.Pilot, nil
}

// DeleteAccount removes the current pilot's account.
func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/auth/me", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	// Paths resolve relative to the base URL so a base like /api is preserved.
	rel := &url.URL{Path: strings.TrimPrefix(path, "/")}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	authed := false
	if c.session != nil {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
			authed = true
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Str("method", method).Str("path", path).Err(err).Msg("request failed")
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized && authed {
		// The only globally-handled failure: an expired or revoked token
		// ends the session no matter which manager triggered the call.
		c.log.Info().Str("path", path).Msg("token rejected, ending session")
		c.session.Invalidate()
		return &Error{Status: resp.StatusCode, Message: "session expired, please log in again"}
	}
	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if dest == nil {
		return nil
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func resourcePath(resource string, id ...string) string {
	parts := append([]string{strings.Trim(resource, "/")}, id...)
	return strings.Join(parts, "/")
}

func parseBaseURL(base string) (*url.URL, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		return nil, fmt.Errorf("api base url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base url %q: %w", base, err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/"
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
