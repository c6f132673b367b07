// Package api implements the HTTP client for the Fuze bookmark service.
//
// The client wraps the service's REST surface (create, delete, list, auth,
// bulk import) and its import progress feed, and converts every transport or
// response failure into the package's error taxonomy so callers never see a
// raw *url.Error or status code.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/fuze/cli/internal/cache"
	"github.com/fuze/cli/pkg/urlnorm"
)

const (
	// healthTimeout bounds the liveness probe.
	healthTimeout = 10 * time.Second

	// importSubmitTimeout bounds the bulk import submission. Progress
	// fetches deliberately carry no per-request deadline; the caller's
	// overall monitoring timeout bounds them.
	importSubmitTimeout = 30 * time.Second
)

// Client talks to a Fuze deployment on behalf of one session.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
	cache   *cache.IdentityCache
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client. The caller becomes
// responsible for attaching the bearer token.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpc = hc }
}

// WithCache shares an identity cache across clients. Without it each client
// owns a private cache.
func WithCache(ic *cache.IdentityCache) Option {
	return func(c *Client) { c.cache = ic }
}

// New builds a client for the given base URL and bearer token. Either may be
// empty; calls that need the missing piece fail with ErrUnconfigured or
// ErrUnauthenticated instead of sending partial credentials.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache = cache.New()
	}
	if c.httpc == nil {
		if token != "" {
			src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
			c.httpc = oauth2.NewClient(context.Background(), src)
		} else {
			c.httpc = &http.Client{}
		}
	}
	return c
}

// Cache exposes the identity cache, mainly for tests and for sharing with a
// second client after re-login.
func (c *Client) Cache() *cache.IdentityCache { return c.cache }

// SessionReady reports whether the client holds a complete session. It
// performs no I/O; callers use it to fail fast before starting work.
func (c *Client) SessionReady() error { return c.checkSession() }

// checkSession enforces the all-or-nothing session invariant.
func (c *Client) checkSession() error {
	if c.baseURL == "" {
		return ErrUnconfigured
	}
	if c.token == "" {
		return ErrUnauthenticated
	}
	return nil
}

// do executes a JSON request. Transport failures come back as *NetworkError;
// the response is returned as-is for the caller to interpret.
func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	return resp, nil
}

// remoteError drains the body and builds a *RemoteError from a non-2xx
// response. The service reports failures as {"message": "..."}.
func remoteError(resp *http.Response) error {
	defer resp.Body.Close()
	var payload struct {
		Message string `json:"message"`
	}
	// A non-JSON error body is fine; the status code alone is enough.
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&payload)
	return &RemoteError{StatusCode: resp.StatusCode, Message: payload.Message}
}

func ok(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// Create stores a bookmark. The second return value reports whether the
// server treated it as an update of an existing record. On success the
// identity cache learns the record's ID.
func (c *Client) Create(ctx context.Context, b Bookmark) (*Bookmark, bool, error) {
	if err := c.checkSession(); err != nil {
		return nil, false, err
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	resp, err := c.do(ctx, http.MethodPost, "/api/bookmarks", b)
	if err != nil {
		return nil, false, err
	}
	if !ok(resp) {
		return nil, false, remoteError(resp)
	}
	defer resp.Body.Close()
	var payload struct {
		Bookmark     Bookmark `json:"bookmark"`
		WasDuplicate bool     `json:"wasDuplicate"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("decode create response: %w", err)
	}
	if payload.Bookmark.ID != "" {
		c.cache.Set(urlnorm.Normalize(b.URL), payload.Bookmark.ID)
	}
	return &payload.Bookmark, payload.WasDuplicate, nil
}

// List fetches every bookmark for the session's account.
func (c *Client) List(ctx context.Context) ([]Bookmark, error) {
	if err := c.checkSession(); err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, http.MethodGet, "/api/bookmarks", nil)
	if err != nil {
		return nil, err
	}
	if !ok(resp) {
		return nil, remoteError(resp)
	}
	defer resp.Body.Close()
	var payload struct {
		Bookmarks []Bookmark `json:"bookmarks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode list response: %w", err)
	}
	return payload.Bookmarks, nil
}

// resolveID maps a URL to its remote record ID: identity cache first, then a
// full list fetch matched on the normalized URL. Returns ErrNotFound when no
// record matches.
func (c *Client) resolveID(ctx context.Context, rawURL string) (string, error) {
	norm := urlnorm.Normalize(rawURL)
	if id, hit := c.cache.Get(norm); hit {
		return id, nil
	}
	all, err := c.List(ctx)
	if err != nil {
		return "", err
	}
	for _, b := range all {
		if urlnorm.Normalize(b.URL) == norm {
			c.cache.Set(norm, b.ID)
			return b.ID, nil
		}
	}
	return "", ErrNotFound
}

// DeleteByURL removes the bookmark whose URL matches rawURL. The record is
// resolved to an ID (cache, then list fetch) and deleted by ID; if the
// delete call itself fails, one retry goes through the delete-by-URL
// endpoint before the failure surfaces. Lookup failures are not retried.
// The cache entry is invalidated only after a confirmed delete.
func (c *Client) DeleteByURL(ctx context.Context, rawURL string) error {
	if err := c.checkSession(); err != nil {
		return err
	}
	norm := urlnorm.Normalize(rawURL)
	id, err := c.resolveID(ctx, rawURL)
	if err != nil {
		return err
	}

	if err := c.deleteByID(ctx, id); err != nil {
		// The ID may be stale (record re-created server-side); the URL is
		// the only durable key, so try the URL endpoint once.
		if urlErr := c.deleteByNormalizedURL(ctx, norm); urlErr != nil {
			return urlErr
		}
	}
	c.cache.Remove(norm)
	return nil
}

func (c *Client) deleteByID(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/api/bookmarks/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	if !ok(resp) {
		return remoteError(resp)
	}
	resp.Body.Close()
	return nil
}

func (c *Client) deleteByNormalizedURL(ctx context.Context, norm string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/api/bookmarks/url/"+url.PathEscape(norm), nil)
	if err != nil {
		return err
	}
	if !ok(resp) {
		return remoteError(resp)
	}
	resp.Body.Close()
	return nil
}

// Login exchanges credentials for a bearer token. It needs only the base
// URL; the client's own token is not used.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	if c.baseURL == "" {
		return "", ErrUnconfigured
	}
	body := map[string]string{"email": email, "password": password}
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/login", body)
	if err != nil {
		return "", err
	}
	if !ok(resp) {
		return "", remoteError(resp)
	}
	defer resp.Body.Close()
	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("login response carried no access token")
	}
	return payload.AccessToken, nil
}

// Verify probes whether the session token is still accepted. nil means
// valid; *RemoteError means the server rejected the token; *NetworkError
// means the server could not be reached and nothing can be concluded about
// the token.
func (c *Client) Verify(ctx context.Context) error {
	if err := c.checkSession(); err != nil {
		return err
	}
	resp, err := c.do(ctx, http.MethodGet, "/api/auth/verify", nil)
	if err != nil {
		return err
	}
	if !ok(resp) {
		return remoteError(resp)
	}
	resp.Body.Close()
	return nil
}

// Health checks service liveness. No authentication required.
func (c *Client) Health(ctx context.Context) error {
	if c.baseURL == "" {
		return ErrUnconfigured
	}
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	resp, err := c.do(ctx, http.MethodGet, "/api/health", nil)
	if err != nil {
		return err
	}
	if !ok(resp) {
		return remoteError(resp)
	}
	resp.Body.Close()
	return nil
}

// StartImport submits a bulk import job. The call returns once the server
// accepts the job; its outcome is observed through the progress feed, never
// through this call.
func (c *Client) StartImport(ctx context.Context, items []ImportItem) error {
	if err := c.checkSession(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, importSubmitTimeout)
	defer cancel()
	resp, err := c.do(ctx, http.MethodPost, "/api/bookmarks/import", items)
	if err != nil {
		return err
	}
	if !ok(resp) {
		return remoteError(resp)
	}
	resp.Body.Close()
	return nil
}

// ImportProgress fetches the latest progress snapshot for the account's
// import job.
func (c *Client) ImportProgress(ctx context.Context) (Snapshot, error) {
	if err := c.checkSession(); err != nil {
		return Snapshot{}, err
	}
	resp, err := c.do(ctx, http.MethodGet, "/api/bookmarks/import/progress", nil)
	if err != nil {
		return Snapshot{}, err
	}
	if !ok(resp) {
		return Snapshot{}, remoteError(resp)
	}
	defer resp.Body.Close()
	var snap Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode progress snapshot: %w", err)
	}
	return snap, nil
}

// FollowImportProgress opens the Server-Sent-Events progress feed. A nil
// error is the dedicated stream-started signal: the server has accepted the
// subscription, even though the first event may still be a while away.
func (c *Client) FollowImportProgress(ctx context.Context) (*ProgressStream, error) {
	if err := c.checkSession(); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/bookmarks/import/progress/stream", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	if !ok(resp) {
		return nil, remoteError(resp)
	}
	return newProgressStream(resp.Body), nil
}
