package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultTimeout = 30 * time.Second

	// sessionCookieName matches the cookie the server sets on session
	// creation.
	sessionCookieName = "session_token"

	// apiPrefix is the path the portal mounts its REST routes under.
	apiPrefix = "/api"
)

// CookieStore persists the session cookie across process runs. The browser
// keeps this in its cookie jar; a CLI has to do it explicitly.
type CookieStore interface {
	LoadSessionCookie() (string, error)
	SaveSessionCookie(value string) error
	ClearSessionCookie() error
}

// Client issues authenticated calls against the portal API. The base origin
// is resolved once at construction and never re-derived, so the session
// cookie stays scoped to a single origin. Calls are never retried here.
type Client struct {
	base    *url.URL
	http    *http.Client
	cookies CookieStore
	logger  zerolog.Logger
}

// New creates a client for the given origin (scheme://host, no trailing
// path). A previously persisted session cookie is loaded into the jar so
// every call carries it automatically.
func New(origin string, cookies CookieStore, logger zerolog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(origin, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("server url %q must include scheme and host", origin)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("init cookie jar: %w", err)
	}

	c := &Client{
		base:    base,
		http:    &http.Client{Jar: jar, Timeout: defaultTimeout},
		cookies: cookies,
		logger:  logger,
	}

	if cookies != nil {
		if v, err := cookies.LoadSessionCookie(); err == nil && v != "" {
			jar.SetCookies(base, []*http.Cookie{{Name: sessionCookieName, Value: v, Path: "/"}})
		}
	}
	return c, nil
}

// Origin returns the resolved base origin.
func (c *Client) Origin() string { return c.base.String() }

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + apiPrefix + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// doJSON executes one request and decodes a JSON response into out (when
// out is non-nil). Transport failures wrap ErrNetwork; HTTP failures map
// to the error taxonomy by status.
func (c *Client) doJSON(ctx context.Context, op, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return wrapError(op, 0, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("op", op).Str("method", method).Str("path", path).Msg("api request")

	resp, err := c.http.Do(req)
	if err != nil {
		return wrapError(op, 0, fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		// Drain a little of the body for the log, then discard.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Debug().Str("op", op).Int("status", resp.StatusCode).
			Str("body", string(snippet)).Msg("api error response")
		return wrapError(op, resp.StatusCode, err)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return wrapError(op, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// doBytes executes one request and returns the raw response body. Used for
// opaque payloads (QR images).
func (c *Client) doBytes(ctx context.Context, op, path string, query url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, query), nil)
	if err != nil {
		return nil, wrapError(op, 0, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, wrapError(op, 0, fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		return nil, wrapError(op, resp.StatusCode, err)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapError(op, resp.StatusCode, fmt.Errorf("read response: %w", err))
	}
	return b, nil
}

func statusError(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized:
		return ErrAuthRequired
	case code == http.StatusForbidden:
		return ErrRejected
	case code == http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("unexpected status %d", code)
	}
}

func jsonBody(v any) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}
