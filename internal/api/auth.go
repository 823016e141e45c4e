package api

import (
	"context"
	"net/http"

	"lostaf-cli/internal/model"
)

// CreateSession exchanges a one-time session_id for an authenticated
// session. The token is single-use; a failed exchange must not be retried
// with the same token (the session manager enforces that).
func (c *Client) CreateSession(ctx context.Context, sessionID string) (*model.User, error) {
	body, err := jsonBody(map[string]string{"session_id": sessionID})
	if err != nil {
		return nil, wrapError("createSession", 0, err)
	}

	var out struct {
		User         model.User `json:"user"`
		SessionToken string     `json:"session_token"`
	}
	if err := c.doJSON(ctx, "createSession", http.MethodPost, "/auth/session", nil, body, "application/json", &out); err != nil {
		return nil, err
	}

	// The server also sets the cookie on the response; persist it so the
	// next process run starts authenticated.
	if c.cookies != nil && out.SessionToken != "" {
		if err := c.cookies.SaveSessionCookie(out.SessionToken); err != nil {
			c.logger.Warn().Err(err).Msg("persist session cookie")
		}
		c.http.Jar.SetCookies(c.base, []*http.Cookie{{Name: sessionCookieName, Value: out.SessionToken, Path: "/"}})
	}
	return &out.User, nil
}

// Me returns the current user, or ErrAuthRequired when the session cookie
// is missing or expired.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := c.doJSON(ctx, "me", http.MethodGet, "/auth/me", nil, nil, "", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Logout invalidates the server-side session. Best-effort: callers clear
// local state regardless of the result.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, "logout", http.MethodPost, "/auth/logout", nil, nil, "", nil)
}
