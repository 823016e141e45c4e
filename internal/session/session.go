// Package session owns process-wide authentication state: resolving a
// one-time login token or an existing server-side session into either an
// authenticated user or the anonymous state.
package session

import (
	"context"

	"lostaf-cli/internal/model"

	"github.com/rs/zerolog"
)

type State int

const (
	StateUninitialized State = iota
	StateResolving
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateResolving:
		return "resolving"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Backend is the slice of the portal API the manager needs.
type Backend interface {
	CreateSession(ctx context.Context, sessionID string) (*model.User, error)
	Me(ctx context.Context) (*model.User, error)
	Logout(ctx context.Context) error
}

// Store provides the persisted pieces of session state: the pending
// one-time token handoff and the session cookie.
type Store interface {
	TakePendingSessionID(ctx context.Context) (string, error)
	ClearSessionCookie() error
}

// Manager is the single writer of authentication state. Init runs before
// any view mounts, so dependents only ever observe authenticated or
// anonymous.
type Manager struct {
	api    Backend
	store  Store
	logger zerolog.Logger

	state State
	user  *model.User
}

func NewManager(api Backend, st Store, logger zerolog.Logger) *Manager {
	return &Manager{api: api, store: st, logger: logger, state: StateUninitialized}
}

func (m *Manager) State() State { return m.state }

// User returns the session's user snapshot, or nil when anonymous.
func (m *Manager) User() *model.User { return m.user }

func (m *Manager) Authenticated() bool { return m.state == StateAuthenticated }

// Init resolves the session exactly once per process:
//
//   - A pending one-time session_id (stored by `lostaf login`) is consumed
//     and exchanged. Consumption happens before the exchange and is never
//     undone, so the token cannot be retried whatever the outcome. A failed
//     exchange resolves to anonymous.
//   - Otherwise /auth/me decides. Any failure there, unauthorized included,
//     is the expected anonymous outcome, never an error.
//
// Subsequent calls return the already-resolved state.
func (m *Manager) Init(ctx context.Context) State {
	if m.state != StateUninitialized {
		return m.state
	}
	m.state = StateResolving

	sessionID, err := m.store.TakePendingSessionID(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Msg("read pending session token")
	}

	if sessionID != "" {
		user, err := m.api.CreateSession(ctx, sessionID)
		if err != nil {
			m.logger.Info().Err(err).Msg("session token exchange failed")
			m.state = StateAnonymous
			return m.state
		}
		m.user = user
		m.state = StateAuthenticated
		m.logger.Info().Str("user", user.ID).Msg("session established from login token")
		return m.state
	}

	user, err := m.api.Me(ctx)
	if err != nil {
		// Expected for a signed-out client; not surfaced anywhere.
		m.logger.Debug().Err(err).Msg("no existing session")
		m.state = StateAnonymous
		return m.state
	}
	m.user = user
	m.state = StateAuthenticated
	return m.state
}

// Logout ends the session. The server call is best-effort: local state is
// cleared unconditionally so a stale session can never outlive a
// user-initiated logout.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.api.Logout(ctx); err != nil {
		m.logger.Warn().Err(err).Msg("server logout failed; clearing local session anyway")
	}
	if err := m.store.ClearSessionCookie(); err != nil {
		m.logger.Warn().Err(err).Msg("clear persisted session cookie")
	}
	m.user = nil
	m.state = StateAnonymous
}
