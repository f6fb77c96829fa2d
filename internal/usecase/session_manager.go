package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"idp-hub/internal/domain"
)

// SessionManager owns the single admin session to the identity provider
// and renews it lazily. The tracked expiry is a conservative window,
// deliberately shorter than the provider's actual token lifetime, so the
// service never operates on a silently expired token.
//
// The check-then-act renewal is mutex-guarded: commands run concurrently
// under the HTTP server, and an unguarded expiry check would let a herd of
// requests race into redundant credential exchanges.
type SessionManager struct {
	auth     domain.Authenticator
	username string
	password string
	ttl      time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	session domain.Session
	now     func() time.Time
}

// NewSessionManager creates a session manager. No credential exchange
// happens until the first Ensure call.
func NewSessionManager(auth domain.Authenticator, username, password string, ttl time.Duration, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		auth:     auth,
		username: username,
		password: password,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Ensure returns a live access token, performing a credential exchange only
// when the tracked session is missing or past its window. On exchange
// failure the session is marked unauthenticated and a
// *domain.AuthenticationError is returned; the next call retries.
func (m *SessionManager) Ensure(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session.Live(m.now()) {
		return m.session.AccessToken, nil
	}

	token, err := m.auth.Authenticate(ctx, m.username, m.password)
	if err != nil {
		m.session = domain.Session{}
		m.logger.ErrorContext(ctx, "admin credential exchange failed", "error", err)
		return "", &domain.AuthenticationError{Cause: err}
	}

	m.session = domain.Session{
		AccessToken:   token,
		Authenticated: true,
		ExpiresAt:     m.now().Add(m.ttl),
	}
	m.logger.InfoContext(ctx, "admin session renewed", "ttl", m.ttl.String())
	return token, nil
}
