package domain

import "time"

// Session tracks the authenticated admin session to the identity provider.
// ExpiresAt is a conservative window tracked locally; it is treated as
// authoritative regardless of the provider's actual token lifetime.
type Session struct {
	AccessToken   string
	Authenticated bool
	ExpiresAt     time.Time
}

// Live reports whether the session can still be used at the given instant.
func (s Session) Live(now time.Time) bool {
	return s.Authenticated && now.Before(s.ExpiresAt)
}
