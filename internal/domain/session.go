package domain

import "time"

// Session represents a persisted login session. The token is the refresh
// token handed to the client; short-lived access tokens are derived from it
// and never stored.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the session expired at the given time.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
