package models

import "time"

// RefreshToken is an opaque session token stored server-side. Password
// resets delete every row of the account.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// ExpiredAt reports whether the token can no longer be exchanged at now.
func (t *RefreshToken) ExpiredAt(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
