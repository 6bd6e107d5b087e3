package model

import (
	"time"
)

// Session is the server-side record backing an issued bearer token. Deleting
// the row revokes the token before its natural expiry; a periodic sweep
// removes rows past expires_at.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
