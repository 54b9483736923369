package domain

import (
	"strings"
	"time"
)

// User represents an authenticated user account in the system.
type User struct {
	Entity
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	LastLoginAt  time.Time `json:"last_login_at"`
}

// NormalizeEmail canonicalizes an email address for storage.
// The domain portion is lower-cased; the local part keeps the case the
// user supplied ("Dot.Matters@EXAMPLE.com" becomes "Dot.Matters@example.com").
// Surrounding whitespace is trimmed. Addresses without an @ pass through
// untouched so validation can reject them with a proper message.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

// LoginEmail returns the fully lower-cased form used for case-insensitive lookup.
func LoginEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
