// Package models defines the client-side data model: users and sessions
// owned by the console, and read-only snapshots of backend resources
// (cluster, wallet, transactions, setup ceremonies).
package models

import "time"

// Role is a closed enum; every decision point must handle both values
// explicitly so a third role cannot silently fall through.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is an account known to the console. CreatedAt is nil for seed users.
type User struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Role      Role       `json:"role"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// Session is the single authenticated session of the client process.
// The token is self-describing: it encodes the subject id, role and expiry.
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session has passed its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
