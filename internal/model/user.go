// Package model defines the data structures used throughout the application.
package model

import "time"

// Roles a user account can hold. Admin is the only role with write access
// to the catalog; it is created by the seeder, never via the public API.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account.
//
// PasswordHash holds a bcrypt hash and nothing else — the plaintext is
// never persisted. The `json:"-"` tag keeps the hash out of every API
// response, no matter which handler serializes the struct.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Username     string    `json:"username"  db:"username"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	Role         string    `json:"role"      db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// UserSummary is the admin-facing listing shape: identity fields only,
// never the hash or role.
type UserSummary struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
