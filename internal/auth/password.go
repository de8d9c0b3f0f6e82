// Package auth — password hashing utilities.
//
// bcrypt is deliberately slow, which makes brute-forcing stolen hashes
// expensive. It also generates and embeds a random salt per hash, so two
// users with the same password get different hashes and no separate salt
// column is needed. Never store passwords in plain text or with fast
// hashes (MD5, SHA-256).
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor. Cost 12 takes roughly ~250ms on
// a modern server — negligible for a login, brutal for an attacker.
const defaultCost = 12

// ErrPasswordMismatch is returned by Verify when the plaintext does not
// match the stored hash. Callers translate it into the generic
// invalid-credentials error so the response never reveals which check
// failed.
var ErrPasswordMismatch = errors.New("auth: password mismatch")

// PasswordService provides bcrypt hashing and verification.
//
// It's a struct (not free functions) so the cost can be injected in
// tests — cost 4 makes test suites fast without changing the logic.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the default cost (12).
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest creates a PasswordService with a custom
// (usually minimal) cost. Do NOT use in production.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash hashes the given plaintext password with bcrypt. The output is a
// self-contained string (salt and cost included) that can be stored
// directly in the database.
//
// Returns an error if the plaintext exceeds 72 bytes — bcrypt silently
// truncates longer inputs, so we reject them instead.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks whether a plaintext password matches a stored bcrypt
// hash. Returns ErrPasswordMismatch when it doesn't.
//
// bcrypt.CompareHashAndPassword compares in constant time, so response
// timing reveals nothing about how close a guess was.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
