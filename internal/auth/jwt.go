// Package auth provides JWT token handling, password hashing, and the
// request guards built on top of them.
//
// AUTHENTICATION FLOW:
//  1. Client POSTs username/password to /api/login
//  2. Server verifies the bcrypt hash and issues a signed token encoding
//     {sub: userID, username, role} with a fixed 1-hour expiry
//  3. Client presents the token as "Authorization: Bearer <token>"
//  4. The guards in middleware.go validate it on each protected request
//
// The token is stateless — the server keeps no session table. The HMAC
// signature ensures nobody can mint or alter a token without the secret.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed lifetime of an issued token. After expiry the
// client must log in again; there is no refresh flow.
const TokenTTL = time.Hour

const issuer = "snippet-catalog"

// TokenService signs and verifies access tokens. The same HMAC secret is
// used for both operations.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// Claims is the token payload. The registered "sub" claim carries the
// user's internal ID; username and role are custom claims so the guard
// can authorize without a database lookup.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Generate creates and signs a token for the given user with the
// standard 1-hour lifetime.
func (s *TokenService) Generate(userID, username, role string) (string, error) {
	return s.GenerateWithDuration(userID, username, role, TokenTTL)
}

// GenerateWithDuration creates a token with a custom expiry. Used by
// tests to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID, username, role string, d time.Duration) (string, error) {
	now := time.Now()

	c := Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string and returns its claims.
//
// The jwt library checks the signature, the expiry, and the issuer.
// Passing jwt.WithValidMethods pins the algorithm to HS256 — without it
// an attacker could attempt an algorithm-confusion attack with a token
// signed using "none".
func (s *TokenService) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("auth: token expired")
		}
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("auth: token has no subject")
	}

	return c, nil
}
