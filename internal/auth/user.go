// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

/*
Package auth implements staff identity for the reporting service.

Accounts live in the application-owned database (never in Koha); sessions
live in Redis so a logout takes effect immediately even though access
tokens are stateless JWTs.

# Architecture

The service implements [middleware.TokenVerifier]: verifying a token checks
both the RS256 signature and that the embedded session is still alive in
Redis. Revoking the session kills the token before its expiry.
*/
package auth

import (
	"time"

	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/sec"
)

// # Domain Entities

// Account is a staff login for the reporting service.
type Account struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	DisplayName  string       `json:"display_name"`
	Role         sec.UserRole `json:"role"`
	IsActive     bool         `json:"is_active"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// TokenResponse is the login response payload.
type TokenResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int      `json:"expires_in"`
	Account     *Account `json:"account"`
}

// # Field Identifiers

const (
	FieldUsername    = "username"
	FieldPassword    = "password"
	FieldDisplayName = "display_name"
	FieldRole        = "role"
)

// # Constraints

const (
	// MinPasswordLength applies to new accounts, not logins, so legacy
	// passwords keep working until rotated.
	MinPasswordLength = 10

	// MaxUsernameLength bounds the login identifier.
	MaxUsernameLength = 60
)
