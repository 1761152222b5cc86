// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/apperr"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/constants"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/dberr"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/sec"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/validate"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/pkg/uuidv7"
)

// TokenProvider abstracts the JWT layer for testing.
type TokenProvider interface {
	GenerateAccessToken(userID, username, role, sessionID string, timeToLive time.Duration) (string, error)
	VerifyToken(tokenString string) (*sec.AuthClaims, error)
}

type Service struct {
	accounts AccountRepository
	sessions SessionRepository
	tokens   TokenProvider
	logger   *slog.Logger
}

func NewService(accounts AccountRepository, sessions SessionRepository, tokens TokenProvider, logger *slog.Logger) *Service {
	return &Service{
		accounts: accounts,
		sessions: sessions,
		tokens:   tokens,
		logger:   logger,
	}
}

// Login verifies credentials and issues an access token backed by a Redis
// session.
//
// Lookup misses and password mismatches return the same Unauthorized
// message so the endpoint does not reveal which usernames exist.
func (service *Service) Login(context context.Context, username, password string) (*TokenResponse, error) {
	validator := &validate.Validator{}
	validator.
		Required(FieldUsername, username).
		Required(FieldPassword, password)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	account, err := service.accounts.GetByUsername(context, username)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.Unauthorized("Invalid username or password")
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(password, account.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid username or password")
	}

	if !account.IsActive {
		return nil, apperr.Forbidden("Account is disabled")
	}

	sessionID := uuidv7.New()
	if err := service.sessions.Set(context, sessionID, account.ID, constants.SessionTTL); err != nil {
		return nil, apperr.Internal(err)
	}

	token, err := service.tokens.GenerateAccessToken(
		account.ID, account.Username, string(account.Role), sessionID, constants.AccessTokenTTL,
	)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	service.logger.Info("login_successful",
		slog.String("account_id", account.ID),
		slog.String("username", account.Username),
	)

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(constants.AccessTokenTTL.Seconds()),
		Account:     account,
	}, nil
}

// VerifyToken implements [middleware.TokenVerifier].
//
// A structurally valid token whose session is gone (logout, expiry, manual
// revocation) is rejected here, which is the whole point of pairing JWTs
// with server-side sessions.
func (service *Service) VerifyToken(context context.Context, tokenString string) (*sec.AuthClaims, error) {
	claims, err := service.tokens.VerifyToken(tokenString)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}

	if claims.ID == "" {
		return nil, apperr.Unauthorized("Token carries no session")
	}

	accountID, err := service.sessions.Get(context, claims.ID)
	if err != nil {
		return nil, err
	}
	if accountID != claims.UserID {
		return nil, apperr.Unauthorized("Session does not match token")
	}

	return claims, nil
}

// Logout revokes the session behind the presented claims.
func (service *Service) Logout(context context.Context, claims *sec.AuthClaims) error {
	if claims == nil || claims.ID == "" {
		return apperr.Unauthorized("Authentication required")
	}

	if err := service.sessions.Delete(context, claims.ID); err != nil {
		return apperr.Internal(err)
	}

	service.logger.Info("logout", slog.String("account_id", claims.UserID))
	return nil
}

// CreateAccountInput is the admin-supplied payload for a new staff account.
type CreateAccountInput struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// CreateAccount provisions a staff account. Admin-only at the route level.
func (service *Service) CreateAccount(context context.Context, input CreateAccountInput) (*Account, error) {
	if input.Role == "" {
		input.Role = string(sec.RoleLibrarian)
	}

	validator := &validate.Validator{}
	validator.
		Required(FieldUsername, input.Username).
		MaxLen(FieldUsername, input.Username, MaxUsernameLength).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		Required(FieldDisplayName, input.DisplayName).
		MaxLen(FieldDisplayName, input.DisplayName, 120).
		OneOf(FieldRole, input.Role, string(sec.RoleAdmin), string(sec.RoleLibrarian))

	if err := validator.Err(); err != nil {
		return nil, err
	}

	hash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	account := &Account{
		ID:           uuidv7.New(),
		Username:     input.Username,
		PasswordHash: hash,
		DisplayName:  input.DisplayName,
		Role:         sec.UserRole(input.Role),
	}

	if err := service.accounts.Create(context, account); err != nil {
		return nil, err
	}

	service.logger.Info("account_created",
		slog.String("account_id", account.ID),
		slog.String("username", account.Username),
		slog.String("role", string(account.Role)),
	)

	return account, nil
}

// GetAccount fetches one account by ID.
func (service *Service) GetAccount(context context.Context, id string) (*Account, error) {
	return service.accounts.GetByID(context, id)
}

// ListAccounts returns every staff account.
func (service *Service) ListAccounts(context context.Context) ([]*Account, error) {
	accounts, err := service.accounts.List(context)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []*Account{}
	}
	return accounts, nil
}

// SetAccountActive enables or disables an account. Disabling does not kill
// live sessions; those age out with their TTL.
func (service *Service) SetAccountActive(context context.Context, id string, active bool) error {
	if err := service.accounts.SetActive(context, id, active); err != nil {
		return err
	}

	service.logger.Warn("account_active_changed",
		slog.String("account_id", id),
		slog.Bool("active", active),
	)
	return nil
}
