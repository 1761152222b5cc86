// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

package auth_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/auth"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/apperr"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/dberr"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/sec"
)

// fakeAccounts holds accounts keyed by username.
type fakeAccounts struct {
	byUsername map[string]*auth.Account
	created    *auth.Account
}

func (f *fakeAccounts) Create(_ context.Context, account *auth.Account) error {
	if _, exists := f.byUsername[account.Username]; exists {
		return apperr.Conflict("Username is already taken")
	}
	f.created = account
	return nil
}

func (f *fakeAccounts) GetByID(_ context.Context, id string) (*auth.Account, error) {
	for _, account := range f.byUsername {
		if account.ID == id {
			return account, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (f *fakeAccounts) GetByUsername(_ context.Context, username string) (*auth.Account, error) {
	if account, ok := f.byUsername[username]; ok {
		return account, nil
	}
	return nil, dberr.ErrNotFound
}

func (f *fakeAccounts) List(_ context.Context) ([]*auth.Account, error) {
	return nil, nil
}

func (f *fakeAccounts) SetActive(_ context.Context, _ string, _ bool) error {
	return nil
}

// fakeSessions is an in-memory SessionRepository.
type fakeSessions struct {
	store map[string]string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{store: map[string]string{}}
}

func (f *fakeSessions) Set(_ context.Context, sessionID, accountID string, _ time.Duration) error {
	f.store[sessionID] = accountID
	return nil
}

func (f *fakeSessions) Get(_ context.Context, sessionID string) (string, error) {
	if accountID, ok := f.store[sessionID]; ok {
		return accountID, nil
	}
	return "", apperr.Unauthorized("Session is invalid or expired")
}

func (f *fakeSessions) Delete(_ context.Context, sessionID string) error {
	delete(f.store, sessionID)
	return nil
}

// fakeTokens fabricates tokens of the form "token:<sessionID>" so VerifyToken
// can be exercised without RSA keys.
type fakeTokens struct {
	claimsByToken map[string]*sec.AuthClaims
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{claimsByToken: map[string]*sec.AuthClaims{}}
}

func (f *fakeTokens) GenerateAccessToken(userID, username, role, sessionID string, _ time.Duration) (string, error) {
	token := "token:" + sessionID
	claims := &sec.AuthClaims{UserID: userID, Username: username, Role: role}
	claims.ID = sessionID
	f.claimsByToken[token] = claims
	return token, nil
}

func (f *fakeTokens) VerifyToken(tokenString string) (*sec.AuthClaims, error) {
	if claims, ok := f.claimsByToken[tokenString]; ok {
		return claims, nil
	}
	return nil, errors.New("bad signature")
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := sec.HashPassword(password)
	require.NoError(t, err)
	return hash
}

func newService(t *testing.T, accounts *fakeAccounts) (*auth.Service, *fakeSessions, *fakeTokens) {
	t.Helper()
	sessions := newFakeSessions()
	tokens := newFakeTokens()
	return auth.NewService(accounts, sessions, tokens, slog.Default()), sessions, tokens
}

func activeAccount(t *testing.T) *auth.Account {
	t.Helper()
	return &auth.Account{
		ID:           "0192a0b1-0000-7000-8000-000000000001",
		Username:     "librarian1",
		PasswordHash: mustHash(t, "correct horse battery"),
		DisplayName:  "Head Librarian",
		Role:         sec.RoleLibrarian,
		IsActive:     true,
	}
}

/*
TestLogin_Success issues a token, opens a session, and returns the account.
*/
func TestLogin_Success(t *testing.T) {
	account := activeAccount(t)
	service, sessions, _ := newService(t, &fakeAccounts{byUsername: map[string]*auth.Account{"librarian1": account}})

	response, err := service.Login(context.Background(), "librarian1", "correct horse battery")
	require.NoError(t, err)

	assert.NotEmpty(t, response.AccessToken)
	assert.Equal(t, "Bearer", response.TokenType)
	assert.Equal(t, account, response.Account)
	assert.Len(t, sessions.store, 1)
}

/*
TestLogin_Failures keeps unknown-user and wrong-password responses
indistinguishable, and blocks disabled accounts.
*/
func TestLogin_Failures(t *testing.T) {
	account := activeAccount(t)
	disabled := activeAccount(t)
	disabled.Username = "former.staff"
	disabled.IsActive = false

	accounts := &fakeAccounts{byUsername: map[string]*auth.Account{
		"librarian1":   account,
		"former.staff": disabled,
	}}

	tests := []struct {
		name     string
		username string
		password string
		wantCode string
	}{
		{"unknown_user", "ghost", "whatever else", "UNAUTHORIZED"},
		{"wrong_password", "librarian1", "incorrect donkey", "UNAUTHORIZED"},
		{"disabled_account", "former.staff", "correct horse battery", "FORBIDDEN"},
		{"blank_credentials", "", "", "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, _ := newService(t, accounts)

			_, err := service.Login(context.Background(), tt.username, tt.password)

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.wantCode, ae.Code)
		})
	}
}

/*
TestVerifyToken_SessionRevocation: a token that verifies cryptographically
is still rejected once its session is gone.
*/
func TestVerifyToken_SessionRevocation(t *testing.T) {
	account := activeAccount(t)
	service, _, _ := newService(t, &fakeAccounts{byUsername: map[string]*auth.Account{"librarian1": account}})

	response, err := service.Login(context.Background(), "librarian1", "correct horse battery")
	require.NoError(t, err)

	// Valid while the session lives.
	claims, err := service.VerifyToken(context.Background(), response.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims.UserID)

	// Logout revokes the session; the same token now fails.
	require.NoError(t, service.Logout(context.Background(), claims))

	_, err = service.VerifyToken(context.Background(), response.AccessToken)
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
}

/*
TestCreateAccount covers validation, defaulting, and hash handling.
*/
func TestCreateAccount(t *testing.T) {
	tests := []struct {
		name    string
		input   auth.CreateAccountInput
		wantErr bool
	}{
		{
			"valid_with_default_role",
			auth.CreateAccountInput{Username: "new.staff", Password: "long enough pass", DisplayName: "New Staff"},
			false,
		},
		{
			"valid_admin",
			auth.CreateAccountInput{Username: "second.admin", Password: "long enough pass", DisplayName: "Second Admin", Role: "admin"},
			false,
		},
		{
			"short_password",
			auth.CreateAccountInput{Username: "new.staff", Password: "short", DisplayName: "New Staff"},
			true,
		},
		{
			"unknown_role",
			auth.CreateAccountInput{Username: "new.staff", Password: "long enough pass", DisplayName: "New Staff", Role: "superuser"},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := &fakeAccounts{byUsername: map[string]*auth.Account{}}
			service, _, _ := newService(t, accounts)

			account, err := service.CreateAccount(context.Background(), tt.input)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, account.ID)
			assert.NotEqual(t, tt.input.Password, account.PasswordHash)
			assert.True(t, sec.CheckPasswordHash(tt.input.Password, account.PasswordHash))
			if tt.input.Role == "" {
				assert.Equal(t, sec.RoleLibrarian, account.Role)
			}
		})
	}
}
