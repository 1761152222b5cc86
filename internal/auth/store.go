// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

package auth

import (
	"context"
	"time"
)

// AccountRepository persists staff accounts in the application database.
type AccountRepository interface {
	Create(context context.Context, account *Account) error
	GetByID(context context.Context, id string) (*Account, error)
	GetByUsername(context context.Context, username string) (*Account, error)
	List(context context.Context) ([]*Account, error)
	SetActive(context context.Context, id string, active bool) error
}

// SessionRepository stores live session records with a TTL.
//
// A session maps its ID to the owning account ID. Presence means the
// session is valid; expiry and logout both remove it.
type SessionRepository interface {
	Set(context context.Context, sessionID, accountID string, ttl time.Duration) error
	Get(context context.Context, sessionID string) (string, error)
	Delete(context context.Context, sessionID string) error
}
