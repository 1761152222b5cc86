// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/apperr"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/dberr"
)

// uniqueViolation is the PostgreSQL error code for duplicate keys.
const uniqueViolation = "23505"

// PostgresAccountRepository stores staff accounts in the app database, the
// only store this service ever writes to.
type PostgresAccountRepository struct {
	db *pgxpool.Pool
}

func NewPostgresAccountRepository(db *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

func (repository *PostgresAccountRepository) Create(context context.Context, account *Account) error {
	const query = `
		INSERT INTO admin_account (id, username, passwordhash, displayname, role, isactive, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, TRUE, NOW(), NOW())
		RETURNING isactive, createdat, updatedat
	`

	err := repository.db.QueryRow(context, query,
		account.ID, account.Username, account.PasswordHash, account.DisplayName, account.Role,
	).Scan(&account.IsActive, &account.CreatedAt, &account.UpdatedAt)

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.Code == uniqueViolation {
		return apperr.Conflict("Username is already taken")
	}

	return dberr.Wrap(err, "create_account")
}

const accountSelect = `
	SELECT id, username, passwordhash, displayname, role, isactive, createdat, updatedat
	FROM admin_account
`

func (repository *PostgresAccountRepository) GetByID(context context.Context, id string) (*Account, error) {
	const query = accountSelect + ` WHERE id = $1`
	return repository.getOne(context, query, "get_account_by_id", id)
}

func (repository *PostgresAccountRepository) GetByUsername(context context.Context, username string) (*Account, error) {
	const query = accountSelect + ` WHERE username = $1`
	return repository.getOne(context, query, "get_account_by_username", username)
}

func (repository *PostgresAccountRepository) getOne(context context.Context, query, action string, value any) (*Account, error) {
	account := &Account{}
	err := repository.db.QueryRow(context, query, value).Scan(
		&account.ID, &account.Username, &account.PasswordHash, &account.DisplayName,
		&account.Role, &account.IsActive, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return account, nil
}

func (repository *PostgresAccountRepository) List(context context.Context) ([]*Account, error) {
	const query = accountSelect + ` ORDER BY username ASC`

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_accounts")
	}
	defer rows.Close()

	var accounts []*Account
	for rows.Next() {
		account := &Account{}
		if err := rows.Scan(
			&account.ID, &account.Username, &account.PasswordHash, &account.DisplayName,
			&account.Role, &account.IsActive, &account.CreatedAt, &account.UpdatedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "scan_account")
		}
		accounts = append(accounts, account)
	}

	return accounts, dberr.Wrap(rows.Err(), "list_accounts_rows")
}

func (repository *PostgresAccountRepository) SetActive(context context.Context, id string, active bool) error {
	const query = `
		UPDATE admin_account
		SET isactive = $2, updatedat = NOW()
		WHERE id = $1
		RETURNING id
	`

	var returned string
	err := repository.db.QueryRow(context, query, id, active).Scan(&returned)
	return dberr.Wrap(err, "set_account_active")
}
