// Package repo provides the auth repository implementation
package repo

import (
	"context"

	"piiquante/internal/modkit/repokit"
	perr "piiquante/internal/platform/errors"
	"piiquante/internal/platform/store"
	"piiquante/internal/services/auth/domain"
)

// Repo is the auth persistence surface used by the service layer
type Repo interface {
	Insert(ctx context.Context, id, email, passwordHash string) error
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}

type (
	// PG is a Postgres implementation of the auth repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind attaches a Queryer to the Postgres implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// Insert creates a user row; a duplicate email surfaces as a duplicate key error
func (r *queries) Insert(ctx context.Context, id, email, passwordHash string) error {
	const sql = `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	if err := store.ExecOne(ctx, r.q, sql, id, email, passwordHash); err != nil {
		return perr.FromPostgresf(err, "insert user %s", email)
	}
	return nil
}

// GetByEmail fetches a user by email
func (r *queries) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const sql = `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`
	u, err := store.One(ctx, r.q, func(row store.Row) (domain.User, error) {
		var u domain.User
		err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
		return u, err
	}, sql, email)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return domain.User{}, perr.NotFoundf("user %s", email)
		}
		return domain.User{}, perr.FromPostgresf(err, "get user %s", email)
	}
	return u, nil
}
