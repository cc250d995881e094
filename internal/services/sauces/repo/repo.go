// Package repo provides the sauces repository implementation
package repo

import (
	"context"

	"piiquante/internal/modkit/repokit"
	perr "piiquante/internal/platform/errors"
	"piiquante/internal/platform/store"
	"piiquante/internal/services/sauces/domain"
)

// Repo is the sauces persistence surface used by the service layer
type Repo interface {
	List(ctx context.Context) ([]domain.Sauce, error)
	Get(ctx context.Context, id string) (domain.Sauce, error)
	Insert(ctx context.Context, s domain.Sauce) error

	// UpdateVersioned writes s only when the stored version still equals
	// expectedVersion, bumping the version on success
	// a lost race surfaces as a conflict error
	UpdateVersioned(ctx context.Context, s domain.Sauce, expectedVersion int) error

	Delete(ctx context.Context, id string) error
}

type (
	// PG is a Postgres implementation of the sauces repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind attaches a Queryer to the Postgres implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const sauceCols = `
	id, owner_id, name, manufacturer, description, main_pepper, heat,
	image_locator, likes, dislikes, users_liked, users_disliked,
	version, created_at, updated_at
`

func scanSauce(row store.Row) (domain.Sauce, error) {
	var s domain.Sauce
	err := row.Scan(
		&s.ID, &s.OwnerID, &s.Name, &s.Manufacturer, &s.Description, &s.MainPepper, &s.Heat,
		&s.ImageLocator, &s.Likes, &s.Dislikes, &s.UsersLiked, &s.UsersDisliked,
		&s.Version, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// List returns all sauces, newest first
func (r *queries) List(ctx context.Context) ([]domain.Sauce, error) {
	const sql = `SELECT ` + sauceCols + ` FROM sauces ORDER BY created_at DESC`
	out, err := store.Many(ctx, r.q, scanSauce, sql)
	if err != nil {
		return nil, perr.FromPostgresf(err, "list sauces")
	}
	return out, nil
}

// Get fetches a single sauce by id
func (r *queries) Get(ctx context.Context, id string) (domain.Sauce, error) {
	const sql = `SELECT ` + sauceCols + ` FROM sauces WHERE id = $1`
	s, err := store.One(ctx, r.q, scanSauce, sql, id)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return domain.Sauce{}, perr.NotFoundf("sauce %s", id)
		}
		return domain.Sauce{}, perr.FromPostgresf(err, "get sauce %s", id)
	}
	return s, nil
}

// Insert creates a sauce row at version 1
func (r *queries) Insert(ctx context.Context, s domain.Sauce) error {
	const sql = `
		INSERT INTO sauces (
			id, owner_id, name, manufacturer, description, main_pepper, heat,
			image_locator, likes, dislikes, users_liked, users_disliked,
			version, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12,
			1, NOW(), NOW()
		)
	`
	err := store.ExecOne(ctx, r.q, sql,
		s.ID, s.OwnerID, s.Name, s.Manufacturer, s.Description, s.MainPepper, s.Heat,
		s.ImageLocator, s.Likes, s.Dislikes, textArray(s.UsersLiked), textArray(s.UsersDisliked),
	)
	if err != nil {
		return perr.FromPostgresf(err, "insert sauce %s", s.ID)
	}
	return nil
}

// UpdateVersioned performs a compare and swap on the version column
func (r *queries) UpdateVersioned(ctx context.Context, s domain.Sauce, expectedVersion int) error {
	const sql = `
		UPDATE sauces SET
			name = $3, manufacturer = $4, description = $5, main_pepper = $6, heat = $7,
			image_locator = $8, likes = $9, dislikes = $10,
			users_liked = $11, users_disliked = $12,
			version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
	`
	tag, err := r.q.Exec(ctx, sql,
		s.ID, expectedVersion,
		s.Name, s.Manufacturer, s.Description, s.MainPepper, s.Heat,
		s.ImageLocator, s.Likes, s.Dislikes,
		textArray(s.UsersLiked), textArray(s.UsersDisliked),
	)
	if err != nil {
		return perr.FromPostgresf(err, "update sauce %s", s.ID)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// zero rows: either the sauce is gone or someone else won the version race
	exists, err := store.Scalar[bool](ctx, r.q,
		`SELECT EXISTS (SELECT 1 FROM sauces WHERE id = $1)`, s.ID)
	if err != nil {
		return perr.FromPostgresf(err, "probe sauce %s", s.ID)
	}
	if !exists {
		return perr.NotFoundf("sauce %s", s.ID)
	}
	return perr.Conflictf("sauce %s changed concurrently", s.ID)
}

// Delete removes a sauce row
func (r *queries) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM sauces WHERE id = $1`, id)
	if err != nil {
		return perr.FromPostgresf(err, "delete sauce %s", id)
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("sauce %s", id)
	}
	return nil
}

// textArray keeps empty sets as empty text[] instead of NULL
func textArray(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
