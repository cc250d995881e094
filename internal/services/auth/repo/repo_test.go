package repo

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	perr "piiquante/internal/platform/errors"
	"piiquante/internal/platform/store"
)

// fakeQ returns canned results for the queries the repo issues
type fakeQ struct {
	queryErr error
}

func (f *fakeQ) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }

func (f *fakeQ) Query(context.Context, string, ...any) (store.Rows, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return emptyRows{}, nil
}

func (f *fakeQ) QueryRow(context.Context, string, ...any) store.Row { return nil }

type emptyRows struct{}

func (emptyRows) Next() bool        { return false }
func (emptyRows) Scan(...any) error { return nil }
func (emptyRows) Err() error        { return nil }
func (emptyRows) Close()            {}
func (emptyRows) Columns() []string { return nil }

func TestGetByEmailMapsNoRowsToNotFound(t *testing.T) {
	t.Parallel()

	r := NewPG().Bind(&fakeQ{})
	_, err := r.GetByEmail(context.Background(), "ghost@example.com")
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestGetByEmailWrapsTransientPgErrors(t *testing.T) {
	t.Parallel()

	q := &fakeQ{queryErr: &pgconn.PgError{Code: "57P03", Message: "the database system is starting up"}}
	r := NewPG().Bind(q)
	_, err := r.GetByEmail(context.Background(), "user@example.com")
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("err = %v, want unavailable", err)
	}
}
