// Package service contains auth workflows
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"piiquante/internal/modkit/repokit"
	perr "piiquante/internal/platform/errors"
	"piiquante/internal/services/auth/domain"
	"piiquante/internal/services/auth/repo"
	"piiquante/internal/services/auth/token"
)

// Service is the public service port
type Service interface{ domain.ServicePort }

// Svc implements the service port
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	tokens *token.Verifier
	cost   int
}

// Options control service behavior
type Options struct {
	// Tokens is required
	Tokens *token.Verifier

	// BcryptCost defaults to bcrypt.DefaultCost
	BcryptCost int
}

// New constructs the service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opt Options) *Svc {
	if db == nil {
		panic("auth.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("auth.Service requires a non nil Repo binder")
	}
	if opt.Tokens == nil {
		panic("auth.Service requires a non nil token verifier")
	}
	cost := opt.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Svc{
		Repo:   binder.Bind(db),
		binder: binder,
		db:     db,
		tokens: opt.Tokens,
		cost:   cost,
	}
}

// Signup hashes the password and creates the account
func (s *Svc) Signup(ctx context.Context, in domain.SignupInput) (domain.SignupOutput, error) {
	email := normalizeEmail(in.Email)

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return domain.SignupOutput{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "hash password")
	}

	id := uuid.NewString()
	if err := s.Repo.Insert(ctx, id, email, string(hash)); err != nil {
		if perr.IsCode(err, perr.ErrorCodeDuplicateKey) {
			return domain.SignupOutput{}, perr.WithField(
				perr.DuplicateKeyf("email already registered"), "email")
		}
		return domain.SignupOutput{}, err
	}
	return domain.SignupOutput{UserID: id}, nil
}

// Login verifies credentials and mints a bearer token
// unknown email and wrong password stay distinguishable in codes so the
// transport layer can choose how much to reveal
func (s *Svc) Login(ctx context.Context, in domain.LoginInput) (domain.LoginOutput, error) {
	email := normalizeEmail(in.Email)

	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return domain.LoginOutput{}, perr.NotFoundf("unknown account")
		}
		return domain.LoginOutput{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return domain.LoginOutput{}, perr.Unauthorizedf("invalid credentials")
	}

	tok, err := s.tokens.Issue(u.ID)
	if err != nil {
		return domain.LoginOutput{}, err
	}
	return domain.LoginOutput{UserID: u.ID, Token: tok}, nil
}

// VerifyToken satisfies domain.VerifierPort for cross module wiring
func (s *Svc) VerifyToken(raw string) (string, error) {
	id, err := s.tokens.Verify(raw)
	if err != nil {
		return "", err
	}
	return id.UserID, nil
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
