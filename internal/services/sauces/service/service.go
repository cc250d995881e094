// Package service contains sauce workflows
package service

import (
	"context"

	"github.com/google/uuid"

	"piiquante/internal/modkit/repokit"
	"piiquante/internal/platform/blob"
	perr "piiquante/internal/platform/errors"
	"piiquante/internal/platform/logger"
	"piiquante/internal/services/sauces/domain"
	"piiquante/internal/services/sauces/repo"
)

// writeRetries bounds the read-modify-write loop under version races
const writeRetries = 3

// Service is the public service port
type Service interface{ domain.ServicePort }

// Svc implements the service port
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	assets blob.Store
	log    logger.Logger
}

// Options control service behavior
type Options struct {
	// Assets is required
	Assets blob.Store

	Log logger.Logger
}

// New constructs the service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opt Options) *Svc {
	if db == nil {
		panic("sauces.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("sauces.Service requires a non nil Repo binder")
	}
	if opt.Assets == nil {
		panic("sauces.Service requires a non nil asset store")
	}
	return &Svc{
		Repo:   binder.Bind(db),
		binder: binder,
		db:     db,
		assets: opt.Assets,
		log:    opt.Log,
	}
}

// List returns all sauces
func (s *Svc) List(ctx context.Context) ([]domain.Sauce, error) {
	return s.Repo.List(ctx)
}

// Get returns one sauce by id
func (s *Svc) Get(ctx context.Context, id string) (domain.Sauce, error) {
	if id == "" {
		return domain.Sauce{}, perr.InvalidArgf("empty sauce id")
	}
	return s.Repo.Get(ctx, id)
}

// Create stores the image first, then the sauce row
// a row insert failure leaves the asset orphaned on disk; that is logged
// and cleaned up out of band rather than risking a half-deleted upload
func (s *Svc) Create(ctx context.Context, in domain.CreateInput) (domain.Sauce, error) {
	if in.UserID == "" {
		return domain.Sauce{}, perr.Unauthorizedf("missing user")
	}
	if len(in.Image.Data) == 0 {
		return domain.Sauce{}, perr.WithField(perr.InvalidArgf("image is required"), "image")
	}

	locator, err := s.assets.Save(ctx, in.Image.Data, in.Image.ContentType)
	if err != nil {
		return domain.Sauce{}, err
	}

	sauce := domain.Sauce{
		ID:            uuid.NewString(),
		OwnerID:       in.UserID,
		Name:          in.Payload.Name,
		Manufacturer:  in.Payload.Manufacturer,
		Description:   in.Payload.Description,
		MainPepper:    in.Payload.MainPepper,
		Heat:          in.Payload.Heat,
		ImageLocator:  locator,
		UsersLiked:    []string{},
		UsersDisliked: []string{},
		Version:       1,
	}
	if err := s.Repo.Insert(ctx, sauce); err != nil {
		s.log.Warn().Str("locator", locator).Err(err).Msg("sauce insert failed, asset orphaned")
		return domain.Sauce{}, err
	}
	return sauce, nil
}

// Update replaces the payload and optionally the image asset
// only the creator may update; the old asset is removed best effort
// after the row write succeeds so a failed write never loses the image
func (s *Svc) Update(ctx context.Context, in domain.UpdateInput) (domain.Sauce, error) {
	cur, err := s.Repo.Get(ctx, in.SauceID)
	if err != nil {
		return domain.Sauce{}, err
	}
	if err := cur.AuthorizeMutation(in.UserID); err != nil {
		return domain.Sauce{}, err
	}

	newLocator := ""
	if in.Image != nil {
		newLocator, err = s.assets.Save(ctx, in.Image.Data, in.Image.ContentType)
		if err != nil {
			return domain.Sauce{}, err
		}
	}

	for attempt := 0; attempt < writeRetries; attempt++ {
		next := cur
		next.Name = in.Payload.Name
		next.Manufacturer = in.Payload.Manufacturer
		next.Description = in.Payload.Description
		next.MainPepper = in.Payload.MainPepper
		next.Heat = in.Payload.Heat
		oldLocator := ""
		if newLocator != "" {
			oldLocator = cur.ImageLocator
			next.ImageLocator = newLocator
		}

		err = s.Repo.UpdateVersioned(ctx, next, cur.Version)
		if err == nil {
			if oldLocator != "" && oldLocator != newLocator {
				s.removeAsset(ctx, oldLocator)
			}
			next.Version = cur.Version + 1
			return next, nil
		}
		if !perr.IsCode(err, perr.ErrorCodeConflict) {
			break
		}

		// lost the version race, reload and try again
		cur, err = s.Repo.Get(ctx, in.SauceID)
		if err != nil {
			break
		}
		if err = cur.AuthorizeMutation(in.UserID); err != nil {
			break
		}
		err = perr.Conflictf("sauce is being updated concurrently, retry")
	}

	if newLocator != "" {
		// roll back the asset we just wrote; the row still points at the old one
		s.removeAsset(ctx, newLocator)
	}
	if perr.IsCode(err, perr.ErrorCodeConflict) {
		s.log.Warn().
			Str("sauce_id", in.SauceID).
			Str("user_id", in.UserID).
			Msg("update retries exhausted")
	}
	return domain.Sauce{}, err
}

// Delete removes the sauce asset and then its row
// only the creator may delete; asset removal failures are logged, not surfaced,
// so a missing file never leaves the row undeletable
func (s *Svc) Delete(ctx context.Context, in domain.DeleteInput) error {
	cur, err := s.Repo.Get(ctx, in.SauceID)
	if err != nil {
		return err
	}
	if err := cur.AuthorizeMutation(in.UserID); err != nil {
		return err
	}
	if cur.ImageLocator != "" {
		s.removeAsset(ctx, cur.ImageLocator)
	}
	return s.Repo.Delete(ctx, in.SauceID)
}

// Rate applies an opinion signal under optimistic concurrency
// version races are retried a few times; rule violations from the
// state machine are returned to the caller untouched
func (s *Svc) Rate(ctx context.Context, in domain.RateInput) (domain.Sauce, error) {
	if in.UserID == "" {
		return domain.Sauce{}, perr.Unauthorizedf("missing user")
	}

	var lastVersion int
	for attempt := 0; attempt < writeRetries; attempt++ {
		cur, err := s.Repo.Get(ctx, in.SauceID)
		if err != nil {
			return domain.Sauce{}, err
		}
		lastVersion = cur.Version

		if err := cur.ApplyOpinion(in.UserID, in.Signal); err != nil {
			return domain.Sauce{}, err
		}

		err = s.Repo.UpdateVersioned(ctx, cur, cur.Version)
		if err == nil {
			cur.Version++
			return cur, nil
		}
		if !perr.IsCode(err, perr.ErrorCodeConflict) {
			return domain.Sauce{}, err
		}
		// lost the version race, reload and try again
	}

	s.log.Warn().
		Str("sauce_id", in.SauceID).
		Str("user_id", in.UserID).
		Int("last_version", lastVersion).
		Msg("rate retries exhausted")
	return domain.Sauce{}, perr.Conflictf("sauce is being updated concurrently, retry")
}

// removeAsset deletes an asset best effort, logging instead of failing the caller
func (s *Svc) removeAsset(ctx context.Context, locator string) {
	if err := s.assets.Remove(ctx, locator); err != nil {
		s.log.Warn().Str("locator", locator).Err(err).Msg("asset removal failed")
	}
}
