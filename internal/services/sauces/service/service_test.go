package service

import (
	"context"
	"testing"

	"piiquante/internal/modkit/repokit"
	perr "piiquante/internal/platform/errors"
	"piiquante/internal/platform/logger"
	"piiquante/internal/services/sauces/domain"
	"piiquante/internal/services/sauces/repo"
)

// memRepo is an in memory versioned sauce store
type memRepo struct {
	rows map[string]domain.Sauce

	// conflictNext forces that many UpdateVersioned calls to lose the race
	conflictNext int
	updates      int

	// deleteErr forces Delete to fail
	deleteErr error
}

func newMemRepo() *memRepo { return &memRepo{rows: map[string]domain.Sauce{}} }

func (m *memRepo) List(context.Context) ([]domain.Sauce, error) {
	out := make([]domain.Sauce, 0, len(m.rows))
	for _, s := range m.rows {
		out = append(out, s)
	}
	return out, nil
}

func (m *memRepo) Get(_ context.Context, id string) (domain.Sauce, error) {
	s, ok := m.rows[id]
	if !ok {
		return domain.Sauce{}, perr.NotFoundf("sauce %s", id)
	}
	return s, nil
}

func (m *memRepo) Insert(_ context.Context, s domain.Sauce) error {
	if _, ok := m.rows[s.ID]; ok {
		return perr.DuplicateKeyf("sauce %s", s.ID)
	}
	m.rows[s.ID] = s
	return nil
}

func (m *memRepo) UpdateVersioned(_ context.Context, s domain.Sauce, expectedVersion int) error {
	m.updates++
	cur, ok := m.rows[s.ID]
	if !ok {
		return perr.NotFoundf("sauce %s", s.ID)
	}
	if m.conflictNext > 0 {
		m.conflictNext--
		// simulate a concurrent writer bumping the version
		cur.Version++
		m.rows[s.ID] = cur
		return perr.Conflictf("sauce %s changed concurrently", s.ID)
	}
	if cur.Version != expectedVersion {
		return perr.Conflictf("sauce %s changed concurrently", s.ID)
	}
	s.Version = cur.Version + 1
	m.rows[s.ID] = s
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.rows[id]; !ok {
		return perr.NotFoundf("sauce %s", id)
	}
	delete(m.rows, id)
	return nil
}

// memBlob records saves and removals
type memBlob struct {
	saved   map[string][]byte
	removed []string
	n       int
}

func newMemBlob() *memBlob { return &memBlob{saved: map[string][]byte{}} }

func (b *memBlob) Save(_ context.Context, data []byte, contentType string) (string, error) {
	if contentType != "image/jpeg" && contentType != "image/jpg" && contentType != "image/png" {
		return "", perr.InvalidArgf("unsupported image type %q", contentType)
	}
	b.n++
	loc := "asset-" + string(rune('a'+b.n-1)) + ".png"
	b.saved[loc] = data
	return loc, nil
}

func (b *memBlob) Remove(_ context.Context, locator string) error {
	if _, ok := b.saved[locator]; !ok {
		return perr.NotFoundf("asset %q", locator)
	}
	delete(b.saved, locator)
	b.removed = append(b.removed, locator)
	return nil
}

// nopTx satisfies TxRunner without a database
type nopTx struct{ repokit.Queryer }

func (n nopTx) Tx(ctx context.Context, fn func(q repokit.Queryer) error) error { return fn(n) }

func newSvc(t *testing.T) (*Svc, *memRepo, *memBlob) {
	t.Helper()
	mem := newMemRepo()
	blob := newMemBlob()
	binder := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return mem })
	s := New(nopTx{}, binder, Options{Assets: blob, Log: logger.Logger{}})
	return s, mem, blob
}

func payload() domain.SaucePayload {
	return domain.SaucePayload{
		Name:         "Inferno",
		Manufacturer: "Scoville Labs",
		Description:  "melts cutlery",
		MainPepper:   "carolina reaper",
		Heat:         9,
	}
}

func create(t *testing.T, s *Svc, owner string) domain.Sauce {
	t.Helper()
	sauce, err := s.Create(context.Background(), domain.CreateInput{
		UserID:  owner,
		Payload: payload(),
		Image:   domain.ImageUpload{Data: []byte("img"), ContentType: "image/png"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return sauce
}

func TestCreateRequiresImage(t *testing.T) {
	s, _, _ := newSvc(t)
	_, err := s.Create(context.Background(), domain.CreateInput{UserID: "u1", Payload: payload()})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("Create without image err = %v, want invalid argument", err)
	}
}

func TestCreatePersistsSauceAndAsset(t *testing.T) {
	s, mem, blob := newSvc(t)
	sauce := create(t, s, "u1")

	stored, err := mem.Get(context.Background(), sauce.ID)
	if err != nil {
		t.Fatalf("stored sauce missing: %v", err)
	}
	if stored.OwnerID != "u1" || stored.Version != 1 {
		t.Fatalf("stored = %+v", stored)
	}
	if _, ok := blob.saved[stored.ImageLocator]; !ok {
		t.Fatalf("asset %q not saved", stored.ImageLocator)
	}
	if stored.Likes != 0 || stored.Dislikes != 0 {
		t.Fatalf("fresh sauce has non zero counters")
	}
}

func TestUpdateIsOwnerOnly(t *testing.T) {
	s, _, _ := newSvc(t)
	sauce := create(t, s, "u1")

	_, err := s.Update(context.Background(), domain.UpdateInput{
		UserID: "intruder", SauceID: sauce.ID, Payload: payload(),
	})
	if !perr.IsCode(err, perr.ErrorCodeForbidden) {
		t.Fatalf("Update by non owner err = %v, want forbidden", err)
	}
}

func TestUpdateReplacesImageAndRemovesOld(t *testing.T) {
	s, mem, blob := newSvc(t)
	sauce := create(t, s, "u1")
	old := sauce.ImageLocator

	p := payload()
	p.Heat = 10
	out, err := s.Update(context.Background(), domain.UpdateInput{
		UserID: "u1", SauceID: sauce.ID, Payload: p,
		Image: &domain.ImageUpload{Data: []byte("img2"), ContentType: "image/jpeg"},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if out.Heat != 10 {
		t.Fatalf("Heat = %d, want 10", out.Heat)
	}
	if out.ImageLocator == old {
		t.Fatalf("image locator unchanged")
	}
	if len(blob.removed) != 1 || blob.removed[0] != old {
		t.Fatalf("old asset not removed: %v", blob.removed)
	}
	stored, _ := mem.Get(context.Background(), sauce.ID)
	if stored.Version != 2 {
		t.Fatalf("Version = %d, want 2", stored.Version)
	}
}

func TestUpdateKeepsImageWhenAbsent(t *testing.T) {
	s, mem, blob := newSvc(t)
	sauce := create(t, s, "u1")

	if _, err := s.Update(context.Background(), domain.UpdateInput{
		UserID: "u1", SauceID: sauce.ID, Payload: payload(),
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	stored, _ := mem.Get(context.Background(), sauce.ID)
	if stored.ImageLocator != sauce.ImageLocator {
		t.Fatalf("image locator changed without a new upload")
	}
	if len(blob.removed) != 0 {
		t.Fatalf("asset removed without replacement: %v", blob.removed)
	}
}

func TestUpdateRetriesVersionRaces(t *testing.T) {
	s, mem, _ := newSvc(t)
	sauce := create(t, s, "u1")
	ctx := context.Background()

	// lose the race twice, succeed on the third attempt
	mem.conflictNext = 2
	p := payload()
	p.Name = "Inferno XL"
	out, err := s.Update(ctx, domain.UpdateInput{UserID: "u1", SauceID: sauce.ID, Payload: p})
	if err != nil {
		t.Fatalf("Update under races: %v", err)
	}
	if out.Name != "Inferno XL" {
		t.Fatalf("Name = %q, want Inferno XL", out.Name)
	}
	stored, _ := mem.Get(ctx, sauce.ID)
	if stored.Version != 4 {
		t.Fatalf("Version = %d, want 4 after two lost races", stored.Version)
	}
}

func TestUpdateRetriesExhaustedRollsBackNewAsset(t *testing.T) {
	s, mem, blob := newSvc(t)
	sauce := create(t, s, "u1")
	ctx := context.Background()

	mem.conflictNext = writeRetries
	_, err := s.Update(ctx, domain.UpdateInput{
		UserID: "u1", SauceID: sauce.ID, Payload: payload(),
		Image: &domain.ImageUpload{Data: []byte("img2"), ContentType: "image/png"},
	})
	if !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("exhausted retries err = %v, want conflict", err)
	}
	// the replacement upload must not linger once the update is abandoned
	if len(blob.saved) != 1 {
		t.Fatalf("saved assets = %v, want only the original", blob.saved)
	}
	if _, ok := blob.saved[sauce.ImageLocator]; !ok {
		t.Fatalf("original asset %q missing", sauce.ImageLocator)
	}
}

func TestDeleteIsOwnerOnlyAndRemovesAsset(t *testing.T) {
	s, mem, blob := newSvc(t)
	sauce := create(t, s, "u1")

	if err := s.Delete(context.Background(), domain.DeleteInput{UserID: "intruder", SauceID: sauce.ID}); !perr.IsCode(err, perr.ErrorCodeForbidden) {
		t.Fatalf("Delete by non owner err = %v, want forbidden", err)
	}

	if err := s.Delete(context.Background(), domain.DeleteInput{UserID: "u1", SauceID: sauce.ID}); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := mem.Get(context.Background(), sauce.ID); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("sauce still present after delete")
	}
	if len(blob.removed) != 1 {
		t.Fatalf("asset not removed on delete: %v", blob.removed)
	}
}

func TestDeleteRemovesAssetBeforeRow(t *testing.T) {
	s, mem, blob := newSvc(t)
	sauce := create(t, s, "u1")

	mem.deleteErr = perr.Unavailablef("pg down")
	err := s.Delete(context.Background(), domain.DeleteInput{UserID: "u1", SauceID: sauce.ID})
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("Delete err = %v, want unavailable", err)
	}
	// the asset goes first so a missing file never blocks the row removal
	if len(blob.removed) != 1 || blob.removed[0] != sauce.ImageLocator {
		t.Fatalf("asset not removed before the failing row delete: %v", blob.removed)
	}
}

func TestRateLikeNeutralLike(t *testing.T) {
	s, mem, _ := newSvc(t)
	sauce := create(t, s, "owner")
	ctx := context.Background()

	for _, sig := range []domain.Signal{domain.SignalLike, domain.SignalNeutral, domain.SignalLike} {
		if _, err := s.Rate(ctx, domain.RateInput{UserID: "u2", SauceID: sauce.ID, Signal: sig}); err != nil {
			t.Fatalf("Rate(%d): %v", sig, err)
		}
	}
	stored, _ := mem.Get(ctx, sauce.ID)
	if stored.Likes != 1 || len(stored.UsersLiked) != 1 {
		t.Fatalf("net likes = %d (%v), want 1", stored.Likes, stored.UsersLiked)
	}
	if stored.Version != 4 {
		t.Fatalf("Version = %d, want 4 after three writes", stored.Version)
	}
}

func TestRateDuplicateLikeConflictsWithoutRetry(t *testing.T) {
	s, mem, _ := newSvc(t)
	sauce := create(t, s, "owner")
	ctx := context.Background()

	if _, err := s.Rate(ctx, domain.RateInput{UserID: "u2", SauceID: sauce.ID, Signal: domain.SignalLike}); err != nil {
		t.Fatalf("first like: %v", err)
	}
	mem.updates = 0
	_, err := s.Rate(ctx, domain.RateInput{UserID: "u2", SauceID: sauce.ID, Signal: domain.SignalLike})
	if !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("duplicate like err = %v, want conflict", err)
	}
	// a rule violation must not burn retry attempts on writes
	if mem.updates != 0 {
		t.Fatalf("duplicate like attempted %d writes", mem.updates)
	}
}

func TestRateCrossPolarityRejected(t *testing.T) {
	s, _, _ := newSvc(t)
	sauce := create(t, s, "owner")
	ctx := context.Background()

	if _, err := s.Rate(ctx, domain.RateInput{UserID: "u2", SauceID: sauce.ID, Signal: domain.SignalLike}); err != nil {
		t.Fatalf("like: %v", err)
	}
	_, err := s.Rate(ctx, domain.RateInput{UserID: "u2", SauceID: sauce.ID, Signal: domain.SignalDislike})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("cross polarity err = %v, want invalid argument", err)
	}
}

func TestRateRetriesVersionRaces(t *testing.T) {
	s, mem, _ := newSvc(t)
	sauce := create(t, s, "owner")
	ctx := context.Background()

	// lose the race twice, succeed on the third attempt
	mem.conflictNext = 2
	out, err := s.Rate(ctx, domain.RateInput{UserID: "u2", SauceID: sauce.ID, Signal: domain.SignalLike})
	if err != nil {
		t.Fatalf("Rate under races: %v", err)
	}
	if out.Likes != 1 {
		t.Fatalf("Likes = %d, want 1", out.Likes)
	}
}

func TestRateRetriesExhausted(t *testing.T) {
	s, mem, _ := newSvc(t)
	sauce := create(t, s, "owner")

	mem.conflictNext = writeRetries
	_, err := s.Rate(context.Background(), domain.RateInput{UserID: "u2", SauceID: sauce.ID, Signal: domain.SignalLike})
	if !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("exhausted retries err = %v, want conflict", err)
	}
}

func TestRateCorruptedSetsSurfaceIntegrity(t *testing.T) {
	s, mem, _ := newSvc(t)
	sauce := create(t, s, "owner")
	ctx := context.Background()

	row := mem.rows[sauce.ID]
	row.UsersLiked = []string{"u2"}
	row.UsersDisliked = []string{"u2"}
	mem.rows[sauce.ID] = row

	_, err := s.Rate(ctx, domain.RateInput{UserID: "u2", SauceID: sauce.ID, Signal: domain.SignalNeutral})
	if !perr.IsCode(err, perr.ErrorCodeIntegrity) {
		t.Fatalf("corrupted sets err = %v, want integrity", err)
	}
	// fail closed: nothing written
	after := mem.rows[sauce.ID]
	if len(after.UsersLiked) != 1 || len(after.UsersDisliked) != 1 {
		t.Fatalf("corrupted sets were mutated: %+v", after)
	}
}

func TestOwnerMayRateOwnSauce(t *testing.T) {
	s, _, _ := newSvc(t)
	sauce := create(t, s, "owner")

	out, err := s.Rate(context.Background(), domain.RateInput{UserID: "owner", SauceID: sauce.ID, Signal: domain.SignalLike})
	if err != nil {
		t.Fatalf("owner self-rate: %v", err)
	}
	if out.Likes != 1 {
		t.Fatalf("Likes = %d, want 1", out.Likes)
	}
}
