package domain

import (
	"testing"

	perr "piiquante/internal/platform/errors"
)

func sauce() *Sauce {
	return &Sauce{ID: "s1", OwnerID: "owner"}
}

func TestLikeFromNone(t *testing.T) {
	s := sauce()
	if err := s.ApplyOpinion("u1", SignalLike); err != nil {
		t.Fatalf("ApplyOpinion: %v", err)
	}
	if s.Likes != 1 || s.Dislikes != 0 {
		t.Fatalf("counters = %d/%d, want 1/0", s.Likes, s.Dislikes)
	}
	if len(s.UsersLiked) != 1 || s.UsersLiked[0] != "u1" {
		t.Fatalf("UsersLiked = %v", s.UsersLiked)
	}
}

func TestDislikeFromNone(t *testing.T) {
	s := sauce()
	if err := s.ApplyOpinion("u1", SignalDislike); err != nil {
		t.Fatalf("ApplyOpinion: %v", err)
	}
	if s.Likes != 0 || s.Dislikes != 1 {
		t.Fatalf("counters = %d/%d, want 0/1", s.Likes, s.Dislikes)
	}
}

func TestDoubleLikeConflicts(t *testing.T) {
	s := sauce()
	if err := s.ApplyOpinion("u1", SignalLike); err != nil {
		t.Fatalf("first like: %v", err)
	}
	err := s.ApplyOpinion("u1", SignalLike)
	if !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("second like err = %v, want conflict", err)
	}
	if s.Likes != 1 {
		t.Fatalf("Likes = %d after rejected duplicate, want 1", s.Likes)
	}
}

func TestDoubleDislikeConflicts(t *testing.T) {
	s := sauce()
	if err := s.ApplyOpinion("u1", SignalDislike); err != nil {
		t.Fatalf("first dislike: %v", err)
	}
	if err := s.ApplyOpinion("u1", SignalDislike); !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("second dislike err = %v, want conflict", err)
	}
}

func TestCrossPolarityRejected(t *testing.T) {
	s := sauce()
	if err := s.ApplyOpinion("u1", SignalLike); err != nil {
		t.Fatalf("like: %v", err)
	}
	if err := s.ApplyOpinion("u1", SignalDislike); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("dislike while liked err = %v, want invalid argument", err)
	}

	s2 := sauce()
	if err := s2.ApplyOpinion("u1", SignalDislike); err != nil {
		t.Fatalf("dislike: %v", err)
	}
	if err := s2.ApplyOpinion("u1", SignalLike); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("like while disliked err = %v, want invalid argument", err)
	}
}

func TestNeutralWithdraws(t *testing.T) {
	s := sauce()
	if err := s.ApplyOpinion("u1", SignalLike); err != nil {
		t.Fatalf("like: %v", err)
	}
	if err := s.ApplyOpinion("u1", SignalNeutral); err != nil {
		t.Fatalf("neutral: %v", err)
	}
	if s.Likes != 0 || len(s.UsersLiked) != 0 {
		t.Fatalf("like not withdrawn: likes=%d set=%v", s.Likes, s.UsersLiked)
	}

	// like -> neutral -> like nets exactly one like
	if err := s.ApplyOpinion("u1", SignalLike); err != nil {
		t.Fatalf("re-like: %v", err)
	}
	if s.Likes != 1 {
		t.Fatalf("Likes = %d after re-like, want 1", s.Likes)
	}
}

func TestNeutralFromNoneIsIdempotent(t *testing.T) {
	s := sauce()
	for i := 0; i < 3; i++ {
		if err := s.ApplyOpinion("u1", SignalNeutral); err != nil {
			t.Fatalf("neutral #%d: %v", i, err)
		}
	}
	if s.Likes != 0 || s.Dislikes != 0 {
		t.Fatalf("counters moved on neutral no-op: %d/%d", s.Likes, s.Dislikes)
	}
}

func TestPolaritySwitchViaNeutral(t *testing.T) {
	s := sauce()
	steps := []Signal{SignalLike, SignalNeutral, SignalDislike}
	for _, sig := range steps {
		if err := s.ApplyOpinion("u1", sig); err != nil {
			t.Fatalf("signal %d: %v", sig, err)
		}
	}
	if s.Likes != 0 || s.Dislikes != 1 {
		t.Fatalf("counters = %d/%d, want 0/1", s.Likes, s.Dislikes)
	}
}

func TestCountersMatchSetCardinality(t *testing.T) {
	s := sauce()
	users := []string{"a", "b", "c", "d"}
	for _, u := range users[:3] {
		if err := s.ApplyOpinion(u, SignalLike); err != nil {
			t.Fatalf("like %s: %v", u, err)
		}
	}
	if err := s.ApplyOpinion(users[3], SignalDislike); err != nil {
		t.Fatalf("dislike: %v", err)
	}
	if err := s.ApplyOpinion("b", SignalNeutral); err != nil {
		t.Fatalf("neutral b: %v", err)
	}

	if s.Likes != len(s.UsersLiked) || s.Dislikes != len(s.UsersDisliked) {
		t.Fatalf("counters %d/%d diverge from sets %d/%d",
			s.Likes, s.Dislikes, len(s.UsersLiked), len(s.UsersDisliked))
	}
	if s.Likes != 2 || s.Dislikes != 1 {
		t.Fatalf("counters = %d/%d, want 2/1", s.Likes, s.Dislikes)
	}
}

func TestBothSetsCorruptionSurfaces(t *testing.T) {
	s := sauce()
	s.UsersLiked = []string{"u1"}
	s.UsersDisliked = []string{"u1"}

	for _, sig := range []Signal{SignalLike, SignalDislike, SignalNeutral} {
		if err := s.ApplyOpinion("u1", sig); !perr.IsCode(err, perr.ErrorCodeIntegrity) {
			t.Fatalf("signal %d on corrupted sets err = %v, want integrity", sig, err)
		}
	}
	// corrupted state is never silently repaired
	if len(s.UsersLiked) != 1 || len(s.UsersDisliked) != 1 {
		t.Fatalf("corrupted sets were mutated: %v / %v", s.UsersLiked, s.UsersDisliked)
	}
}

func TestInvalidSignalRejected(t *testing.T) {
	s := sauce()
	for _, sig := range []Signal{2, -2, 7} {
		if err := s.ApplyOpinion("u1", sig); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
			t.Fatalf("signal %d err = %v, want invalid argument", sig, err)
		}
	}
	if err := s.ApplyOpinion("", SignalLike); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("empty user err, want invalid argument")
	}
}

func TestAuthorizeMutation(t *testing.T) {
	s := sauce()
	if err := s.AuthorizeMutation("owner"); err != nil {
		t.Fatalf("owner rejected: %v", err)
	}
	if err := s.AuthorizeMutation("intruder"); !perr.IsCode(err, perr.ErrorCodeForbidden) {
		t.Fatalf("intruder err = %v, want forbidden", err)
	}
	if err := s.AuthorizeMutation(""); !perr.IsCode(err, perr.ErrorCodeForbidden) {
		t.Fatalf("empty user err = %v, want forbidden", err)
	}
}
