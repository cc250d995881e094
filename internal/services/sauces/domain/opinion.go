package domain

import (
	"slices"

	perr "piiquante/internal/platform/errors"
)

// OpinionOf reports the state userID currently holds on s
// membership in both sets is corrupted data and is surfaced, never repaired
func (s *Sauce) OpinionOf(userID string) (Opinion, error) {
	liked := slices.Contains(s.UsersLiked, userID)
	disliked := slices.Contains(s.UsersDisliked, userID)
	if liked && disliked {
		return OpinionNone, perr.Integrityf("user %s present in both opinion sets of sauce %s", userID, s.ID)
	}
	if liked {
		return OpinionLiked, nil
	}
	if disliked {
		return OpinionDisliked, nil
	}
	return OpinionNone, nil
}

// ApplyOpinion advances the opinion state of userID by signal, in place
//
// transitions:
//
//	none     + like     -> liked
//	none     + dislike  -> disliked
//	none     + neutral  -> none (no-op)
//	liked    + neutral  -> none
//	disliked + neutral  -> none
//	liked    + like     -> conflict (already recorded)
//	disliked + dislike  -> conflict (already recorded)
//	liked    + dislike  -> invalid (must withdraw first)
//	disliked + like     -> invalid (must withdraw first)
//
// counters are recomputed from set cardinality after every change
func (s *Sauce) ApplyOpinion(userID string, signal Signal) error {
	if userID == "" {
		return perr.InvalidArgf("empty user id")
	}
	if !signal.Valid() {
		return perr.InvalidArgf("opinion signal must be -1, 0 or 1")
	}

	cur, err := s.OpinionOf(userID)
	if err != nil {
		return err
	}

	switch signal {
	case SignalLike:
		switch cur {
		case OpinionLiked:
			return perr.Conflictf("like already recorded")
		case OpinionDisliked:
			return perr.InvalidArgf("withdraw the dislike before liking")
		default:
			s.UsersLiked = append(s.UsersLiked, userID)
		}

	case SignalDislike:
		switch cur {
		case OpinionDisliked:
			return perr.Conflictf("dislike already recorded")
		case OpinionLiked:
			return perr.InvalidArgf("withdraw the like before disliking")
		default:
			s.UsersDisliked = append(s.UsersDisliked, userID)
		}

	case SignalNeutral:
		switch cur {
		case OpinionLiked:
			s.UsersLiked = remove(s.UsersLiked, userID)
		case OpinionDisliked:
			s.UsersDisliked = remove(s.UsersDisliked, userID)
		default:
			// withdrawing nothing is idempotent
		}
	}

	s.Likes = len(s.UsersLiked)
	s.Dislikes = len(s.UsersDisliked)
	return nil
}

// OwnedBy reports whether userID created this sauce
func (s *Sauce) OwnedBy(userID string) bool {
	return userID != "" && s.OwnerID == userID
}

// AuthorizeMutation gates update and delete to the creator
func (s *Sauce) AuthorizeMutation(userID string) error {
	if !s.OwnedBy(userID) {
		return perr.Forbiddenf("only the creator may modify this sauce")
	}
	return nil
}

func remove(xs []string, x string) []string {
	out := xs[:0]
	for _, v := range xs {
		if v != x {
			out = append(out, v)
		}
	}
	return out
}
