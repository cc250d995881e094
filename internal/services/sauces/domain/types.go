// Package domain holds sauce core types independent of transport or storage
package domain

import "time"

// Sauce is a hot sauce entry with its opinion tallies
type Sauce struct {
	ID           string
	OwnerID      string
	Name         string
	Manufacturer string
	Description  string
	MainPepper   string
	Heat         int

	ImageLocator string

	Likes         int
	Dislikes      int
	UsersLiked    []string
	UsersDisliked []string

	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Signal is a user's opinion action on a sauce
type Signal int

const (
	// SignalDislike records a thumbs down
	SignalDislike Signal = -1

	// SignalNeutral withdraws any previous opinion
	SignalNeutral Signal = 0

	// SignalLike records a thumbs up
	SignalLike Signal = 1
)

// Valid reports whether s is one of the three accepted signals
func (s Signal) Valid() bool {
	return s == SignalDislike || s == SignalNeutral || s == SignalLike
}

// Opinion is the state a user currently holds on a sauce
type Opinion int

const (
	// OpinionNone means the user holds no recorded opinion
	OpinionNone Opinion = iota

	// OpinionLiked means the user is in the liked set
	OpinionLiked

	// OpinionDisliked means the user is in the disliked set
	OpinionDisliked
)
