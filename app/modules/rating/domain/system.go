package ratingdomain

import (
	"cmp"
	"slices"
)

// RatingSystem computes rating changes for one 1v1 match.
type RatingSystem interface {
	ID() SystemID

	// ComputeUpdate returns the patches for winner and loser. It must not
	// mutate its inputs.
	ComputeUpdate(winner, loser Player, ctx MatchContext) (winnerPatch, loserPatch RatingPatch)

	// DefaultRating is the rating state given to a brand-new player.
	DefaultRating() RatingPatch

	// RatingValue is the comparable scalar used for sorting. Players without
	// rating state get the default rating's value.
	RatingValue(p Player) float64

	// SortByRating orders players by RatingValue, descending and stable.
	SortByRating(players []Player) []Player

	// DisplayRating formats the player's rating for chat and API output.
	DisplayRating(p Player) string
}

// sortStableDesc returns a copy of players sorted by value, highest first.
// Equal values keep their input order.
func sortStableDesc(players []Player, value func(Player) float64) []Player {
	sorted := slices.Clone(players)
	slices.SortStableFunc(sorted, func(a, b Player) int {
		return cmp.Compare(value(b), value(a))
	})
	return sorted
}
