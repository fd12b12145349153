package ratingdomain

import (
	"fmt"
	"math"
	"strconv"
)

const (
	// Experience thresholds for the dynamic K-factor.
	eloProvisionalMatches = 30
	eloEstablishedMatches = 100

	majorImportanceMultiplier = 1.5
)

// EloParams are the tunables of the Elo system.
type EloParams struct {
	DefaultRating int     `json:"defaultRating" yaml:"default_rating"`
	KFactor       float64 `json:"kFactor" yaml:"k_factor"`
}

// DefaultEloParams returns the stock Elo tunables.
func DefaultEloParams() EloParams {
	return EloParams{DefaultRating: 1000, KFactor: 32}
}

// Validate checks the tunables.
func (p EloParams) Validate() error {
	if p.KFactor <= 0 {
		return fmt.Errorf("%w: k-factor must be positive, got %v", ErrInvalidParams, p.KFactor)
	}
	return nil
}

// EloSystem is a logistic Elo with a per-player dynamic K-factor.
type EloSystem struct {
	params EloParams
}

var _ RatingSystem = (*EloSystem)(nil)

// NewEloSystem builds an Elo system from validated tunables.
func NewEloSystem(params EloParams) (*EloSystem, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &EloSystem{params: params}, nil
}

func (e *EloSystem) ID() SystemID { return SystemElo }

// Params returns the tunables in use.
func (e *EloSystem) Params() EloParams { return e.params }

// KFactor scales the base K by experience: full K up to 30 matches, 3/4 up to
// 100, half beyond. With the stock base of 32 that is 32, 24 and 16.
func (e *EloSystem) KFactor(matchesPlayed int) float64 {
	switch {
	case matchesPlayed <= eloProvisionalMatches:
		return e.params.KFactor
	case matchesPlayed <= eloEstablishedMatches:
		return e.params.KFactor * 0.75
	default:
		return e.params.KFactor * 0.5
	}
}

// ExpectedScore is the logistic probability that a player rated ra beats one rated rb.
func ExpectedScore(ra, rb float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (rb-ra)/400.0))
}

func (e *EloSystem) rating(p Player) int {
	if p.EloScore == nil {
		return e.params.DefaultRating
	}
	return *p.EloScore
}

func (e *EloSystem) effectiveK(p Player, ctx MatchContext) float64 {
	k := e.KFactor(p.MatchesPlayed)
	if ctx.Importance == ImportanceMajor {
		k *= majorImportanceMultiplier
	}
	return k
}

// ComputeUpdate applies each side's own K-factor, so a veteran losing to a
// newcomer moves less than the newcomer does.
func (e *EloSystem) ComputeUpdate(winner, loser Player, ctx MatchContext) (RatingPatch, RatingPatch) {
	rw := float64(e.rating(winner))
	rl := float64(e.rating(loser))

	expectedWinner := ExpectedScore(rw, rl)
	expectedLoser := ExpectedScore(rl, rw)

	newWinner := int(math.Round(rw + e.effectiveK(winner, ctx)*(1-expectedWinner)))
	newLoser := int(math.Round(rl + e.effectiveK(loser, ctx)*(0-expectedLoser)))

	return RatingPatch{EloScore: &newWinner}, RatingPatch{EloScore: &newLoser}
}

func (e *EloSystem) DefaultRating() RatingPatch {
	r := e.params.DefaultRating
	return RatingPatch{EloScore: &r}
}

func (e *EloSystem) RatingValue(p Player) float64 {
	return float64(e.rating(p))
}

func (e *EloSystem) SortByRating(players []Player) []Player {
	return sortStableDesc(players, e.RatingValue)
}

func (e *EloSystem) DisplayRating(p Player) string {
	return strconv.Itoa(e.rating(p))
}
