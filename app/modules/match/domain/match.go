package matchdomain

import (
	"time"

	ratingdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain"
	seasondomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/domain"
)

// Policy holds the match reporting switches.
type Policy struct {
	// AutoCreatePlayers registers unknown tags with the default rating
	// instead of rejecting the match.
	AutoCreatePlayers bool `yaml:"auto_create_players" json:"autoCreatePlayers"`
}

// ReportOutcome is what happened to one reported match.
type ReportOutcome struct {
	Outcome  seasondomain.RecordOutcome `json:"outcome"`
	MatchID  string                     `json:"matchId,omitempty"`
	SeasonID string                     `json:"seasonId"`
	System   ratingdomain.SystemID      `json:"system,omitempty"`

	// Winner and Loser are the players after the update; zero for duplicates.
	Winner ratingdomain.Player `json:"winner"`
	Loser  ratingdomain.Player `json:"loser"`

	// Deltas are in the active system's rating value.
	WinnerDelta float64 `json:"winnerDelta"`
	LoserDelta  float64 `json:"loserDelta"`

	CreatedPlayers []string `json:"createdPlayers,omitempty"`
}

// IsDuplicate reports whether the match had already been counted.
func (o ReportOutcome) IsDuplicate() bool {
	return o.Outcome == seasondomain.OutcomeDuplicate
}

// ImportBatch is an already-fetched list of matches from one tournament.
type ImportBatch struct {
	TournamentName string                     `json:"tournamentName"`
	Importance     ratingdomain.Importance    `json:"importance,omitempty"`
	Matches        []seasondomain.MatchResult `json:"matches"`
}

// ImportSummary counts what an import did.
type ImportSummary struct {
	TournamentName string   `json:"tournamentName"`
	Imported       int      `json:"imported"`
	Skipped        int      `json:"skipped"`
	Failed         int      `json:"failed"`
	Errors         []string `json:"errors,omitempty"`
}

// MatchRecord is an entry of the match log.
type MatchRecord struct {
	MatchID        string                  `json:"matchId"`
	SeasonID       string                  `json:"seasonId"`
	WinnerTag      string                  `json:"winnerTag"`
	LoserTag       string                  `json:"loserTag"`
	Score          string                  `json:"score,omitempty"`
	TournamentName string                  `json:"tournamentName,omitempty"`
	Importance     ratingdomain.Importance `json:"importance,omitempty"`
	System         ratingdomain.SystemID   `json:"system"`
	PlayedAt       time.Time               `json:"playedAt"`
	WinnerRating   float64                 `json:"winnerRating"`
	LoserRating    float64                 `json:"loserRating"`
	WinnerDelta    float64                 `json:"winnerDelta"`
	LoserDelta     float64                 `json:"loserDelta"`
}

// RatingFor returns the post-match rating and delta of tag in this match.
func (r MatchRecord) RatingFor(tag string) (rating, delta float64, ok bool) {
	switch ratingdomain.NormalizeTag(tag) {
	case ratingdomain.NormalizeTag(r.WinnerTag):
		return r.WinnerRating, r.WinnerDelta, true
	case ratingdomain.NormalizeTag(r.LoserTag):
		return r.LoserRating, r.LoserDelta, true
	}
	return 0, 0, false
}
