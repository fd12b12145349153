package seasondomain

import (
	"fmt"
	"strings"
	"time"

	ratingdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain"
)

// MatchResult is one reported 1v1 result.
type MatchResult struct {
	// MatchID is the external set id when known. Empty means the match is
	// identified by its content.
	MatchID        string    `json:"matchId,omitempty"`
	WinnerTag      string    `json:"winnerTag"`
	LoserTag       string    `json:"loserTag"`
	Score          string    `json:"score,omitempty"`
	TournamentName string    `json:"tournamentName,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Validate checks that the result names two distinct players and a time.
func (m MatchResult) Validate() error {
	w, l := ratingdomain.NormalizeTag(m.WinnerTag), ratingdomain.NormalizeTag(m.LoserTag)
	switch {
	case w == "" || l == "":
		return fmt.Errorf("%w: winner and loser tags are required", ErrInvalidMatch)
	case w == l:
		return fmt.Errorf("%w: %s cannot play themselves", ErrInvalidMatch, m.WinnerTag)
	case m.Timestamp.IsZero():
		return fmt.Errorf("%w: timestamp is required", ErrInvalidMatch)
	}
	return nil
}

// RecordOutcome says what RecordMatch did with a result.
type RecordOutcome string

const (
	OutcomeRecorded  RecordOutcome = "recorded"
	OutcomeDuplicate RecordOutcome = "duplicate"
)

// OpponentRecord counts results against one opponent, from the owner's side.
type OpponentRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// Matches is the number of meetings with the opponent.
func (o OpponentRecord) Matches() int { return o.Wins + o.Losses }

// PlayerSeasonStat is a player's standing within one season.
type PlayerSeasonStat struct {
	Tag           string                    `json:"tag"`
	MatchesPlayed int                       `json:"matchesPlayed"`
	Wins          int                       `json:"wins"`
	Losses        int                       `json:"losses"`
	Opponents     map[string]OpponentRecord `json:"opponents"`
}

// HeadToHeadMatch is an entry of a head-to-head log.
type HeadToHeadMatch struct {
	MatchID    string    `json:"matchId,omitempty"`
	Winner     string    `json:"winner"`
	Loser      string    `json:"loser"`
	Score      string    `json:"score,omitempty"`
	Tournament string    `json:"tournament,omitempty"`
	PlayedAt   time.Time `json:"playedAt"`
}

// sameContent compares the fields used to identify a match without an id.
func (h HeadToHeadMatch) sameContent(m MatchResult) bool {
	return ratingdomain.NormalizeTag(h.Winner) == ratingdomain.NormalizeTag(m.WinnerTag) &&
		ratingdomain.NormalizeTag(h.Loser) == ratingdomain.NormalizeTag(m.LoserTag) &&
		strings.TrimSpace(h.Score) == strings.TrimSpace(m.Score) &&
		strings.EqualFold(strings.TrimSpace(h.Tournament), strings.TrimSpace(m.TournamentName))
}

// HeadToHeadRecord is the match log between exactly two players.
type HeadToHeadRecord struct {
	Players [2]string         `json:"players"`
	Matches []HeadToHeadMatch `json:"matches"`
}

// WinsFor counts the record's wins by tag.
func (r HeadToHeadRecord) WinsFor(tag string) int {
	key := ratingdomain.NormalizeTag(tag)
	n := 0
	for _, m := range r.Matches {
		if ratingdomain.NormalizeTag(m.Winner) == key {
			n++
		}
	}
	return n
}

// headToHeadSeparator joins the two tag keys of a head-to-head key.
const headToHeadSeparator = "|"

// HeadToHeadKey is order independent: both players' normalized tags, sorted, joined by "|".
func HeadToHeadKey(a, b string) string {
	ka, kb := ratingdomain.NormalizeTag(a), ratingdomain.NormalizeTag(b)
	if kb < ka {
		ka, kb = kb, ka
	}
	return ka + headToHeadSeparator + kb
}
