package matchdb

import (
	"time"

	matchdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/domain"
	ratingdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain"
	"github.com/uptrace/bun"
)

// Match is a match log row.
type Match struct {
	bun.BaseModel `bun:"table:matches,alias:m"`

	ID             int64     `bun:"id,pk,autoincrement"`
	MatchID        string    `bun:"match_id,notnull,unique"`
	SeasonID       string    `bun:"season_id,type:uuid,notnull"`
	WinnerTag      string    `bun:"winner_tag,notnull"`
	WinnerKey      string    `bun:"winner_key,notnull"`
	LoserTag       string    `bun:"loser_tag,notnull"`
	LoserKey       string    `bun:"loser_key,notnull"`
	Score          string    `bun:"score"`
	TournamentName string    `bun:"tournament_name"`
	Importance     string    `bun:"importance"`
	System         string    `bun:"system,notnull"`
	PlayedAt       time.Time `bun:"played_at,notnull"`
	WinnerRating   float64   `bun:"winner_rating,notnull"`
	LoserRating    float64   `bun:"loser_rating,notnull"`
	WinnerDelta    float64   `bun:"winner_delta,notnull"`
	LoserDelta     float64   `bun:"loser_delta,notnull"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// ToDomain converts the row into a match record.
func (m *Match) ToDomain() matchdomain.MatchRecord {
	return matchdomain.MatchRecord{
		MatchID:        m.MatchID,
		SeasonID:       m.SeasonID,
		WinnerTag:      m.WinnerTag,
		LoserTag:       m.LoserTag,
		Score:          m.Score,
		TournamentName: m.TournamentName,
		Importance:     ratingdomain.Importance(m.Importance),
		System:         ratingdomain.SystemID(m.System),
		PlayedAt:       m.PlayedAt,
		WinnerRating:   m.WinnerRating,
		LoserRating:    m.LoserRating,
		WinnerDelta:    m.WinnerDelta,
		LoserDelta:     m.LoserDelta,
	}
}

// MatchFromDomain builds a row for insertion.
func MatchFromDomain(r matchdomain.MatchRecord) *Match {
	return &Match{
		MatchID:        r.MatchID,
		SeasonID:       r.SeasonID,
		WinnerTag:      r.WinnerTag,
		WinnerKey:      ratingdomain.NormalizeTag(r.WinnerTag),
		LoserTag:       r.LoserTag,
		LoserKey:       ratingdomain.NormalizeTag(r.LoserTag),
		Score:          r.Score,
		TournamentName: r.TournamentName,
		Importance:     string(r.Importance),
		System:         string(r.System),
		PlayedAt:       r.PlayedAt,
		WinnerRating:   r.WinnerRating,
		LoserRating:    r.LoserRating,
		WinnerDelta:    r.WinnerDelta,
		LoserDelta:     r.LoserDelta,
	}
}
