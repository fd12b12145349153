package ratingdb

import (
	"time"

	ratingdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain"
	"github.com/uptrace/bun"
)

// Player is a roster row. TagKey is the normalized tag and carries the
// case-insensitive uniqueness.
type Player struct {
	bun.BaseModel `bun:"table:rating_players,alias:rp"`

	ID               int64     `bun:"id,pk,autoincrement"`
	Tag              string    `bun:"tag,notnull"`
	TagKey           string    `bun:"tag_key,notnull,unique"`
	DiscordID        *string   `bun:"discord_id"`
	MatchesPlayed    int       `bun:"matches_played,notnull,default:0"`
	Wins             int       `bun:"wins,notnull,default:0"`
	Losses           int       `bun:"losses,notnull,default:0"`
	EloScore         *int      `bun:"elo_score"`
	SkillMean        *float64  `bun:"skill_mean"`
	SkillUncertainty *float64  `bun:"skill_uncertainty"`
	CreatedAt        time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt        time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// ToDomain converts the row into the domain player.
func (p *Player) ToDomain() ratingdomain.Player {
	out := ratingdomain.Player{
		Tag:           p.Tag,
		DiscordID:     p.DiscordID,
		MatchesPlayed: p.MatchesPlayed,
		Wins:          p.Wins,
		Losses:        p.Losses,
		EloScore:      p.EloScore,
	}
	if p.SkillMean != nil && p.SkillUncertainty != nil {
		out.SkillRating = &ratingdomain.SkillRating{Mean: *p.SkillMean, Uncertainty: *p.SkillUncertainty}
	}
	return out
}

// SetFromDomain copies the domain state onto the row, keeping its id and timestamps.
func (p *Player) SetFromDomain(d ratingdomain.Player) {
	p.Tag = d.Tag
	p.TagKey = d.Key()
	p.DiscordID = d.DiscordID
	p.MatchesPlayed = d.MatchesPlayed
	p.Wins = d.Wins
	p.Losses = d.Losses
	p.EloScore = d.EloScore
	p.SkillMean, p.SkillUncertainty = nil, nil
	if d.SkillRating != nil {
		mean, sigma := d.SkillRating.Mean, d.SkillRating.Uncertainty
		p.SkillMean, p.SkillUncertainty = &mean, &sigma
	}
}

// PlayerFromDomain builds a new row for insertion.
func PlayerFromDomain(d ratingdomain.Player) *Player {
	p := &Player{}
	p.SetFromDomain(d)
	return p
}

// settingsRowID is the id of the single settings row.
const settingsRowID = 1

// Settings is the single-row settings blob.
type Settings struct {
	bun.BaseModel `bun:"table:rating_settings,alias:rs"`

	ID           int                      `bun:"id,pk"`
	ActiveSystem string                   `bun:"active_system,notnull"`
	Elo          ratingdomain.EloParams   `bun:"elo,type:jsonb,notnull"`
	Skill        ratingdomain.SkillParams `bun:"skill,type:jsonb,notnull"`
	UpdatedAt    time.Time                `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// ToDomain converts the row into domain settings.
func (s *Settings) ToDomain() ratingdomain.Settings {
	return ratingdomain.Settings{
		ActiveSystem: ratingdomain.SystemID(s.ActiveSystem),
		Elo:          s.Elo,
		Skill:        s.Skill,
	}
}

// SettingsFromDomain builds the settings row.
func SettingsFromDomain(d ratingdomain.Settings) *Settings {
	return &Settings{
		ID:           settingsRowID,
		ActiveSystem: string(d.ActiveSystem),
		Elo:          d.Elo,
		Skill:        d.Skill,
	}
}
