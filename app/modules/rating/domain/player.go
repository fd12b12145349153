package ratingdomain

import (
	"fmt"
	"strings"
)

// SystemID names a rating system.
type SystemID string

const (
	SystemElo   SystemID = "elo"
	SystemSkill SystemID = "skill"
)

// ParseSystemID validates a user supplied system name.
func ParseSystemID(s string) (SystemID, error) {
	switch id := SystemID(strings.ToLower(strings.TrimSpace(s))); id {
	case SystemElo, SystemSkill:
		return id, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRatingSystem, s)
	}
}

// SkillRating is a Gaussian belief over a player's skill.
type SkillRating struct {
	Mean        float64 `json:"mean"`
	Uncertainty float64 `json:"uncertainty"`
}

// ConservativeEstimate is mean - 3*uncertainty.
func (s SkillRating) ConservativeEstimate() float64 {
	return s.Mean - 3*s.Uncertainty
}

// Player is a roster entry with its counters and rating state.
// Rating fields of a system that is not active are kept as-is.
type Player struct {
	Tag           string       `json:"tag"`
	DiscordID     *string      `json:"discordId,omitempty"`
	MatchesPlayed int          `json:"matchesPlayed"`
	Wins          int          `json:"wins"`
	Losses        int          `json:"losses"`
	EloScore      *int         `json:"eloScore,omitempty"`
	SkillRating   *SkillRating `json:"skillRating,omitempty"`
}

// RatingPatch carries the rating fields a system wants to write. Nil fields
// are left untouched on merge.
type RatingPatch struct {
	EloScore    *int         `json:"eloScore,omitempty"`
	SkillRating *SkillRating `json:"skillRating,omitempty"`
}

// Apply merges the patch into the player. Counters are not touched.
func (p *Player) Apply(patch RatingPatch) {
	if patch.EloScore != nil {
		v := *patch.EloScore
		p.EloScore = &v
	}
	if patch.SkillRating != nil {
		v := *patch.SkillRating
		p.SkillRating = &v
	}
}

// RecordResult bumps the match counters for one played match.
func (p *Player) RecordResult(won bool) {
	p.MatchesPlayed++
	if won {
		p.Wins++
	} else {
		p.Losses++
	}
}

// Key is the case-insensitive roster key for the player's tag.
func (p Player) Key() string {
	return NormalizeTag(p.Tag)
}

// NormalizeTag folds a display tag into its lookup key.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// Importance marks how much a tournament weighs in rating updates.
type Importance string

const (
	ImportanceStandard Importance = ""
	ImportanceMajor    Importance = "major"
)

// ParseImportance reads user input; blank and "standard" both mean standard.
func ParseImportance(s string) (Importance, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return ImportanceStandard, nil
	case "major":
		return ImportanceMajor, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownImportance, s)
	}
}

// MatchContext is optional information about where a match was played.
type MatchContext struct {
	TournamentName string     `json:"tournamentName,omitempty"`
	Importance     Importance `json:"importance,omitempty"`
}

// MatchUpdate is the outcome of a rating computation for one match.
type MatchUpdate struct {
	System SystemID    `json:"system"`
	Winner RatingPatch `json:"winner"`
	Loser  RatingPatch `json:"loser"`
}

// RankedPlayer is a player with its position in a ranking.
type RankedPlayer struct {
	Player
	Rank          int    `json:"rank"`
	DisplayRating string `json:"displayRating"`
}
