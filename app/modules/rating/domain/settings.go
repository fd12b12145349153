package ratingdomain

import "fmt"

// Settings is the persisted choice of active system plus every system's tunables.
type Settings struct {
	ActiveSystem SystemID    `json:"activeSystem"`
	Elo          EloParams   `json:"elo"`
	Skill        SkillParams `json:"skill"`
}

// DefaultSettings activates Elo with stock tunables.
func DefaultSettings() Settings {
	return Settings{
		ActiveSystem: SystemElo,
		Elo:          DefaultEloParams(),
		Skill:        DefaultSkillParams(),
	}
}

// Validate checks the active system id and both parameter sets.
func (s Settings) Validate() error {
	if _, err := ParseSystemID(string(s.ActiveSystem)); err != nil {
		return err
	}
	if err := s.Elo.Validate(); err != nil {
		return fmt.Errorf("elo: %w", err)
	}
	if err := s.Skill.Validate(); err != nil {
		return fmt.Errorf("skill: %w", err)
	}
	return nil
}

// BuildSystems constructs the registry described by the settings.
func (s Settings) BuildSystems() (map[SystemID]RatingSystem, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	elo, err := NewEloSystem(s.Elo)
	if err != nil {
		return nil, err
	}
	skill, err := NewSkillSystem(s.Skill)
	if err != nil {
		return nil, err
	}
	return map[SystemID]RatingSystem{
		SystemElo:   elo,
		SystemSkill: skill,
	}, nil
}

// HasRating reports whether the player carries rating state for the system.
// Players who never played under a system are treated as unrated by it.
func HasRating(id SystemID, p Player) bool {
	switch id {
	case SystemElo:
		return p.EloScore != nil
	case SystemSkill:
		return p.SkillRating != nil
	default:
		return false
	}
}
