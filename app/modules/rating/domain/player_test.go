package ratingdomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSystemID(t *testing.T) {
	tests := []struct {
		in      string
		want    SystemID
		wantErr bool
	}{
		{in: "elo", want: SystemElo},
		{in: " Skill ", want: SystemSkill},
		{in: "glicko", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSystemID(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownRatingSystem)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlayer_ApplyKeepsOtherSystem(t *testing.T) {
	p := Player{Tag: "Zain", MatchesPlayed: 4, Wins: 3, Losses: 1, EloScore: intPtr(1100), SkillRating: &SkillRating{Mean: 27, Uncertainty: 6}}

	p.Apply(RatingPatch{SkillRating: &SkillRating{Mean: 28, Uncertainty: 5.5}})

	assert.Equal(t, 1100, *p.EloScore)
	assert.Equal(t, SkillRating{Mean: 28, Uncertainty: 5.5}, *p.SkillRating)
	assert.Equal(t, 4, p.MatchesPlayed)
}

func TestPlayer_ApplyCopiesPatch(t *testing.T) {
	score := 1200
	patch := RatingPatch{EloScore: &score}
	var p Player
	p.Apply(patch)
	score = 1

	assert.Equal(t, 1200, *p.EloScore)
}

func TestPlayer_RecordResult(t *testing.T) {
	var p Player
	p.RecordResult(true)
	p.RecordResult(false)
	p.RecordResult(true)

	assert.Equal(t, 3, p.MatchesPlayed)
	assert.Equal(t, 2, p.Wins)
	assert.Equal(t, 1, p.Losses)
	assert.Equal(t, p.MatchesPlayed, p.Wins+p.Losses)
}

func TestNormalizeTag(t *testing.T) {
	assert.Equal(t, "mang0", NormalizeTag("  Mang0 "))
	assert.Equal(t, Player{Tag: "HBox"}.Key(), Player{Tag: "hbox"}.Key())
}

func TestParseImportance(t *testing.T) {
	for in, want := range map[string]Importance{"": ImportanceStandard, "Standard": ImportanceStandard, " MAJOR ": ImportanceMajor} {
		got, err := ParseImportance(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseImportance("regional")
	assert.ErrorIs(t, err, ErrUnknownImportance)
}
