package seasondomain

import (
	"cmp"
	"slices"
)

// SeasonRanking is a player's row in the season standings.
type SeasonRanking struct {
	PlayerSeasonStat
	Rank               int     `json:"rank"`
	WinPercentage      float64 `json:"winPercentage"`
	StrengthOfSchedule float64 `json:"strengthOfSchedule"`
	// Rating is the player's global rating value when the ranking was
	// computed; nil for players the active system has not rated.
	Rating *float64 `json:"rating,omitempty"`
}

// ComputeSeasonRankings orders the season's players by win percentage, then
// strength of schedule, then first appearance.
//
// ratings maps player keys to the active system's current rating value, so
// strength of schedule reflects today's ratings rather than those at match
// time. Opponents missing from ratings are left out of the average.
func ComputeSeasonRankings(s *Season, ratings map[string]float64) []SeasonRanking {
	rows := make([]SeasonRanking, 0, len(s.PlayerOrder))
	for _, key := range s.PlayerOrder {
		st, ok := s.PlayerRecords[key]
		if !ok || st.MatchesPlayed < 1 {
			continue
		}
		row := SeasonRanking{
			PlayerSeasonStat:   *st,
			WinPercentage:      float64(st.Wins) / float64(st.MatchesPlayed) * 100,
			StrengthOfSchedule: strengthOfSchedule(st, ratings),
		}
		if r, ok := ratings[key]; ok {
			row.Rating = &r
		}
		rows = append(rows, row)
	}

	slices.SortStableFunc(rows, func(a, b SeasonRanking) int {
		if c := cmp.Compare(b.WinPercentage, a.WinPercentage); c != 0 {
			return c
		}
		return cmp.Compare(b.StrengthOfSchedule, a.StrengthOfSchedule)
	})

	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// strengthOfSchedule is the meetings-weighted mean rating of rated opponents.
func strengthOfSchedule(st *PlayerSeasonStat, ratings map[string]float64) float64 {
	var sum float64
	var matches int
	for opp, rec := range st.Opponents {
		r, ok := ratings[opp]
		if !ok {
			continue
		}
		sum += r * float64(rec.Matches())
		matches += rec.Matches()
	}
	if matches == 0 {
		return 0
	}
	return sum / float64(matches)
}
