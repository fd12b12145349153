package seasondomain

import (
	"fmt"
	"strings"
	"time"

	ratingdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain"
)

// EventRef is a tournament counted towards a season.
type EventRef struct {
	Name       string                  `json:"name"`
	Importance ratingdomain.Importance `json:"importance,omitempty"`
	AddedAt    time.Time               `json:"addedAt"`
}

// Season is a bounded window of matches with its own standings. A season is
// open exactly while EndDate is nil; once closed it never reopens.
type Season struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`

	Events        []EventRef                   `json:"events"`
	PlayerRecords map[string]*PlayerSeasonStat `json:"playerRecords"`
	// PlayerOrder lists player keys in order of first appearance. It is the
	// final tie-break of season rankings.
	PlayerOrder []string                     `json:"playerOrder"`
	HeadToHead  map[string]*HeadToHeadRecord `json:"headToHead"`

	// Rankings is the snapshot taken when the season closed.
	Rankings []SeasonRanking `json:"rankings,omitempty"`
}

// NewSeason returns an open, empty season.
func NewSeason(id, name string, start time.Time) *Season {
	return &Season{
		ID:            id,
		Name:          name,
		StartDate:     start,
		Events:        []EventRef{},
		PlayerRecords: map[string]*PlayerSeasonStat{},
		PlayerOrder:   []string{},
		HeadToHead:    map[string]*HeadToHeadRecord{},
	}
}

// IsOpen reports whether the season still accepts matches.
func (s *Season) IsOpen() bool { return s.EndDate == nil }

// IsDuplicate reports whether the result was already folded into the season.
// Two results that both carry a MatchID are matched by id only. Otherwise they
// are matched on winner, loser, score and tournament, so a set reported by
// hand and later imported with its id is still caught.
func (s *Season) IsDuplicate(m MatchResult) bool {
	rec, ok := s.HeadToHead[HeadToHeadKey(m.WinnerTag, m.LoserTag)]
	if !ok {
		return false
	}
	for _, prev := range rec.Matches {
		if m.MatchID != "" && prev.MatchID != "" {
			if prev.MatchID == m.MatchID {
				return true
			}
			continue
		}
		if prev.sameContent(m) {
			return true
		}
	}
	return false
}

// RecordMatch folds a result into the season's standings and head-to-head
// log. All checks run before anything is written, so a rejected or duplicate
// result leaves the season unchanged.
func (s *Season) RecordMatch(m MatchResult) (RecordOutcome, error) {
	if !s.IsOpen() {
		return "", fmt.Errorf("%w: %s", ErrSeasonClosed, s.Name)
	}
	if err := m.Validate(); err != nil {
		return "", err
	}
	if s.IsDuplicate(m) {
		return OutcomeDuplicate, nil
	}

	wKey := ratingdomain.NormalizeTag(m.WinnerTag)
	lKey := ratingdomain.NormalizeTag(m.LoserTag)

	winner := s.stat(wKey, m.WinnerTag)
	loser := s.stat(lKey, m.LoserTag)

	winner.MatchesPlayed++
	winner.Wins++
	vs := winner.Opponents[lKey]
	vs.Wins++
	winner.Opponents[lKey] = vs

	loser.MatchesPlayed++
	loser.Losses++
	vs = loser.Opponents[wKey]
	vs.Losses++
	loser.Opponents[wKey] = vs

	key := HeadToHeadKey(wKey, lKey)
	rec, ok := s.HeadToHead[key]
	if !ok {
		players := [2]string{strings.TrimSpace(m.WinnerTag), strings.TrimSpace(m.LoserTag)}
		if lKey < wKey {
			players[0], players[1] = players[1], players[0]
		}
		rec = &HeadToHeadRecord{Players: players, Matches: []HeadToHeadMatch{}}
		s.HeadToHead[key] = rec
	}
	rec.Matches = append(rec.Matches, HeadToHeadMatch{
		MatchID:    m.MatchID,
		Winner:     strings.TrimSpace(m.WinnerTag),
		Loser:      strings.TrimSpace(m.LoserTag),
		Score:      strings.TrimSpace(m.Score),
		Tournament: strings.TrimSpace(m.TournamentName),
		PlayedAt:   m.Timestamp,
	})

	return OutcomeRecorded, nil
}

func (s *Season) stat(key, tag string) *PlayerSeasonStat {
	if st, ok := s.PlayerRecords[key]; ok {
		return st
	}
	st := &PlayerSeasonStat{Tag: strings.TrimSpace(tag), Opponents: map[string]OpponentRecord{}}
	s.PlayerRecords[key] = st
	s.PlayerOrder = append(s.PlayerOrder, key)
	return st
}

// HeadToHeadFor returns the log between a and b; an empty record when they never met.
func (s *Season) HeadToHeadFor(a, b string) HeadToHeadRecord {
	if rec, ok := s.HeadToHead[HeadToHeadKey(a, b)]; ok {
		return *rec
	}
	players := [2]string{strings.TrimSpace(a), strings.TrimSpace(b)}
	if ratingdomain.NormalizeTag(b) < ratingdomain.NormalizeTag(a) {
		players[0], players[1] = players[1], players[0]
	}
	return HeadToHeadRecord{Players: players, Matches: []HeadToHeadMatch{}}
}

// AddEvent adds a tournament to the season's bookkeeping.
func (s *Season) AddEvent(ref EventRef) error {
	if !s.IsOpen() {
		return fmt.Errorf("%w: %s", ErrSeasonClosed, s.Name)
	}
	ref.Name = strings.TrimSpace(ref.Name)
	if ref.Name == "" {
		return fmt.Errorf("%w: tournament name is required", ErrInvalidMatch)
	}
	if s.eventIndex(ref.Name) >= 0 {
		return fmt.Errorf("%w: %s", ErrEventExists, ref.Name)
	}
	s.Events = append(s.Events, ref)
	return nil
}

// RemoveEvent drops a tournament from the season's bookkeeping. Matches
// already folded in from it stay counted.
func (s *Season) RemoveEvent(name string) error {
	if !s.IsOpen() {
		return fmt.Errorf("%w: %s", ErrSeasonClosed, s.Name)
	}
	i := s.eventIndex(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrEventNotFound, name)
	}
	s.Events = append(s.Events[:i], s.Events[i+1:]...)
	return nil
}

// HasEvent reports whether the tournament is part of the season.
func (s *Season) HasEvent(name string) bool { return s.eventIndex(name) >= 0 }

func (s *Season) eventIndex(name string) int {
	name = strings.TrimSpace(name)
	for i, e := range s.Events {
		if strings.EqualFold(e.Name, name) {
			return i
		}
	}
	return -1
}

// Close snapshots the final rankings and ends the season at now.
func (s *Season) Close(now time.Time, ratings map[string]float64) error {
	if !s.IsOpen() {
		return fmt.Errorf("%w: %s", ErrSeasonClosed, s.Name)
	}
	s.Rankings = ComputeSeasonRankings(s, ratings)
	end := now
	s.EndDate = &end
	return nil
}
