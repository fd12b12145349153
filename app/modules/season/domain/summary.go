package seasondomain

import "time"

// Summary is a season's header without its records.
type Summary struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Open        bool       `json:"open"`
	Events      int        `json:"events"`
	Players     int        `json:"players"`
	MatchesSeen int        `json:"matches"`
}

// Summarize builds the season's summary.
func (s *Season) Summarize() Summary {
	matches := 0
	for _, rec := range s.HeadToHead {
		matches += len(rec.Matches)
	}
	return Summary{
		ID:          s.ID,
		Name:        s.Name,
		StartDate:   s.StartDate,
		EndDate:     s.EndDate,
		Open:        s.IsOpen(),
		Events:      len(s.Events),
		Players:     len(s.PlayerRecords),
		MatchesSeen: matches,
	}
}
