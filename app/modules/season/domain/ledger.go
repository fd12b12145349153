package seasondomain

import (
	"fmt"
	"strings"
	"time"
)

// Ledger is the season aggregator: at most one open season plus the archive.
type Ledger struct {
	Current  *Season
	Archived []*Season
}

// Open starts a new empty season. It refuses while another is open.
func (l *Ledger) Open(id, name string, start time.Time) (*Season, error) {
	if l.Current != nil && l.Current.IsOpen() {
		return nil, fmt.Errorf("%w: %s", ErrSeasonAlreadyActive, l.Current.Name)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Season starting " + start.Format("2006-01-02")
	}
	l.Current = NewSeason(id, name, start)
	return l.Current, nil
}

// CloseCurrent closes the open season, snapshotting its rankings, and moves it
// to the archive.
func (l *Ledger) CloseCurrent(now time.Time, ratings map[string]float64) (*Season, error) {
	if l.Current == nil || !l.Current.IsOpen() {
		return nil, ErrNoActiveSeason
	}
	closed := l.Current
	if err := closed.Close(now, ratings); err != nil {
		return nil, err
	}
	l.Archived = append(l.Archived, closed)
	l.Current = nil
	return closed, nil
}

// RecordMatch folds a result into the open season.
func (l *Ledger) RecordMatch(m MatchResult) (RecordOutcome, error) {
	if l.Current == nil || !l.Current.IsOpen() {
		return "", ErrNoActiveSeason
	}
	return l.Current.RecordMatch(m)
}
