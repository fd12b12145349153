package seasondomain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_Lifecycle(t *testing.T) {
	var l Ledger

	_, err := l.RecordMatch(match("a", "b", "", ""))
	assert.ErrorIs(t, err, ErrNoActiveSeason)
	_, err = l.CloseCurrent(t0, nil)
	assert.ErrorIs(t, err, ErrNoActiveSeason)

	first, err := l.Open("s1", "Spring", t0)
	require.NoError(t, err)
	_, err = l.Open("s2", "Summer", t0)
	assert.ErrorIs(t, err, ErrSeasonAlreadyActive)

	outcome, err := l.RecordMatch(match("a", "b", "2-0", ""))
	require.NoError(t, err)
	assert.Equal(t, OutcomeRecorded, outcome)
	require.NoError(t, first.AddEvent(EventRef{Name: "Weekly"}))

	closed, err := l.CloseCurrent(t0.Add(time.Hour), map[string]float64{"a": 1016, "b": 984})
	require.NoError(t, err)
	assert.Same(t, first, closed)
	assert.Len(t, closed.Rankings, 2)
	assert.Nil(t, l.Current)
	assert.Len(t, l.Archived, 1)

	next, err := l.Open("s2", "", t0.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "Season starting 2026-03-01", next.Name)
	assert.Empty(t, next.PlayerRecords)
	assert.Empty(t, next.HeadToHead)
	assert.Empty(t, next.Events)
	assert.Empty(t, next.Rankings)
	assert.True(t, next.IsOpen())
}
