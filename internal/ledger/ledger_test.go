package ledger_test

import (
	"testing"
	"time"

	"github.com/XavierBriggs/Chronos/internal/ledger"
	"github.com/XavierBriggs/Chronos/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func goalAt(team string, period int, remaining time.Duration) ledger.Event {
	return ledger.Goal{
		Header: ledger.Header{TeamName: team, Period: period, Start: remaining, End: remaining},
		Code:   ledger.GoalRegular,
	}
}

func penaltyAt(team string, period int, remaining time.Duration) ledger.Event {
	return ledger.Penalty{
		Header:     ledger.Header{TeamName: team, Period: period, Start: remaining, End: remaining},
		Infraction: "Tripping",
		Minutes:    2,
	}
}

func TestNewLedger_Orders(t *testing.T) {
	events := []ledger.Event{
		goalAt("A", 3, 5*time.Minute),
		goalAt("A", 1, 2*time.Minute),
		penaltyAt("B", 2, 19*time.Minute),
		goalAt("B", 1, 18*time.Minute),
		penaltyAt("A", 3, 15*time.Minute),
	}

	l := ledger.NewLedger(events)
	require.Equal(t, 5, l.Len())

	ordered := l.Events()
	for i := 1; i < len(ordered); i++ {
		prev, next := ordered[i-1].Base(), ordered[i].Base()
		if prev.Period == next.Period {
			assert.GreaterOrEqual(t, prev.Start, next.Start)
		} else {
			assert.Less(t, prev.Period, next.Period)
		}
	}

	assert.Equal(t, 18*time.Minute, ordered[0].Base().Start)
	assert.Equal(t, 5*time.Minute, ordered[4].Base().Start)
}

func TestNewLedger_TiesKeepInsertionOrder(t *testing.T) {
	first := goalAt("A", 1, 10*time.Minute)
	second := penaltyAt("B", 1, 10*time.Minute)

	l := ledger.NewLedger([]ledger.Event{first, second})
	assert.Equal(t, []ledger.Event{first, second}, l.Events())
}

func TestLedger_Add(t *testing.T) {
	l := ledger.NewLedger(nil)

	l.Add(goalAt("A", 2, 10*time.Minute))
	l.Add(goalAt("B", 1, 5*time.Minute))
	l.Add(penaltyAt("A", 2, 10*time.Minute))
	l.Add(goalAt("A", 1, 19*time.Minute))

	ordered := l.Events()
	require.Len(t, ordered, 4)
	assert.Equal(t, 19*time.Minute, ordered[0].Base().Start)
	assert.Equal(t, 5*time.Minute, ordered[1].Base().Start)
	assert.Equal(t, ledger.KindGoal, ordered[2].Kind())
	assert.Equal(t, ledger.KindPenalty, ordered[3].Kind())
}

func TestLedger_EventsReturnsCopy(t *testing.T) {
	l := ledger.NewLedger([]ledger.Event{goalAt("A", 1, time.Minute)})

	events := l.Events()
	events[0] = goalAt("B", 3, 0)

	assert.Equal(t, "A", l.Events()[0].Base().TeamName)
}

func TestLedger_ScoreAsOf(t *testing.T) {
	l := ledger.NewLedger([]ledger.Event{
		goalAt("A", 1, 15*time.Minute),
		goalAt("B", 2, 10*time.Minute),
		penaltyAt("B", 2, 9*time.Minute),
		goalAt("A", 3, 5*time.Minute),
		goalAt("C", 1, 16*time.Minute),
	})

	tests := []struct {
		name      string
		period    int
		remaining time.Duration
		expected  string
	}{
		{"before any goal", 1, 20 * time.Minute, "0 -- 0"},
		{"at the first goal", 1, 15 * time.Minute, "1 -- 0"},
		{"end of first", 1, 0, "1 -- 0"},
		{"at the second goal", 2, 10 * time.Minute, "1 -- 1"},
		{"just before the third", 3, 5*time.Minute + time.Second, "1 -- 1"},
		{"end of game", 3, 0, "2 -- 1"},
		{"overtime", 4, 20 * time.Minute, "2 -- 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, l.ScoreAsOf(tt.period, tt.remaining, "A", "B").String())
		})
	}

	// team order follows the query
	assert.Equal(t, ledger.Score{First: 1, Second: 2}, l.ScoreAsOf(3, 0, "B", "A"))
}

func TestLedger_ScoreAsOfMonotonic(t *testing.T) {
	result, err := ledger.BuildGame(testutil.NewTestGame(1, "2023-11-04"), testutil.GoldenBoxScore(1), rules)
	require.NoError(t, err)

	var prevHome, prevAway int
	for period := 1; period <= 4; period++ {
		for remaining := 20 * time.Minute; remaining >= 0; remaining -= 15 * time.Second {
			score := result.Ledger.ScoreAsOf(period, remaining, testutil.HomeTeamName, testutil.AwayTeamName)
			assert.GreaterOrEqual(t, score.First, prevHome)
			assert.GreaterOrEqual(t, score.Second, prevAway)
			prevHome, prevAway = score.First, score.Second
		}
	}

	assert.Equal(t, 2, prevHome)
	assert.Equal(t, 1, prevAway)
}
