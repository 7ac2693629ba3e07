package ledger_test

import (
	"testing"
	"time"

	"github.com/XavierBriggs/Chronos/internal/ledger"
	"github.com/XavierBriggs/Chronos/pkg/models"
	"github.com/XavierBriggs/Chronos/pkg/testutil"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rules = models.Rules{PeriodLength: 20 * time.Minute, RegulationPeriods: 3}

func roster() ledger.Roster {
	return ledger.Roster{
		testutil.HomeTeamID: testutil.HomeTeamName,
		testutil.AwayTeamID: testutil.AwayTeamName,
	}
}

func TestGoalCodeFor(t *testing.T) {
	tests := []struct {
		name     string
		goal     models.Goal
		expected ledger.GoalCode
	}{
		{"regular", models.Goal{}, ledger.GoalRegular},
		{"powerplay", models.Goal{IsPowerplay: true}, ledger.GoalPowerPlay},
		{"shorthanded", models.Goal{IsShorthanded: true}, ledger.GoalShortHanded},
		{"empty net", models.Goal{IsEmptyNet: true}, ledger.GoalEmptyNet},
		{"penalty shot", models.Goal{IsPenaltyShot: true}, ledger.GoalPenaltyShot},
		{"powerplay wins", models.Goal{IsPowerplay: true, IsShorthanded: true, IsEmptyNet: true}, ledger.GoalPowerPlay},
		{"shorthanded beats empty net", models.Goal{IsShorthanded: true, IsEmptyNet: true}, ledger.GoalShortHanded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ledger.GoalCodeFor(tt.goal))
		})
	}
}

func TestParsePenaltyMinutes(t *testing.T) {
	tests := []struct {
		name        string
		description *string
		expected    int
	}{
		{"nil", nil, 0},
		{"minor", testutil.StrPtr("2 Minutes"), 2},
		{"major", testutil.StrPtr("Major - 5 min"), 5},
		{"first integer wins", testutil.StrPtr("10 + 2"), 10},
		{"no digits", testutil.StrPtr("Game Misconduct"), 0},
		{"empty", testutil.StrPtr(""), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ledger.ParsePenaltyMinutes(tt.description))
		})
	}
}

func TestOrdinal(t *testing.T) {
	expected := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 5: "5th",
		11: "11th", 12: "12th", 13: "13th", 21: "21st", 22: "22nd", 101: "101st", 111: "111th",
	}

	for period, want := range expected {
		assert.Equal(t, want, ledger.Ordinal(period), "period %d", period)
	}
}

func TestNormalizeGoal_WithTwoAssists(t *testing.T) {
	goal := testutil.NewTestGoal(testutil.HomeTeamID, 2, 7, 45, "Ava Chen", "Mia Park", "Liam Ross")
	goal.IsPowerplay = true

	events, err := ledger.NormalizeGoal(goal, roster(), rules)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, ledger.KindGoal, events[0].Kind())
	assert.Equal(t, ledger.KindAssist, events[1].Kind())
	assert.Equal(t, ledger.KindAssist, events[2].Kind())

	want := 7*time.Minute + 45*time.Second
	for _, e := range events {
		h := e.Base()
		assert.Equal(t, 2, h.Period)
		assert.Equal(t, want, h.Start)
		assert.Equal(t, want, h.End)
		assert.Equal(t, "PPG", e.Subtype())
		assert.Equal(t, testutil.HomeTeamName, h.TeamName)
		assert.Equal(t, 0, e.PenaltyMinutes())
	}

	assert.Equal(t, "Ava Chen", events[0].Base().Player.Name)
	assert.Equal(t, "Mia Park", events[1].Base().Player.Name)
	assert.Equal(t, "Liam Ross", events[2].Base().Player.Name)
}

func TestNormalizeGoal_Regular(t *testing.T) {
	events, err := ledger.NormalizeGoal(testutil.NewTestGoal(testutil.AwayTeamID, 1, 3, 0, "Noah Patel"), roster(), rules)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "REG", events[0].Subtype())
}

func TestNormalizeGoal_UnknownTeam(t *testing.T) {
	_, err := ledger.NormalizeGoal(testutil.NewTestGoal(999, 1, 3, 0, "Noah Patel"), roster(), rules)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ledger.ErrUnknownTeam))
}

func TestNormalizeGoal_MissingParticipant(t *testing.T) {
	_, err := ledger.NormalizeGoal(testutil.NewTestGoal(testutil.HomeTeamID, 1, 3, 0, ""), roster(), rules)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ledger.ErrInvalidRecord))
}

func TestNormalizeGoal_ClockOutsidePeriod(t *testing.T) {
	_, err := ledger.NormalizeGoal(testutil.NewTestGoal(testutil.HomeTeamID, 1, 20, 30, "Ava Chen"), roster(), rules)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ledger.ErrInvalidRecord))
}

func TestNormalizePenalty_WithinPeriod(t *testing.T) {
	pen := testutil.NewTestPenalty(testutil.HomeTeamID, 1, 10, 0, "Liam Ross", "Hooking", "2 Minutes")

	events, warnings, err := ledger.NormalizePenalty(pen, roster(), rules)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, events, 1)

	h := events[0].Base()
	assert.Equal(t, 10*time.Minute, h.Start)
	assert.Equal(t, 8*time.Minute, h.End)
	assert.Equal(t, "Hooking", events[0].Subtype())
	assert.Equal(t, 2, events[0].PenaltyMinutes())
}

func TestNormalizePenalty_Carryover(t *testing.T) {
	pen := testutil.NewTestPenalty(testutil.HomeTeamID, 1, 0, 30, "Liam Ross", "Tripping", "2 Minutes")

	events, warnings, err := ledger.NormalizePenalty(pen, roster(), rules)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, events, 2)

	original := events[0].(ledger.Penalty)
	assert.Equal(t, 1, original.Period)
	assert.Equal(t, 30*time.Second, original.Start)
	assert.Equal(t, time.Duration(0), original.End)
	assert.False(t, original.Carryover)

	carry := events[1].(ledger.Penalty)
	assert.True(t, carry.Carryover)
	assert.Equal(t, 2, carry.Period)
	assert.Equal(t, 18*time.Minute+30*time.Second, carry.Start)
	assert.Equal(t, 17*time.Minute, carry.End)
	assert.Equal(t, "Tripping", carry.Subtype())
	assert.Equal(t, 2, carry.PenaltyMinutes())
	assert.Equal(t, original.Player, carry.Player)
	assert.Equal(t, original.TeamID, carry.TeamID)
}

func TestNormalizePenalty_NoCarryoverFromFinalRegulationPeriod(t *testing.T) {
	pen := testutil.NewTestPenalty(testutil.AwayTeamID, 3, 1, 0, "Ethan Wong", "Slashing", "2 Minutes")

	events, _, err := ledger.NormalizePenalty(pen, roster(), rules)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, time.Duration(0), events[0].Base().End)
}

func TestNormalizePenalty_ExpiresAtPeriodEnd(t *testing.T) {
	pen := testutil.NewTestPenalty(testutil.AwayTeamID, 1, 2, 0, "Ethan Wong", "Slashing", "2 Minutes")

	events, _, err := ledger.NormalizePenalty(pen, roster(), rules)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, time.Duration(0), events[0].Base().End)
}

func TestNormalizePenalty_ClampsLongCarryover(t *testing.T) {
	pen := testutil.NewTestPenalty(testutil.AwayTeamID, 2, 0, 10, "Ethan Wong", "Match", "30 Minutes")

	events, warnings, err := ledger.NormalizePenalty(pen, roster(), rules)
	require.NoError(t, err)
	require.Len(t, events, 2)

	carry := events[1].Base()
	assert.Equal(t, 3, carry.Period)
	assert.Equal(t, time.Duration(0), carry.Start)
	assert.Equal(t, time.Duration(0), carry.End)
	assert.Len(t, warnings, 2)
	for _, w := range warnings {
		assert.Equal(t, 3, w.Period)
		assert.Equal(t, "Ethan Wong", w.Player)
	}
}

func TestNormalizePenalty_UnparseableDuration(t *testing.T) {
	pen := testutil.NewTestPenalty(testutil.AwayTeamID, 1, 5, 0, "Ethan Wong", "Misconduct", "")

	events, _, err := ledger.NormalizePenalty(pen, roster(), rules)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 0, events[0].PenaltyMinutes())
	assert.Equal(t, events[0].Base().Start, events[0].Base().End)
}

func TestNormalizePenalty_UnknownTeam(t *testing.T) {
	pen := testutil.NewTestPenalty(999, 1, 5, 0, "Ethan Wong", "Tripping", "2 Minutes")

	_, _, err := ledger.NormalizePenalty(pen, roster(), rules)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ledger.ErrUnknownTeam))
}
