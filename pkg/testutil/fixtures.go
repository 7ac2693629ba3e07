package testutil

import (
	"github.com/XavierBriggs/Chronos/pkg/models"
)

// Team ids used by the fixtures
const (
	HomeTeamID int64 = 101
	AwayTeamID int64 = 202
)

// Team names used by the fixtures
const (
	HomeTeamName = "Saanich Braves"
	AwayTeamName = "Victoria Cougars"
)

// NewTestGame creates a game summary with the fixture teams
func NewTestGame(gameID int64, date string) models.Game {
	return models.Game{
		GameID:     gameID,
		SeasonID:   9,
		ScheduleID: 1234,
		Date:       date,
		HomeTeamID: HomeTeamID,
		AwayTeamID: AwayTeamID,
	}
}

// NewTestBoxScore creates a box score with the fixture roster and no records
func NewTestBoxScore(gameID int64) *models.BoxScore {
	return &models.BoxScore{
		GameID: gameID,
		Teams: []models.Team{
			{TeamID: HomeTeamID, Name: HomeTeamName},
			{TeamID: AwayTeamID, Name: AwayTeamName},
		},
	}
}

// NewTestGoal creates a regular goal scored with the given time remaining
func NewTestGoal(teamID int64, period, minutes, seconds int, scorer string, assists ...string) models.Goal {
	goal := models.Goal{
		TeamID:      teamID,
		GameTime:    models.GameTime{Period: period, Minutes: minutes, Seconds: seconds},
		Participant: models.Participant{FullName: scorer, Number: "9"},
	}
	for i, name := range assists {
		goal.Assists = append(goal.Assists, models.Participant{
			FullName: name,
			Number:   string(rune('1' + i)),
		})
	}
	return goal
}

// NewTestPenalty creates a penalty called with the given time remaining.
// An empty duration leaves the description unset.
func NewTestPenalty(teamID int64, period, minutes, seconds int, player, infraction, duration string) models.Penalty {
	pen := models.Penalty{
		TeamID:      teamID,
		GameTime:    models.GameTime{Period: period, Minutes: minutes, Seconds: seconds},
		Participant: models.Participant{FullName: player, Number: "4"},
		Infraction:  infraction,
	}
	if duration != "" {
		pen.DurationDescription = StrPtr(duration)
	}
	return pen
}

// GoldenBoxScore returns a full game exercising goals, assists, a power play
// goal and a penalty that carries over into the second period
func GoldenBoxScore(gameID int64) *models.BoxScore {
	box := NewTestBoxScore(gameID)

	box.Goals = []models.Goal{
		NewTestGoal(HomeTeamID, 1, 15, 0, "Ava Chen", "Mia Park", "Liam Ross"),
		NewTestGoal(AwayTeamID, 2, 10, 0, "Noah Patel"),
		NewTestGoal(HomeTeamID, 3, 5, 30, "Ava Chen"),
	}
	box.Goals[1].IsPowerplay = true

	box.Penalties = []models.Penalty{
		NewTestPenalty(HomeTeamID, 1, 0, 30, "Liam Ross", "Tripping", "2 Minutes"),
		NewTestPenalty(AwayTeamID, 3, 12, 0, "Ethan Wong", "Misconduct", ""),
	}

	return box
}

// StrPtr returns a pointer to s
func StrPtr(s string) *string {
	return &s
}
