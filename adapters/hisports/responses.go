package hisports

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/XavierBriggs/Chronos/pkg/models"
	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
)

// API response structures matching the hisports JSON format

type gameResponse struct {
	ID         flexInt `json:"id"`
	SeasonID   flexInt `json:"seasonId"`
	ScheduleID flexInt `json:"scheduleId"`
	Date       string  `json:"date"`
	HomeTeamID flexInt `json:"homeTeamId"`
	AwayTeamID flexInt `json:"awayTeamId"`
}

type boxScoreResponse struct {
	Teams     []teamResponse    `json:"teams"`
	Goals     []goalResponse    `json:"goals"`
	Penalties []penaltyResponse `json:"penalties"`
}

type teamResponse struct {
	ID   flexInt `json:"id"`
	Name string  `json:"name"`
}

type gameTimeResponse struct {
	Period  flexInt `json:"period"`
	Minutes flexInt `json:"minutes"`
	Seconds flexInt `json:"seconds"`
}

type participantResponse struct {
	FullName string     `json:"fullName"`
	Number   flexString `json:"number"`
}

type goalResponse struct {
	TeamID        flexInt               `json:"teamId"`
	GameTime      gameTimeResponse      `json:"gameTime"`
	Participant   participantResponse   `json:"participant"`
	Assists       []participantResponse `json:"assists"`
	IsPowerplay   bool                  `json:"isPowerplay"`
	IsShorthanded bool                  `json:"isShorthanded"`
	IsEmptyNet    bool                  `json:"isEmptyNet"`
	IsPenaltyShot bool                  `json:"isPenaltyShot"`
}

type penaltyResponse struct {
	TeamID      flexInt             `json:"teamId"`
	GameTime    gameTimeResponse    `json:"gameTime"`
	Participant participantResponse `json:"participant"`
	Infraction  string              `json:"infraction"`
	Duration    *durationResponse   `json:"duration"`
}

type durationResponse struct {
	Description *string `json:"description"`
}

// flexInt decodes integers the API sometimes sends as strings
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = 0
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := sonic.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "integer field %q", s)
		}
		*f = flexInt(v)
		return nil
	}

	var v int64
	if err := sonic.Unmarshal(trimmed, &v); err != nil {
		return err
	}
	*f = flexInt(v)
	return nil
}

// flexString decodes jersey numbers sent either as strings or numbers
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := sonic.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}

	*f = flexString(trimmed)
	return nil
}

type idClause map[string]int64

type gamesQuery struct {
	Where   map[string][]any `json:"where"`
	Include []string         `json:"include"`
	Order   []string         `json:"order"`
	Limit   *int             `json:"limit"`
	Skip    *int             `json:"skip"`
}

// gamesFilter builds the loopback filter selecting a schedule's games where
// the team played at home or away
func gamesFilter(scheduleID, teamID int64) (string, error) {
	query := gamesQuery{
		Where: map[string][]any{
			"and": {
				idClause{"scheduleId": scheduleID},
				map[string][]idClause{
					"or": {
						{"homeTeamId": teamID},
						{"awayTeamId": teamID},
					},
				},
			},
		},
		Include: []string{"arena", "schedule", "group", "teamStats"},
		Order:   []string{"startTime ASC", "id DESC"},
	}

	raw, err := sonic.Marshal(query)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// parseGamesResponse converts API response to internal Game format
func parseGamesResponse(apiResp []gameResponse) []models.Game {
	games := make([]models.Game, 0, len(apiResp))

	for _, g := range apiResp {
		if g.ID <= 0 {
			continue // Skip games without an id
		}

		games = append(games, models.Game{
			GameID:     int64(g.ID),
			SeasonID:   int64(g.SeasonID),
			ScheduleID: int64(g.ScheduleID),
			Date:       g.Date,
			HomeTeamID: int64(g.HomeTeamID),
			AwayTeamID: int64(g.AwayTeamID),
		})
	}

	return games
}

// parseBoxScoreResponse converts API response to internal BoxScore format
func parseBoxScoreResponse(gameID int64, apiResp boxScoreResponse) *models.BoxScore {
	box := &models.BoxScore{
		GameID:    gameID,
		Teams:     make([]models.Team, 0, len(apiResp.Teams)),
		Goals:     make([]models.Goal, 0, len(apiResp.Goals)),
		Penalties: make([]models.Penalty, 0, len(apiResp.Penalties)),
	}

	for _, team := range apiResp.Teams {
		box.Teams = append(box.Teams, models.Team{TeamID: int64(team.ID), Name: team.Name})
	}

	for _, goal := range apiResp.Goals {
		g := models.Goal{
			TeamID:        int64(goal.TeamID),
			GameTime:      goal.GameTime.toModel(),
			Participant:   goal.Participant.toModel(),
			IsPowerplay:   goal.IsPowerplay,
			IsShorthanded: goal.IsShorthanded,
			IsEmptyNet:    goal.IsEmptyNet,
			IsPenaltyShot: goal.IsPenaltyShot,
		}
		for _, assist := range goal.Assists {
			g.Assists = append(g.Assists, assist.toModel())
		}
		box.Goals = append(box.Goals, g)
	}

	for _, pen := range apiResp.Penalties {
		p := models.Penalty{
			TeamID:      int64(pen.TeamID),
			GameTime:    pen.GameTime.toModel(),
			Participant: pen.Participant.toModel(),
			Infraction:  pen.Infraction,
		}
		if pen.Duration != nil && pen.Duration.Description != nil {
			description := *pen.Duration.Description
			p.DurationDescription = &description
		}
		box.Penalties = append(box.Penalties, p)
	}

	return box
}

func (gt gameTimeResponse) toModel() models.GameTime {
	return models.GameTime{
		Period:  int(gt.Period),
		Minutes: int(gt.Minutes),
		Seconds: int(gt.Seconds),
	}
}

func (p participantResponse) toModel() models.Participant {
	return models.Participant{FullName: p.FullName, Number: string(p.Number)}
}
