package ledger

import (
	"github.com/XavierBriggs/Chronos/pkg/models"
	"github.com/cockroachdb/errors"
)

// Result is one game's reconciled ledger
type Result struct {
	Game     models.Game
	HomeTeam models.Team
	AwayTeam models.Team
	Ledger   *Ledger
	Warnings []Warning
}

// BuildGame normalizes every goal, assist and penalty of a box score and
// orders them into a ledger. Any invalid record fails the whole game.
func BuildGame(game models.Game, box *models.BoxScore, rules models.Rules) (*Result, error) {
	if box == nil {
		return nil, errors.Wrap(ErrInvalidRecord, "box score is nil")
	}

	if err := validate.Struct(box); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "box score for game %d", game.GameID), ErrInvalidRecord)
	}

	home, away, err := resolveTeams(game, box.Teams)
	if err != nil {
		return nil, err
	}

	roster := Roster{
		home.TeamID: home.Name,
		away.TeamID: away.Name,
	}

	events := make([]Event, 0, len(box.Goals)*3+len(box.Penalties))
	var warnings []Warning

	for i, goal := range box.Goals {
		goalEvents, err := NormalizeGoal(goal, roster, rules)
		if err != nil {
			return nil, errors.Wrapf(err, "goal %d", i)
		}
		events = append(events, goalEvents...)
	}

	for i, pen := range box.Penalties {
		penEvents, penWarnings, err := NormalizePenalty(pen, roster, rules)
		if err != nil {
			return nil, errors.Wrapf(err, "penalty %d", i)
		}
		events = append(events, penEvents...)
		warnings = append(warnings, penWarnings...)
	}

	return &Result{
		Game:     game,
		HomeTeam: home,
		AwayTeam: away,
		Ledger:   NewLedger(events),
		Warnings: warnings,
	}, nil
}

// Rows returns one row per event in ledger order, each carrying the score
// as of that event
func (r *Result) Rows() []models.Row {
	events := r.Ledger.Events()
	rows := make([]models.Row, 0, len(events))

	for _, event := range events {
		h := event.Base()
		score := r.Ledger.ScoreAsOf(h.Period, h.Start, r.HomeTeam.Name, r.AwayTeam.Name)

		rows = append(rows, models.Row{
			HomeTeam:       r.HomeTeam.Name,
			AwayTeam:       r.AwayTeam.Name,
			Date:           r.Game.Date,
			Event:          event.Kind().String(),
			EventType:      event.Subtype(),
			PlayerName:     h.Player.Name,
			PlayerNumber:   h.Player.Number,
			PlayerTeam:     h.TeamName,
			StartTime:      h.Start,
			EndTime:        h.End,
			Period:         Ordinal(h.Period),
			PenaltyMinutes: event.PenaltyMinutes(),
			Score:          score.String(),
		})
	}

	return rows
}

// Sheet packages the rows for the row sinks
func (r *Result) Sheet(league string) *models.GameSheet {
	return &models.GameSheet{
		Game:     r.Game,
		League:   league,
		HomeTeam: r.HomeTeam.Name,
		AwayTeam: r.AwayTeam.Name,
		Rows:     r.Rows(),
	}
}

// resolveTeams orders the roster as home/away. The game summary's team ids
// win when both are on the roster, otherwise the roster order is used.
func resolveTeams(game models.Game, teams []models.Team) (models.Team, models.Team, error) {
	if len(teams) != 2 {
		return models.Team{}, models.Team{}, errors.Wrapf(ErrInvalidRecord, "expected 2 teams, got %d", len(teams))
	}

	first, second := teams[0], teams[1]
	if first.TeamID == second.TeamID {
		return models.Team{}, models.Team{}, errors.Wrapf(ErrInvalidRecord, "duplicate roster team id %d", first.TeamID)
	}

	if game.HomeTeamID == second.TeamID && game.AwayTeamID == first.TeamID {
		return second, first, nil
	}
	return first, second, nil
}
