package ledger

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/XavierBriggs/Chronos/pkg/models"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

var digitsRegex = regexp.MustCompile(`\d+`)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Roster maps team ids to team names for one game
type Roster map[int64]string

// Lookup returns the name of teamID
func (r Roster) Lookup(teamID int64) (string, error) {
	name, ok := r[teamID]
	if !ok {
		return "", errors.Wrapf(ErrUnknownTeam, "team id %d", teamID)
	}
	return name, nil
}

// Warning is a non-fatal data-quality problem found while normalizing
type Warning struct {
	Period  int
	Player  string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s period, %s: %s", Ordinal(w.Period), w.Player, w.Message)
}

// Remaining converts a vendor clock reading into time remaining in the period
func Remaining(gt models.GameTime) time.Duration {
	return time.Duration(gt.Minutes)*time.Minute + time.Duration(gt.Seconds)*time.Second
}

// CheckClock rejects clock readings outside [0:00, period length]
func CheckClock(gt models.GameTime, rules models.Rules) error {
	if gt.Period < 1 {
		return errors.Wrapf(ErrInvalidRecord, "period %d", gt.Period)
	}

	remaining := Remaining(gt)
	if remaining < 0 || remaining > rules.PeriodLength {
		return errors.Wrapf(ErrInvalidRecord, "clock %d:%02d outside period", gt.Minutes, gt.Seconds)
	}
	return nil
}

// GoalCodeFor classifies a goal. Flags are checked in priority order and the
// first one set wins.
func GoalCodeFor(goal models.Goal) GoalCode {
	switch {
	case goal.IsPowerplay:
		return GoalPowerPlay
	case goal.IsShorthanded:
		return GoalShortHanded
	case goal.IsEmptyNet:
		return GoalEmptyNet
	case goal.IsPenaltyShot:
		return GoalPenaltyShot
	default:
		return GoalRegular
	}
}

// ParsePenaltyMinutes returns the first integer found in a duration
// description, or 0 when there is none
func ParsePenaltyMinutes(description *string) int {
	if description == nil {
		return 0
	}

	match := digitsRegex.FindString(*description)
	if match == "" {
		return 0
	}

	minutes, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return minutes
}

// NormalizeGoal converts a raw goal into one Goal followed by one Assist per
// credited assist
func NormalizeGoal(goal models.Goal, roster Roster, rules models.Rules) ([]Event, error) {
	if err := validate.Struct(goal); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "goal record"), ErrInvalidRecord)
	}

	if err := CheckClock(goal.GameTime, rules); err != nil {
		return nil, err
	}

	teamName, err := roster.Lookup(goal.TeamID)
	if err != nil {
		return nil, err
	}

	clock := Remaining(goal.GameTime)
	code := GoalCodeFor(goal)

	header := Header{
		TeamID:   goal.TeamID,
		TeamName: teamName,
		Player:   toParticipant(goal.Participant),
		Period:   goal.GameTime.Period,
		Start:    clock,
		End:      clock,
	}

	events := make([]Event, 0, 1+len(goal.Assists))
	events = append(events, Goal{Header: header, Code: code})

	for _, assist := range goal.Assists {
		h := header
		h.Player = toParticipant(assist)
		events = append(events, Assist{Header: h, Code: code})
	}

	return events, nil
}

// NormalizePenalty converts a raw penalty into a Penalty and, when the
// penalty outlasts the period and the period carries over, a second Penalty
// in the following period for the unserved remainder
func NormalizePenalty(pen models.Penalty, roster Roster, rules models.Rules) ([]Event, []Warning, error) {
	if err := validate.Struct(pen); err != nil {
		return nil, nil, errors.Mark(errors.Wrap(err, "penalty record"), ErrInvalidRecord)
	}

	if err := CheckClock(pen.GameTime, rules); err != nil {
		return nil, nil, err
	}

	teamName, err := roster.Lookup(pen.TeamID)
	if err != nil {
		return nil, nil, err
	}

	minutes := ParsePenaltyMinutes(pen.DurationDescription)
	length := time.Duration(minutes) * time.Minute
	start := Remaining(pen.GameTime)

	// Penalties running to or past the end of the period expire at 0:00
	end := start - length
	var remainder time.Duration
	if length >= start {
		end = 0
		remainder = length - start
	}

	header := Header{
		TeamID:   pen.TeamID,
		TeamName: teamName,
		Player:   toParticipant(pen.Participant),
		Period:   pen.GameTime.Period,
		Start:    start,
		End:      end,
	}

	events := []Event{Penalty{Header: header, Infraction: pen.Infraction, Minutes: minutes}}

	if remainder <= 0 || !rules.CarriesOver(header.Period) {
		return events, nil, nil
	}

	var warnings []Warning

	carry := header
	carry.Period = header.Period + 1
	carry.Start = rules.PeriodLength - remainder
	if carry.Start < 0 {
		warnings = append(warnings, Warning{
			Period:  carry.Period,
			Player:  carry.Player.Name,
			Message: fmt.Sprintf("carryover of %s exceeds period length, start clamped to 0:00", models.FormatClock(remainder)),
		})
		carry.Start = 0
	}
	carry.End = carry.Start - remainder
	if carry.End < 0 {
		warnings = append(warnings, Warning{
			Period:  carry.Period,
			Player:  carry.Player.Name,
			Message: fmt.Sprintf("carryover of %s ends before period end, end clamped to 0:00", models.FormatClock(remainder)),
		})
		carry.End = 0
	}

	events = append(events, Penalty{
		Header:     carry,
		Infraction: pen.Infraction,
		Minutes:    minutes,
		Carryover:  true,
	})

	return events, warnings, nil
}

func toParticipant(p models.Participant) Participant {
	return Participant{
		Name:   strings.TrimSpace(p.FullName),
		Number: strings.TrimSpace(p.Number),
	}
}

// Ordinal renders a period number as 1st, 2nd, 3rd, 4th, ...
func Ordinal(period int) string {
	suffix := "th"
	switch period % 100 {
	case 11, 12, 13:
	default:
		switch period % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(period) + suffix
}
