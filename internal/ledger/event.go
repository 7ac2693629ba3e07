package ledger

import "time"

// Kind is the closed set of event categories
type Kind int

const (
	KindGoal Kind = iota
	KindAssist
	KindPenalty
)

// String returns the label used in exported rows
func (k Kind) String() string {
	switch k {
	case KindGoal:
		return "GOAL"
	case KindAssist:
		return "ASSIST"
	case KindPenalty:
		return "PENALTY"
	default:
		return "UNKNOWN"
	}
}

// GoalCode classifies how a goal was scored
type GoalCode string

const (
	GoalPowerPlay   GoalCode = "PPG"
	GoalShortHanded GoalCode = "SHG"
	GoalEmptyNet    GoalCode = "ENG"
	GoalPenaltyShot GoalCode = "PSG"
	GoalRegular     GoalCode = "REG"
)

// Participant is the player credited with an event
type Participant struct {
	Name   string
	Number string
}

// Header holds the fields every event carries. Start and End are time
// remaining in the period, so a larger value is earlier.
type Header struct {
	TeamID   int64
	TeamName string
	Player   Participant
	Period   int
	Start    time.Duration
	End      time.Duration
}

// Base returns the shared event fields
func (h Header) Base() Header {
	return h
}

// Event is one of Goal, Assist or Penalty
type Event interface {
	Base() Header
	Kind() Kind
	// Subtype is the goal code for goals and assists, the infraction for penalties
	Subtype() string
	PenaltyMinutes() int

	sealed()
}

// Goal is a goal scored by Header.Player
type Goal struct {
	Header
	Code GoalCode
}

func (Goal) Kind() Kind          { return KindGoal }
func (g Goal) Subtype() string   { return string(g.Code) }
func (Goal) PenaltyMinutes() int { return 0 }
func (Goal) sealed()             {}

// Assist credits Header.Player on a goal with the same clock and code
type Assist struct {
	Header
	Code GoalCode
}

func (Assist) Kind() Kind          { return KindAssist }
func (a Assist) Subtype() string   { return string(a.Code) }
func (Assist) PenaltyMinutes() int { return 0 }
func (Assist) sealed()             {}

// Penalty is a penalty served from Start down to End. Carryover marks the
// synthesized continuation of a penalty that ran past the end of the
// previous period.
type Penalty struct {
	Header
	Infraction string
	Minutes    int
	Carryover  bool
}

func (Penalty) Kind() Kind            { return KindPenalty }
func (p Penalty) Subtype() string     { return p.Infraction }
func (p Penalty) PenaltyMinutes() int { return p.Minutes }
func (Penalty) sealed()               {}
