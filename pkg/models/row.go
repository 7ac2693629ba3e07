package models

import (
	"fmt"
	"strconv"
	"time"
)

// RowHeader is the header line of every exported sheet
var RowHeader = []string{
	"Home Team",
	"Away Team",
	"Date",
	"Event",
	"Event Type",
	"Player Name",
	"Player Number",
	"Player Team",
	"Start Time",
	"End Time",
	"Period",
	"Penalty Mins",
	"Score",
}

// Row is one annotated ledger event ready for export
type Row struct {
	HomeTeam       string
	AwayTeam       string
	Date           string
	Event          string // GOAL, ASSIST, PENALTY
	EventType      string // goal code or infraction
	PlayerName     string
	PlayerNumber   string
	PlayerTeam     string
	StartTime      time.Duration
	EndTime        time.Duration
	Period         string // ordinal, e.g. 2nd
	PenaltyMinutes int
	Score          string
}

// Record returns the row as a slice of fields in RowHeader order
func (r Row) Record() []string {
	return []string{
		r.HomeTeam,
		r.AwayTeam,
		r.Date,
		r.Event,
		r.EventType,
		r.PlayerName,
		r.PlayerNumber,
		r.PlayerTeam,
		FormatClock(r.StartTime),
		FormatClock(r.EndTime),
		r.Period,
		strconv.Itoa(r.PenaltyMinutes),
		r.Score,
	}
}

// FormatClock renders a clock value as H:MM:SS (0:18:30)
func FormatClock(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%s%d:%02d:%02d", sign, total/3600, (total/60)%60, total%60)
}

// GameSheet is the full export of one game's ledger
type GameSheet struct {
	Game     Game
	League   string
	HomeTeam string
	AwayTeam string
	Rows     []Row
}

// Run identifies one invocation of the exporter
type Run struct {
	RunID      string
	League     string
	ScheduleID int64
	TeamID     int64
	SeasonID   int64
	StartedAt  time.Time
}
