package models

// Game represents one scheduled game returned by the games list
type Game struct {
	GameID     int64
	SeasonID   int64
	ScheduleID int64
	Date       string // as sent by the vendor, e.g. 2023-11-04
	HomeTeamID int64
	AwayTeamID int64
}

// Team is one side of a box score roster
type Team struct {
	TeamID int64  `validate:"required"`
	Name   string `validate:"required"`
}

// GameTime is the time remaining on the period clock when something happened
type GameTime struct {
	Period  int `validate:"min=1"`
	Minutes int `validate:"min=0,max=20"`
	Seconds int `validate:"min=0,max=59"`
}

// Participant identifies the player credited with a record
type Participant struct {
	FullName string `validate:"required"`
	Number   string
}

// Goal is a raw goal record, assists included
type Goal struct {
	TeamID        int64 `validate:"required"`
	GameTime      GameTime
	Participant   Participant
	Assists       []Participant `validate:"dive"`
	IsPowerplay   bool
	IsShorthanded bool
	IsEmptyNet    bool
	IsPenaltyShot bool
}

// Penalty is a raw penalty record
type Penalty struct {
	TeamID      int64 `validate:"required"`
	GameTime    GameTime
	Participant Participant
	Infraction  string
	// DurationDescription is nil when the vendor omits it (exempt penalties)
	DurationDescription *string
}

// BoxScore is the detailed per-game record of goals, assists and penalties
type BoxScore struct {
	GameID    int64
	Teams     []Team    `validate:"dive"`
	Goals     []Goal    `validate:"dive"`
	Penalties []Penalty `validate:"dive"`
}

// FetchGamesOptions contains parameters for fetching a schedule's games
type FetchGamesOptions struct {
	ScheduleID int64
	TeamID     int64
}
