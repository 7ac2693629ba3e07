package ledger

import "github.com/cockroachdb/errors"

var (
	// ErrUnknownTeam is returned when a record references a team that is not
	// on the game's roster
	ErrUnknownTeam = errors.New("team not in roster")

	// ErrInvalidRecord is returned for records missing required fields or
	// carrying impossible values
	ErrInvalidRecord = errors.New("invalid record")
)
