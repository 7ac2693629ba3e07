package hockey

import (
	"fmt"
	"strings"

	"github.com/XavierBriggs/Chronos/internal/ledger"
	"github.com/XavierBriggs/Chronos/pkg/models"
	"github.com/cockroachdb/errors"
)

// ValidateBoxScore checks the roster and every clock reading of a box score
func ValidateBoxScore(box *models.BoxScore, rules models.Rules) error {
	if box == nil {
		return errors.Wrap(ledger.ErrInvalidRecord, "box score is nil")
	}

	if len(box.Teams) != 2 {
		return errors.Wrapf(ledger.ErrInvalidRecord, "expected 2 teams, got %d", len(box.Teams))
	}

	home, away := box.Teams[0], box.Teams[1]
	if home.TeamID == away.TeamID {
		return errors.Wrapf(ledger.ErrInvalidRecord, "both roster entries have team id %d", home.TeamID)
	}

	if strings.TrimSpace(home.Name) == "" || strings.TrimSpace(away.Name) == "" {
		return errors.Wrap(ledger.ErrInvalidRecord, "team name cannot be empty")
	}

	for i, goal := range box.Goals {
		if err := ledger.CheckClock(goal.GameTime, rules); err != nil {
			return fmt.Errorf("goal %d: %w", i, err)
		}
	}

	for i, pen := range box.Penalties {
		if err := ledger.CheckClock(pen.GameTime, rules); err != nil {
			return fmt.Errorf("penalty %d: %w", i, err)
		}
	}

	return nil
}
