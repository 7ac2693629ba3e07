package contracts

import (
	"context"

	"github.com/XavierBriggs/Chronos/pkg/models"
)

// BoxScoreSource defines the interface for fetching game data from a league vendor
type BoxScoreSource interface {
	// FetchGames retrieves the games a team played in a schedule, oldest first
	FetchGames(ctx context.Context, opts *models.FetchGamesOptions) ([]models.Game, error)

	// FetchBoxScore retrieves the goals, assists and penalties of one game
	FetchBoxScore(ctx context.Context, gameID int64) (*models.BoxScore, error)
}
