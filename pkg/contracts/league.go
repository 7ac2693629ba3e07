package contracts

import "github.com/XavierBriggs/Chronos/pkg/models"

// League defines the interface for league-specific rules
type League interface {
	// GetLeagueKey returns the unique identifier for this league (e.g., "hockey_viaha")
	GetLeagueKey() string

	// GetDisplayName returns the human-readable name
	GetDisplayName() string

	// GetRules returns the period structure used to reconcile events
	GetRules() models.Rules

	// ValidateBoxScore performs league-specific validation on a raw box score
	ValidateBoxScore(box *models.BoxScore) error
}
