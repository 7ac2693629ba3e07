package hockey

import (
	"github.com/XavierBriggs/Chronos/pkg/contracts"
	"github.com/XavierBriggs/Chronos/pkg/models"
)

// Module implements the League interface for hockey
type Module struct {
	config *Config
}

var _ contracts.League = (*Module)(nil)

// NewModule creates a new hockey league module
func NewModule() *Module {
	return &Module{
		config: DefaultConfig(),
	}
}

// NewModuleWithConfig creates a hockey module with a custom configuration
func NewModuleWithConfig(cfg *Config) *Module {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Module{config: cfg}
}

// GetLeagueKey returns the league identifier
func (m *Module) GetLeagueKey() string {
	return m.config.LeagueKey
}

// GetDisplayName returns the human-readable name
func (m *Module) GetDisplayName() string {
	return m.config.DisplayName
}

// GetRules returns the period rules
func (m *Module) GetRules() models.Rules {
	return m.config.Rules
}

// ValidateBoxScore performs hockey-specific validation
func (m *Module) ValidateBoxScore(box *models.BoxScore) error {
	return ValidateBoxScore(box, m.config.Rules)
}
