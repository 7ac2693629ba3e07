package hockey

import (
	"time"

	"github.com/XavierBriggs/Chronos/pkg/models"
)

// Config contains league identification and period rules
type Config struct {
	// League identification
	LeagueKey   string
	DisplayName string

	// Period structure
	Rules models.Rules
}

// DefaultConfig returns the minor hockey configuration served by hisports:
// three 20 minute regulation periods
func DefaultConfig() *Config {
	return &Config{
		LeagueKey:   "hockey_viaha",
		DisplayName: "VIAHA Minor Hockey",
		Rules: models.Rules{
			PeriodLength:      20 * time.Minute,
			RegulationPeriods: 3,
		},
	}
}
