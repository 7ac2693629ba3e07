package models

import "time"

// Rules describes the period structure a league plays under
type Rules struct {
	// PeriodLength is the clock value at the start of every period
	PeriodLength time.Duration

	// RegulationPeriods is the number of regulation periods. Penalties only
	// carry over out of periods below this number.
	RegulationPeriods int
}

// CarriesOver reports whether unserved penalty time in period moves on to
// the next period
func (r Rules) CarriesOver(period int) bool {
	return period < r.RegulationPeriods
}
