package registry_test

import (
	"testing"

	"github.com/XavierBriggs/Chronos/internal/registry"
	"github.com/XavierBriggs/Chronos/leagues/hockey"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeagueRegistry(t *testing.T) {
	r := registry.NewLeagueRegistry()
	require.NoError(t, r.Register(hockey.NewModule()))

	senior := hockey.DefaultConfig()
	senior.LeagueKey = "hockey_senior"
	senior.DisplayName = "Senior Hockey"
	require.NoError(t, r.Register(hockey.NewModuleWithConfig(senior)))

	assert.Equal(t, 2, r.Count())
	assert.Equal(t, []string{"hockey_senior", "hockey_viaha"}, r.Keys())

	all := r.GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, "hockey_senior", all[0].GetLeagueKey())

	league, ok := r.Get("hockey_viaha")
	require.True(t, ok)
	assert.Equal(t, "VIAHA Minor Hockey", league.GetDisplayName())
}

func TestLeagueRegistry_Duplicate(t *testing.T) {
	r := registry.NewLeagueRegistry()
	require.NoError(t, r.Register(hockey.NewModule()))

	assert.Error(t, r.Register(hockey.NewModule()))
	assert.Equal(t, 1, r.Count())
}

func TestLeagueRegistry_Lookup(t *testing.T) {
	r := registry.NewLeagueRegistry()
	require.NoError(t, r.Register(hockey.NewModule()))

	_, err := r.Lookup("lacrosse")
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrUnknownLeague))
	assert.Contains(t, err.Error(), "hockey_viaha")

	league, err := r.Lookup("hockey_viaha")
	require.NoError(t, err)
	assert.Equal(t, 3, league.GetRules().RegulationPeriods)
}
