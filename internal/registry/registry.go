package registry

import (
	"sort"
	"strings"
	"sync"

	"github.com/XavierBriggs/Chronos/pkg/contracts"
	"github.com/cockroachdb/errors"
)

// ErrUnknownLeague is returned by Lookup for keys nobody registered
var ErrUnknownLeague = errors.New("unknown league")

// LeagueRegistry manages registered league modules
type LeagueRegistry struct {
	leagues map[string]contracts.League
	mu      sync.RWMutex
}

// NewLeagueRegistry creates a new league registry
func NewLeagueRegistry() *LeagueRegistry {
	return &LeagueRegistry{
		leagues: make(map[string]contracts.League),
	}
}

// Register adds a league module to the registry
func (r *LeagueRegistry) Register(league contracts.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := league.GetLeagueKey()
	if key == "" {
		return errors.New("league key cannot be empty")
	}
	if _, exists := r.leagues[key]; exists {
		return errors.Newf("league %s is already registered", key)
	}

	r.leagues[key] = league
	return nil
}

// Get retrieves a league module by key
func (r *LeagueRegistry) Get(key string) (contracts.League, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	league, exists := r.leagues[key]
	return league, exists
}

// Lookup is Get with an error naming the registered keys
func (r *LeagueRegistry) Lookup(key string) (contracts.League, error) {
	if league, ok := r.Get(key); ok {
		return league, nil
	}
	return nil, errors.Wrapf(ErrUnknownLeague, "%q (registered: %s)", key, strings.Join(r.Keys(), ", "))
}

// GetAll returns all registered leagues ordered by key
func (r *LeagueRegistry) GetAll() []contracts.League {
	r.mu.RLock()
	defer r.mu.RUnlock()

	leagues := make([]contracts.League, 0, len(r.leagues))
	for _, league := range r.leagues {
		leagues = append(leagues, league)
	}
	sort.Slice(leagues, func(i, j int) bool {
		return leagues[i].GetLeagueKey() < leagues[j].GetLeagueKey()
	})
	return leagues
}

// Keys returns the registered league keys in order
func (r *LeagueRegistry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.leagues))
	for key := range r.leagues {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Count returns the number of registered leagues
func (r *LeagueRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.leagues)
}
