package ledger

import (
	"fmt"
	"sort"
	"time"
)

// Ledger keeps one game's events in chronological order: period ascending,
// then time remaining descending. Events with the same period and clock keep
// the order they were added in.
type Ledger struct {
	events []Event
}

// Score is a pair of goal counts in the order the teams were queried
type Score struct {
	First  int
	Second int
}

// String renders the score as "<first> -- <second>"
func (s Score) String() string {
	return fmt.Sprintf("%d -- %d", s.First, s.Second)
}

// NewLedger builds a ledger from events with a single stable sort
func NewLedger(events []Event) *Ledger {
	sorted := make([]Event, len(events))
	copy(sorted, events)

	sort.SliceStable(sorted, func(i, j int) bool {
		return precedes(sorted[i], sorted[j])
	})

	return &Ledger{events: sorted}
}

// Add inserts an event after every event that does not come after it
func (l *Ledger) Add(event Event) {
	i := sort.Search(len(l.events), func(i int) bool {
		return precedes(event, l.events[i])
	})

	l.events = append(l.events, nil)
	copy(l.events[i+1:], l.events[i:])
	l.events[i] = event
}

// Events returns the events in ledger order
func (l *Ledger) Events() []Event {
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Len returns the number of events in the ledger
func (l *Ledger) Len() int {
	return len(l.events)
}

// ScoreAsOf counts the goals each team had scored at the given moment,
// goals scored at exactly that moment included. Goals by teams other than
// teamA and teamB are not counted.
func (l *Ledger) ScoreAsOf(period int, remaining time.Duration, teamA, teamB string) Score {
	counts := map[string]int{teamA: 0, teamB: 0}

	for _, event := range l.events {
		h := event.Base()
		if h.Period > period || (h.Period == period && h.Start < remaining) {
			// ordered, nothing later can be at or before the moment
			break
		}

		if event.Kind() != KindGoal {
			continue
		}

		if _, tracked := counts[h.TeamName]; tracked {
			counts[h.TeamName]++
		}
	}

	return Score{First: counts[teamA], Second: counts[teamB]}
}

// precedes reports whether a happened strictly before b
func precedes(a, b Event) bool {
	ha, hb := a.Base(), b.Base()
	if ha.Period != hb.Period {
		return ha.Period < hb.Period
	}
	return ha.Start > hb.Start
}
