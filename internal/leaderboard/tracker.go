package leaderboard

import (
	"context"
	"sync"

	"salesdesk/internal/leads"
)

// Tracker accumulates standings locally from finalized calls. It backs
// the board when no backend aggregation endpoint is configured, so the
// panel still moves as agents close deals.
//
// Points: each closed deal is worth the lead's conversion probability as
// a percentage, so landing hard prospects outranks farming easy ones.
type Tracker struct {
	mu    sync.Mutex
	stats map[string]*Entry
}

func NewTracker() *Tracker {
	return &Tracker{stats: map[string]*Entry{}}
}

// RecordCallOutcome counts success outcomes toward the agent's standings.
// Other outcomes are ignored.
func (t *Tracker) RecordCallOutcome(agentName string, lead leads.Lead, outcome string) {
	if outcome != "success" || agentName == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.stats[agentName]
	if !ok {
		e = &Entry{Name: agentName, Avatar: Initials(agentName)}
		t.stats[agentName] = e
	}
	e.Deals++
	e.Score += int(lead.Score*100 + 0.5)
}

func (t *Tracker) Fetch(ctx context.Context) ([]Entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, 0, len(t.stats))
	for _, e := range t.stats {
		out = append(out, *e)
	}
	return out, nil
}
