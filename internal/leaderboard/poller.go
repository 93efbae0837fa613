package leaderboard

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Standings is anything the board can poll for ranked entries.
type Standings interface {
	Standings(ctx context.Context) ([]Entry, error)
}

// Poller refreshes a cached copy of the standings on a fixed cadence.
// Fetch failures keep the previous snapshot, so the board degrades to
// stale data rather than going blank.
type Poller struct {
	source   Standings
	interval time.Duration
	log      *slog.Logger

	mu      sync.RWMutex
	entries []Entry
}

func NewPoller(source Standings, interval time.Duration, log *slog.Logger) *Poller {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Poller{source: source, interval: interval, log: log}
}

// Run polls until ctx is cancelled, fetching once immediately.
func (p *Poller) Run(ctx context.Context) {
	p.poll(ctx)
	t := time.NewTicker(p.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	entries, err := p.source.Standings(ctx)
	if err != nil {
		p.log.Warn("leaderboard poll failed", "err", err)
		return
	}
	p.mu.Lock()
	p.entries = entries
	p.mu.Unlock()
}

// Entries returns the latest cached snapshot.
func (p *Poller) Entries() []Entry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}
