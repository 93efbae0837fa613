package activity

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Feed is anything the activity panel can poll: the local service, or a
// remote /logs endpoint in proxy deployments.
type Feed interface {
	List(ctx context.Context) ([]Entry, error)
}

// Poller refreshes a cached copy of the feed on a fixed cadence, the way
// the activity panel has always worked (fire-and-forget polling, torn
// down with its owning view). Fetch failures keep the previous snapshot.
type Poller struct {
	feed     Feed
	interval time.Duration
	log      *slog.Logger

	mu      sync.RWMutex
	entries []Entry
}

func NewPoller(feed Feed, interval time.Duration, log *slog.Logger) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Poller{feed: feed, interval: interval, log: log}
}

// Run polls until ctx is cancelled. It fetches once immediately so the
// panel is never empty for a full interval after startup.
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
	entries, err := p.feed.List(ctx)
	if err != nil {
		p.log.Warn("activity poll failed", "err", err)
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
