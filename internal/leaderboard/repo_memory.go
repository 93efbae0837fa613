package leaderboard

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory standings source for tests and early
// development.

type MemoryRepo struct {
	mu      sync.Mutex
	Entries []Entry
	Err     error
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) Fetch(ctx context.Context) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]Entry, len(r.Entries))
	copy(out, r.Entries)
	return out, nil
}

// Set replaces the stored standings.
func (r *MemoryRepo) Set(entries []Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append([]Entry(nil), entries...)
}
