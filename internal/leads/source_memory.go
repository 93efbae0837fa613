package leads

import (
	"context"
	"sync"
	"time"
)

// MemorySource is an in-memory Source for tests and early development.
type MemorySource struct {
	mu sync.Mutex

	Rows      []Row
	StatsData *Stats

	// FailFetch / FailUpdate force the corresponding calls to return Err.
	FailFetch  bool
	FailUpdate bool
	Err        error

	Updates []UpdateRequest

	clock func() time.Time
}

func NewMemorySource() *MemorySource {
	return &MemorySource{clock: time.Now}
}

func (m *MemorySource) FetchLeads(ctx context.Context, _ FetchParams) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailFetch {
		return nil, m.Err
	}
	out := make([]Row, len(m.Rows))
	copy(out, m.Rows)
	return out, nil
}

func (m *MemorySource) FetchStats(ctx context.Context) (*Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailFetch {
		return nil, m.Err
	}
	return m.StatsData, nil
}

func (m *MemorySource) UpdateStatus(ctx context.Context, id string, req UpdateRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailUpdate {
		return m.Err
	}
	for i := range m.Rows {
		if m.Rows[i].NasabahID != id {
			continue
		}
		now := m.clock().UTC()
		m.Rows[i].Status = req.Status
		m.Rows[i].Notes = req.Notes
		m.Rows[i].UpdatedAt = &now
		m.Updates = append(m.Updates, req)
		return nil
	}
	return ErrNotFound
}

// UpdateCount reports how many updates have been applied.
func (m *MemorySource) UpdateCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Updates)
}
