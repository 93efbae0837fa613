package leads

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// StatusAll bypasses the status predicate in Filters.
const StatusAll = "all"

// Filters narrows the collection view. Zero values disable each predicate
// except Status, where only StatusAll disables it.
type Filters struct {
	Text     string  `json:"text"`
	MinScore float64 `json:"min_score"`
	Job      string  `json:"job"`
	Status   string  `json:"status"`
}

// Store holds the full fetched lead collection and derives filtered,
// sorted, paginated views from it.
//
// Load replaces the collection atomically: readers either see the previous
// set or the complete new one, never a partial mix. Fetch failures empty
// the collection and are logged; they do not propagate to view code.
type Store struct {
	source Source
	log    *slog.Logger

	mu    sync.RWMutex
	coll  []Lead
	jobs  []string
	stats *Stats
}

func NewStore(source Source, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{source: source, log: log}
}

// Load fetches the full lead set plus aggregate stats, normalizes every
// row, and swaps the collection in one critical section.
func (s *Store) Load(ctx context.Context) {
	rows, err := s.source.FetchLeads(ctx, FetchParams{Limit: 50000, Sort: "probability_desc"})
	if err != nil {
		s.log.Error("lead fetch failed, collection emptied", "err", err)
		s.replace(nil, nil)
		return
	}

	stats, err := s.source.FetchStats(ctx)
	if err != nil {
		// Stats are decorative; a failed stats fetch must not block leads.
		s.log.Warn("stats fetch failed", "err", err)
		stats = nil
	}

	mapped := make([]Lead, 0, len(rows))
	for i, r := range rows {
		mapped = append(mapped, FromRow(r, i))
	}
	s.replace(mapped, stats)
}

func (s *Store) replace(coll []Lead, stats *Stats) {
	jobs := distinctJobs(coll)
	s.mu.Lock()
	s.coll = coll
	s.jobs = jobs
	s.stats = stats
	s.mu.Unlock()
}

// Watch re-loads the collection every time the refresh counter advances.
// It blocks until ctx is cancelled or updates is closed.
func (s *Store) Watch(ctx context.Context, updates <-chan uint64) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-updates:
			if !ok {
				return
			}
			s.Load(ctx)
		}
	}
}

// Snapshot returns a copy of the full collection in fetch order.
func (s *Store) Snapshot() []Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Lead, len(s.coll))
	copy(out, s.coll)
	return out
}

// Get returns the lead with the given id from the current collection.
func (s *Store) Get(id string) (Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.coll {
		if l.ID == id {
			return l, nil
		}
	}
	return Lead{}, ErrNotFound
}

// Query derives the subset of the current collection matching all filters,
// sorted by score descending. Ties keep their original fetch order.
// It is a pure derivation: identical collection and filters always yield
// identical output.
func (s *Store) Query(f Filters) []Lead {
	s.mu.RLock()
	coll := s.coll
	s.mu.RUnlock()

	needle := strings.ToLower(f.Text)
	out := make([]Lead, 0, len(coll))
	for _, l := range coll {
		if f.Status != StatusAll && f.Status != "" && string(l.Status) != f.Status {
			continue
		}
		if l.Score < f.MinScore {
			continue
		}
		if f.Job != "" && !strings.EqualFold(f.Job, "all") && l.Job != f.Job {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(l.Name+l.Job), needle) {
			continue
		}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// Paginate slices an already-filtered view. page is 1-based; out-of-range
// pages return an empty slice, never an error.
func Paginate(view []Lead, page, pageSize int) []Lead {
	if page < 1 || pageSize < 1 {
		return []Lead{}
	}
	start := (page - 1) * pageSize
	if start >= len(view) {
		return []Lead{}
	}
	end := start + pageSize
	if end > len(view) {
		end = len(view)
	}
	return view[start:end]
}

// Jobs returns the distinct non-empty job values present in the full
// collection, in first-seen order. Refreshed on every Load.
func (s *Store) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.jobs))
	copy(out, s.jobs)
	return out
}

// Stats returns the aggregate stats from the last successful Load, or nil.
func (s *Store) Stats() *Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

func distinctJobs(coll []Lead) []string {
	seen := make(map[string]struct{}, len(coll))
	out := make([]string, 0)
	for _, l := range coll {
		if l.Job == "" {
			continue
		}
		if _, ok := seen[l.Job]; ok {
			continue
		}
		seen[l.Job] = struct{}{}
		out = append(out, l.Job)
	}
	return out
}
