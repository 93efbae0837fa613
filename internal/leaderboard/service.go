package leaderboard

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"salesdesk/pkg/utils"
)

const cacheKey = "leaderboard:standings"

// Repository abstracts where standings come from.
type Repository interface {
	Fetch(ctx context.Context) ([]Entry, error)
}

// Service ranks agent standings and caps them to the board size.
// With a redis client configured it serves from cache between backend
// aggregations; the cache is read-through and best-effort.
type Service struct {
	repo Repository
	rdb  *redis.Client
	ttl  time.Duration
	log  *slog.Logger
}

func NewService(repo Repository, rdb *redis.Client, ttl time.Duration, log *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, rdb: rdb, ttl: ttl, log: log}
}

// Standings returns the top agents, highest score first. Entries with
// no avatar get one derived from the name.
func (s *Service) Standings(ctx context.Context) ([]Entry, error) {
	if s.rdb != nil {
		var cached []Entry
		hit, err := utils.CacheGetJSON(ctx, s.rdb, cacheKey, &cached)
		if err != nil {
			s.log.Warn("leaderboard cache read failed", "err", err)
		}
		if hit {
			return cached, nil
		}
	}

	if s.repo == nil {
		return nil, errors.New("leaderboard: repository not configured")
	}
	entries, err := s.repo.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	rank(entries)
	if len(entries) > TopN {
		entries = entries[:TopN]
	}
	for i := range entries {
		if entries[i].Avatar == "" {
			entries[i].Avatar = Initials(entries[i].Name)
		}
	}

	if s.rdb != nil {
		if err := utils.CacheSetJSON(ctx, s.rdb, cacheKey, entries, s.ttl); err != nil {
			s.log.Warn("leaderboard cache write failed", "err", err)
		}
	}
	return entries, nil
}
