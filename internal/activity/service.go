package activity

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"salesdesk/internal/leads"

	"github.com/google/uuid"
)

// Repository is the persistence contract for the activity feed.
// It is append-only; no update or delete methods exist.
type Repository interface {
	Append(ctx context.Context, e Entry) error
	List(ctx context.Context) ([]Entry, error)
}

var ErrInvalidEntry = errors.New("activity: invalid entry")

// Service records and lists what the sales team has been doing.
type Service struct {
	repo  Repository
	log   *slog.Logger
	clock func() time.Time
}

func NewService(repo Repository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, log: log, clock: time.Now}
}

func (s *Service) Append(ctx context.Context, e Entry) error {
	if s.repo == nil {
		return errors.New("activity: repository not configured")
	}
	if e.User == "" || e.Action == "" {
		return ErrInvalidEntry
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Time.IsZero() {
		e.Time = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

func (s *Service) List(ctx context.Context) ([]Entry, error) {
	if s.repo == nil {
		return nil, errors.New("activity: repository not configured")
	}
	return s.repo.List(ctx)
}

// RecordCallOutcome logs a saved call outcome. Best-effort by contract:
// failures are logged and swallowed so the save path never depends on
// the activity feed being up.
func (s *Service) RecordCallOutcome(agentName string, lead leads.Lead, outcome string) {
	if agentName == "" {
		agentName = "Unknown agent"
	}
	e := Entry{
		User:   agentName,
		Action: actionText(outcome),
		Target: lead.Name,
	}
	if e.Target == "" {
		e.Target = "Prospect #" + lead.ID
	}
	if err := s.Append(context.Background(), e); err != nil {
		s.log.Warn("activity record dropped", "lead_id", lead.ID, "err", err)
	}
}

func actionText(outcome string) string {
	switch outcome {
	case "success":
		return "closed a deal with"
	case "in_progress":
		return "scheduled a follow-up with"
	case "failed":
		return "marked a rejection from"
	case "voicemail":
		return "reached the voicemail of"
	default:
		return "updated"
	}
}
