package calls

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"salesdesk/internal/leads"
	"salesdesk/internal/script"
)

// Session is one live call with one lead. It owns the elapsed-seconds
// timer, the note buffer, the script navigator, and the outcome/reminder
// sub-flow. At most one Session exists process-wide; the Orchestrator
// enforces that structurally by holding a single reference slot.
//
// The customer is a view: all mutation goes through the Updater on
// finalize, never directly into the Lead.
type Session struct {
	mu sync.Mutex

	customer  leads.Lead
	agentName string

	state   State
	ticking bool
	elapsed int

	note string
	nav  *script.Navigator

	outcome          Outcome
	outcomeSet       bool
	awaitingReminder bool
	// frozenNote is the note buffer captured when the outcome was
	// selected. Finalize composes from this base, so edits made during
	// the reminder sub-flow do not shift the saved note underneath it.
	frozenNote string

	minimized bool

	updater   Updater
	log       *slog.Logger
	celebrate func(leads.Lead)
	onSaved   func(Outcome)

	done     chan struct{}
	stopOnce sync.Once
}

func newSession(lead leads.Lead, agentName string, graph *script.Graph, updater Updater, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		customer:  lead,
		agentName: agentName,
		state:     StateConnected,
		ticking:   true,
		note:      lead.Notes,
		nav:       script.NewNavigator(graph, lead.Name),
		updater:   updater,
		log:       log,
		done:      make(chan struct{}),
	}
}

// startTicker launches the per-second tick as a resource the session
// owns. It is released deterministically via release(), not left to any
// caller's lifecycle.
func (s *Session) startTicker(interval time.Duration) {
	t := time.NewTicker(interval)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-t.C:
				s.Tick()
			case <-s.done:
				return
			}
		}
	}()
}

// release stops the ticker goroutine. Idempotent.
func (s *Session) release() {
	s.stopOnce.Do(func() { close(s.done) })
}

// Tick advances the elapsed counter by one second. It is a no-op once the
// session has ended, so a straggling timer fire can never inflate the
// recorded duration.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateConnected && s.ticking {
		s.elapsed++
	}
}

// SetNote replaces the note buffer. No validation, no length cap.
func (s *Session) SetNote(text string) {
	s.mu.Lock()
	s.note = text
	s.mu.Unlock()
}

// SetMinimized records the presentation state. It is a pure view concern:
// it never pauses the timer or touches any buffer.
func (s *Session) SetMinimized(v bool) {
	s.mu.Lock()
	s.minimized = v
	s.mu.Unlock()
}

// Choose advances the script navigator along the given option.
func (s *Session) Choose(optionIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Choose(optionIndex)
}

// Back pops the script navigator's history stack.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Back()
}

// ResetScript returns the navigator to the start node.
func (s *Session) ResetScript() {
	s.mu.Lock()
	s.nav.Reset()
	s.mu.Unlock()
}

// SelectOutcome records the agent's verdict and freezes the note base the
// final save will compose from. An in_progress outcome enters the
// awaiting-reminder sub-state; Finalize rejects it until a scheduled date
// is supplied.
func (s *Session) SelectOutcome(o Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateEnded {
		return ErrSessionEnded
	}
	if !o.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidOutcome, o)
	}
	s.outcome = o
	s.outcomeSet = true
	s.frozenNote = s.note
	s.awaitingReminder = o == OutcomeInProgress
	return nil
}

// Finalize composes the final note, transitions the session to ended, and
// persists the outcome through the Updater.
//
// On persistence failure the session reverts to connected with every
// buffer intact so the agent can retry; on success the refresh signal and
// the orchestrator's completion hook fire, strictly in that order after
// the write is acknowledged. A success outcome additionally fires the
// best-effort celebration hook, which can neither block nor fail the save.
func (s *Session) Finalize(ctx context.Context, reminderDate time.Time) error {
	s.mu.Lock()
	if s.state == StateEnded {
		s.mu.Unlock()
		return ErrSessionEnded
	}
	if !s.outcomeSet {
		s.mu.Unlock()
		return ErrNoOutcome
	}
	if s.awaitingReminder && reminderDate.IsZero() {
		s.mu.Unlock()
		return ErrMissingReminderDate
	}

	s.state = StateEnded
	s.ticking = false
	outcome := s.outcome
	composed := composeNote(s.frozenNote, s.elapsed, reminderDate)
	id := s.customer.ID
	lead := s.customer
	s.mu.Unlock()

	if err := s.updater.UpdateStatus(ctx, id, leads.UpdateRequest{
		Status: string(outcome),
		Notes:  composed,
	}); err != nil {
		// Roll back so the agent can retry without losing anything.
		s.mu.Lock()
		s.state = StateConnected
		s.ticking = true
		s.mu.Unlock()
		s.log.Error("call outcome save failed", "lead_id", id, "outcome", outcome, "err", err)
		return fmt.Errorf("save call outcome: %w", err)
	}

	if outcome == OutcomeSuccess && s.celebrate != nil {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					s.log.Warn("celebration hook panicked", "recover", r)
				}
			}()
			s.celebrate(lead)
		}()
	}

	s.release()
	if s.onSaved != nil {
		s.onSaved(outcome)
	}
	return nil
}

func composeNote(base string, elapsed int, reminder time.Time) string {
	out := base + "\n[Call Duration: " + FormatDuration(elapsed) + "]"
	if !reminder.IsZero() {
		out += "\n[Reminder: " + reminder.Format("2006-01-02") + "]"
	}
	return out
}

// Snapshot returns a consistent render-ready copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Customer:         s.customer,
		AgentName:        s.agentName,
		State:            s.state,
		ElapsedSeconds:   s.elapsed,
		Duration:         FormatDuration(s.elapsed),
		Note:             s.note,
		Node:             s.nav.Current(),
		ScriptHistory:    s.nav.History(),
		Outcome:          s.outcomeOrEmpty(),
		AwaitingReminder: s.awaitingReminder,
		Minimized:        s.minimized,
	}
}

func (s *Session) outcomeOrEmpty() Outcome {
	if !s.outcomeSet {
		return ""
	}
	return s.outcome
}

// Customer returns the lead this session is bound to.
func (s *Session) Customer() leads.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.customer
}

// close discards the session without persisting: note buffer, script
// cursor and timer all go with it. Silent cancel, not an error.
func (s *Session) close() {
	s.mu.Lock()
	s.state = StateEnded
	s.ticking = false
	s.mu.Unlock()
	s.release()
}
