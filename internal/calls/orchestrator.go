package calls

import (
	"log/slog"
	"sync"
	"time"

	"salesdesk/internal/leads"
	"salesdesk/internal/refresh"
	"salesdesk/internal/script"
)

// Recorder receives a best-effort activity entry after every persisted
// call outcome. Satisfied by the activity service.
type Recorder interface {
	RecordCallOutcome(agentName string, lead leads.Lead, outcome string)
}

// Orchestrator holds the single active call session slot and the global
// refresh signal. It is the only way a session comes into existence, so
// "at most one active call" holds structurally rather than by locking
// discipline in callers.
type Orchestrator struct {
	updater   Updater
	graph     *script.Graph
	signal    *refresh.Signal
	recorder  Recorder
	celebrate func(leads.Lead)
	log       *slog.Logger

	// tickInterval is one second in production; tests shrink it or drive
	// Tick directly.
	tickInterval time.Duration

	mu     sync.Mutex
	active *Session
}

type OrchestratorOption func(*Orchestrator)

// WithRecorder wires the activity log recorder.
func WithRecorder(r Recorder) OrchestratorOption {
	return func(o *Orchestrator) { o.recorder = r }
}

// WithCelebration wires the best-effort success effect.
func WithCelebration(fn func(leads.Lead)) OrchestratorOption {
	return func(o *Orchestrator) { o.celebrate = fn }
}

// WithTickInterval overrides the per-second tick cadence.
func WithTickInterval(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) { o.tickInterval = d }
}

func NewOrchestrator(updater Updater, graph *script.Graph, log *slog.Logger, opts ...OrchestratorOption) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	o := &Orchestrator{
		updater:      updater,
		graph:        graph,
		signal:       refresh.NewSignal(),
		log:          log,
		tickInterval: time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// StartCall opens a session on the given lead. If a session is already
// active it is replaced, last-writer-wins: the prior session's unsaved
// state is discarded without any persistence call. Whether that silent
// discard should instead warn is a product decision; the current UI has
// always replaced.
func (o *Orchestrator) StartCall(lead leads.Lead, agentName string) *Session {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.active != nil {
		o.log.Info("replacing active call session",
			"previous_lead", o.active.Customer().ID, "lead", lead.ID)
		o.active.close()
	}

	s := newSession(lead, agentName, o.graph, o.updater, o.log)
	s.celebrate = o.celebrate
	s.onSaved = func(outcome Outcome) { o.sessionSaved(s, outcome) }
	s.startTicker(o.tickInterval)
	o.active = s
	return s
}

// sessionSaved runs after a session's persistence call succeeds: it logs
// the activity, bumps the refresh signal (strictly after the acknowledged
// write), and frees the singleton slot.
func (o *Orchestrator) sessionSaved(s *Session, outcome Outcome) {
	if o.recorder != nil {
		o.recorder.RecordCallOutcome(s.agentName, s.Customer(), string(outcome))
	}
	o.signal.Trigger()

	o.mu.Lock()
	if o.active == s {
		o.active = nil
	}
	o.mu.Unlock()
}

// Active returns the current session, or nil.
func (o *Orchestrator) Active() *Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active
}

// EndCall discards the active session without persisting anything.
// Explicit, silent cancel; calling it with no active session is a no-op.
func (o *Orchestrator) EndCall() {
	o.mu.Lock()
	s := o.active
	o.active = nil
	o.mu.Unlock()
	if s != nil {
		s.close()
	}
}

// TriggerRefresh bumps the refresh counter outside the save path (e.g.
// after an out-of-band lead edit).
func (o *Orchestrator) TriggerRefresh() uint64 {
	return o.signal.Trigger()
}

// Refresh exposes the signal for consumers to subscribe to.
func (o *Orchestrator) Refresh() *refresh.Signal {
	return o.signal
}
