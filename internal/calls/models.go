package calls

import (
	"context"
	"errors"
	"fmt"

	"salesdesk/internal/leads"
	"salesdesk/internal/script"
)

// Outcome is the agent's verdict on a finished call. It is persisted as
// the lead's raw status string; the normalizer folds it back into the
// canonical set on the next fetch (voicemail folds to new).
type Outcome string

const (
	OutcomeSuccess    Outcome = "success"
	OutcomeInProgress Outcome = "in_progress"
	OutcomeFailed     Outcome = "failed"
	OutcomeVoicemail  Outcome = "voicemail"
)

func (o Outcome) Valid() bool {
	switch o {
	case OutcomeSuccess, OutcomeInProgress, OutcomeFailed, OutcomeVoicemail:
		return true
	default:
		return false
	}
}

// State is the call session lifecycle. A session is connected from
// creation until it is finalized or closed.
type State string

const (
	StateConnected State = "connected"
	StateEnded     State = "ended"
)

var (
	ErrMissingReminderDate = errors.New("calls: in_progress outcome requires a reminder date")
	ErrNoOutcome           = errors.New("calls: no outcome selected")
	ErrInvalidOutcome      = errors.New("calls: invalid outcome")
	ErrSessionEnded        = errors.New("calls: session already ended")
	ErrNoActiveSession     = errors.New("calls: no active session")
)

// Updater is the single mutating boundary the engine talks to. Satisfied
// by every leads.Source.
type Updater interface {
	UpdateStatus(ctx context.Context, id string, req leads.UpdateRequest) error
}

// FormatDuration renders elapsed seconds as zero-padded MM:SS with
// uncapped minutes (754 -> "12:34", 3661 -> "61:01").
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Snapshot is the render-ready view of a session, safe to hand to HTTP
// handlers without exposing internal locking.
type Snapshot struct {
	Customer         leads.Lead  `json:"customer"`
	AgentName        string      `json:"agent_name,omitempty"`
	State            State       `json:"state"`
	ElapsedSeconds   int         `json:"elapsed_seconds"`
	Duration         string      `json:"duration"`
	Note             string      `json:"note"`
	Node             script.Node `json:"node"`
	ScriptHistory    []string    `json:"script_history"`
	Outcome          Outcome     `json:"outcome,omitempty"`
	AwaitingReminder bool        `json:"awaiting_reminder"`
	Minimized        bool        `json:"minimized"`
}
