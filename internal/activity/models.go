package activity

import "time"

// Entry is an append-only activity log record shown in the "recent
// activity" panel.
//
// Invariants:
// - Entries are never updated or deleted; the feed is newest-first.
// - Recording is best-effort: a failed append must never block or fail
//   the call-save path that produced it.

type Entry struct {
	ID     string `json:"id"`
	User   string `json:"user"`
	Action string `json:"action"`
	Target string `json:"target"`

	Time time.Time `json:"time"`
}

// MaxEntries caps the retained feed; older entries fall off the end.
const MaxEntries = 50
