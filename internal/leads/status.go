package leads

import "strings"

// Status is the closed lifecycle state of a lead.
// Raw backend strings are folded into this set at the fetch boundary and
// never appear past it.
type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in_progress"
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
)

// Normalize maps a raw backend status string to its canonical value.
//
// Matching is case-insensitive and tolerant of the follow-up aliases the
// backend has accumulated. Anything unrecognized (including empty) falls
// back to StatusNew. Normalize is total and idempotent.
func Normalize(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "in_progress", "follow_up", "follow-up", "followup":
		return StatusInProgress
	case "success":
		return StatusSuccess
	case "failed":
		return StatusFailed
	default:
		return StatusNew
	}
}

// Valid reports whether s is one of the four canonical values.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusSuccess, StatusFailed:
		return true
	default:
		return false
	}
}
