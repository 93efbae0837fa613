package leads

import (
	"context"
	"errors"
)

// FetchParams narrows a source-level fetch. Sources may ignore fields they
// cannot push down; the store filters again in memory.
type FetchParams struct {
	Limit int
	Sort  string
}

// UpdateRequest is the only mutation this service performs against a lead.
type UpdateRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// Source is the persistence contract behind the collection store.
//
// FetchLeads and FetchStats must degrade rather than fail: implementations
// return an empty slice / nil stats on transient errors and log the cause,
// so a broken backend never propagates an exception into view code.
// UpdateStatus is the sole mutating call and must report failure accurately;
// the call session engine distinguishes success from failure to decide
// whether to roll back.
type Source interface {
	FetchLeads(ctx context.Context, p FetchParams) ([]Row, error)
	FetchStats(ctx context.Context) (*Stats, error)
	UpdateStatus(ctx context.Context, id string, req UpdateRequest) error
}

var (
	ErrNotFound = errors.New("leads: not found")
)
