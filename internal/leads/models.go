package leads

import (
	"fmt"
	"time"
)

// Lead is the canonical in-memory representation of a prospect.
//
// Rows arrive from the backing source with heterogeneous field names and
// casings; mapping into this struct happens exactly once, at fetch time.
// Status always holds one of the canonical values — raw backend strings
// never flow past Normalize.
//
// The collection a Lead belongs to is replaced wholesale on every refetch;
// individual Leads are never patched in place.

type Lead struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Age       int     `json:"age,omitempty"`
	Job       string  `json:"job,omitempty"`
	Marital   string  `json:"marital,omitempty"`
	Education string  `json:"education,omitempty"`
	Housing   string  `json:"housing,omitempty"`
	Loan      string  `json:"loan,omitempty"`
	Phone     string  `json:"phone,omitempty"`

	// Score is the conversion probability from the external predictive
	// model, in [0,1]. Read-only from this system's perspective.
	Score float64 `json:"score"`

	Status Status `json:"status"`
	Notes  string `json:"notes,omitempty"`

	LastContacted time.Time `json:"last_contacted,omitempty"`
}

// Row is a raw backend lead record before normalization.
// Field names mirror the upstream API/table, which predates this service.
type Row struct {
	NasabahID   string  `json:"nasabah_id" db:"nasabah_id"`
	Name        string  `json:"name" db:"name"`
	Age         int     `json:"age" db:"age"`
	Job         string  `json:"job" db:"job"`
	Marital     string  `json:"marital" db:"marital"`
	Education   string  `json:"education" db:"education"`
	Housing     string  `json:"housing" db:"housing"`
	Loan        string  `json:"loan" db:"loan"`
	Phone       string  `json:"phone" db:"phone"`
	Probability float64 `json:"probability" db:"probability"`
	Status      string  `json:"status" db:"status"`
	Notes       string  `json:"notes" db:"notes"`
	UpdatedAt   *time.Time `json:"updated_at" db:"updated_at"`
}

// FromRow maps a raw backend row to a canonical Lead.
// idx is the row's position in the fetch, used only to synthesize a display
// name when the backend has none.
func FromRow(r Row, idx int) Lead {
	l := Lead{
		ID:        r.NasabahID,
		Name:      r.Name,
		Age:       r.Age,
		Job:       r.Job,
		Marital:   r.Marital,
		Education: r.Education,
		Housing:   r.Housing,
		Loan:      r.Loan,
		Phone:     r.Phone,
		Status:    Normalize(r.Status),
		Notes:     r.Notes,
	}
	if l.Name == "" {
		l.Name = syntheticName(idx)
	}
	if r.Probability > 0 {
		l.Score = clampScore(r.Probability)
	}
	if r.UpdatedAt != nil {
		l.LastContacted = *r.UpdatedAt
	}
	return l
}

func syntheticName(idx int) string {
	return fmt.Sprintf("Prospect #%d", idx+1)
}

func clampScore(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Stats is the aggregate stats payload from the backing source.
// It is opaque to the store beyond being cached alongside the collection.
type Stats struct {
	Total       int     `json:"total"`
	NewCount    int     `json:"new_count"`
	SuccessRate float64 `json:"success_rate"`
}
