package leads

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"salesdesk/pkg/utils"
)

// PostgresSource implements Source against the leads table, for
// deployments where this service owns the database instead of proxying
// the legacy REST backend.
//
// Reads degrade to empty results on failure, matching the Source contract.
type PostgresSource struct {
	db    *sql.DB
	log   *slog.Logger
	clock func() time.Time
}

func NewPostgresSource(db *sql.DB, log *slog.Logger) *PostgresSource {
	if log == nil {
		log = slog.Default()
	}
	return &PostgresSource{db: db, log: log, clock: time.Now}
}

const selectLeads = `
SELECT nasabah_id, COALESCE(name, ''), COALESCE(age, 0), COALESCE(job, ''),
       COALESCE(marital, ''), COALESCE(education, ''), COALESCE(housing, ''),
       COALESCE(loan, ''), COALESCE(phone, ''), COALESCE(probability, 0),
       COALESCE(status, ''), COALESCE(notes, ''), updated_at
FROM leads
ORDER BY probability DESC
LIMIT $1`

func (p *PostgresSource) FetchLeads(ctx context.Context, params FetchParams) ([]Row, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50000
	}

	rows, err := p.db.QueryContext(ctx, selectLeads, limit)
	if err != nil {
		p.log.Error("leads query failed", "err", err)
		return []Row{}, nil
	}
	defer rows.Close()

	out := make([]Row, 0)
	for rows.Next() {
		var r Row
		var updated sql.NullTime
		if err := rows.Scan(&r.NasabahID, &r.Name, &r.Age, &r.Job, &r.Marital,
			&r.Education, &r.Housing, &r.Loan, &r.Phone, &r.Probability,
			&r.Status, &r.Notes, &updated); err != nil {
			p.log.Error("lead row scan failed", "err", err)
			return []Row{}, nil
		}
		if updated.Valid {
			t := updated.Time
			r.UpdatedAt = &t
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		p.log.Error("leads iteration failed", "err", err)
		return []Row{}, nil
	}
	return out, nil
}

const selectStats = `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE COALESCE(status, '') IN ('', 'new')),
       COALESCE(AVG(CASE WHEN status = 'success' THEN 1.0 ELSE 0.0 END), 0)
FROM leads`

func (p *PostgresSource) FetchStats(ctx context.Context) (*Stats, error) {
	var s Stats
	if err := p.db.QueryRowContext(ctx, selectStats).Scan(&s.Total, &s.NewCount, &s.SuccessRate); err != nil {
		p.log.Warn("stats query failed", "err", err)
		return nil, nil
	}
	return &s, nil
}

func (p *PostgresSource) UpdateStatus(ctx context.Context, id string, req UpdateRequest) error {
	now := p.clock().UTC()
	return utils.WithTx(ctx, p.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE leads SET status = $1, notes = $2, updated_at = $3 WHERE nasabah_id = $4`,
			req.Status, req.Notes, now, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}
