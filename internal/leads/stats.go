package leads

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Stats is an aggregate view over a merchant's captured leads.
type Stats struct {
	MerchantID string `json:"merchant_id"`
	Total      int    `json:"total"`
	Booked     int    `json:"booked"`
	WithBudget int    `json:"with_budget"`
}

// StatsRepository runs reporting queries over the leads table. It works on
// database/sql so the same code serves the pgx stdlib driver in production
// and a mock in tests.
type StatsRepository struct {
	db *sql.DB
}

// NewStatsRepository wraps an open database handle.
func NewStatsRepository(db *sql.DB) *StatsRepository {
	if db == nil {
		panic("leads: db handle required")
	}
	return &StatsRepository{db: db}
}

// MerchantStats returns lead counts for the merchant since the given time.
func (r *StatsRepository) MerchantStats(ctx context.Context, merchantID string, since time.Time) (*Stats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE booking_ref <> ''),
			COUNT(*) FILTER (WHERE budget <> '')
		FROM leads
		WHERE merchant_id = $1 AND created_at >= $2
	`
	stats := &Stats{MerchantID: merchantID}
	row := r.db.QueryRowContext(ctx, query, merchantID, since)
	if err := row.Scan(&stats.Total, &stats.Booked, &stats.WithBudget); err != nil {
		return nil, fmt.Errorf("leads: stats query failed: %w", err)
	}
	return stats, nil
}
