package leads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// Create inserts a new row. Non-core captured fields go into the extras
// jsonb column.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var extras []byte
	if len(req.Fields) > 0 {
		var err error
		extras, err = json.Marshal(req.Fields)
		if err != nil {
			return nil, fmt.Errorf("leads: encode extras: %w", err)
		}
	}

	id := uuid.New()
	query := `
		INSERT INTO leads (id, merchant_id, session_id, name, phone, email, location, style, scope, budget, summary, booking_ref, extras)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		req.MerchantID,
		req.SessionID,
		req.Name,
		req.Phone,
		req.Email,
		req.Location,
		req.Style,
		req.Scope,
		req.Budget,
		req.Summary,
		req.BookingRef,
		extras,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}

	return &Lead{
		ID:         id.String(),
		MerchantID: req.MerchantID,
		SessionID:  req.SessionID,
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		Location:   req.Location,
		Style:      req.Style,
		Scope:      req.Scope,
		Budget:     req.Budget,
		Summary:    req.Summary,
		BookingRef: req.BookingRef,
		CreatedAt:  createdAt,
	}, nil
}

// GetByID fetches a lead scoped to the merchant.
func (r *PostgresRepository) GetByID(ctx context.Context, merchantID, id string) (*Lead, error) {
	query := `
		SELECT id, merchant_id, session_id, name, phone, email, location, style, scope, budget, summary, booking_ref, created_at
		FROM leads
		WHERE id = $1 AND merchant_id = $2
	`
	row := r.pool.QueryRow(ctx, query, id, merchantID)
	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return lead, nil
}

// List returns the merchant's leads, newest first.
func (r *PostgresRepository) List(ctx context.Context, merchantID string, filter ListLeadsFilter) ([]*Lead, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	since := filter.Since
	if since.IsZero() {
		since = time.Unix(0, 0).UTC()
	}

	query := `
		SELECT id, merchant_id, session_id, name, phone, email, location, style, scope, budget, summary, booking_ref, created_at
		FROM leads
		WHERE merchant_id = $1 AND created_at >= $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query, merchantID, since, limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		out = append(out, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*Lead, error) {
	var lead Lead
	if err := row.Scan(
		&lead.ID,
		&lead.MerchantID,
		&lead.SessionID,
		&lead.Name,
		&lead.Phone,
		&lead.Email,
		&lead.Location,
		&lead.Style,
		&lead.Scope,
		&lead.Budget,
		&lead.Summary,
		&lead.BookingRef,
		&lead.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &lead, nil
}

var _ Repository = (*PostgresRepository)(nil)
var _ Repository = (*InMemoryRepository)(nil)
