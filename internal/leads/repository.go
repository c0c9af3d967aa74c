package leads

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ListLeadsFilter narrows a merchant's lead listing.
type ListLeadsFilter struct {
	Limit  int
	Offset int
	Since  time.Time
}

// Repository defines the interface for lead storage.
type Repository interface {
	Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error)
	GetByID(ctx context.Context, merchantID, id string) (*Lead, error)
	List(ctx context.Context, merchantID string, filter ListLeadsFilter) ([]*Lead, error)
}

// InMemoryRepository is a Repository backed by a map, for tests and local
// runs without Postgres.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads map[string]*Lead
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		leads: make(map[string]*Lead),
	}
}

// Create stores a new lead in memory.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	lead := &Lead{
		ID:         uuid.New().String(),
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
		CreatedAt:  time.Now().UTC(),
	}

	r.mu.Lock()
	r.leads[lead.ID] = lead
	r.mu.Unlock()

	return lead, nil
}

// GetByID retrieves a lead scoped to the merchant.
func (r *InMemoryRepository) GetByID(ctx context.Context, merchantID, id string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.leads[id]
	if !ok || lead.MerchantID != merchantID {
		return nil, ErrLeadNotFound
	}
	return lead, nil
}

// List returns the merchant's leads, newest first.
func (r *InMemoryRepository) List(ctx context.Context, merchantID string, filter ListLeadsFilter) ([]*Lead, error) {
	r.mu.RLock()
	var out []*Lead
	for _, lead := range r.leads {
		if lead.MerchantID != merchantID {
			continue
		}
		if !filter.Since.IsZero() && lead.CreatedAt.Before(filter.Since) {
			continue
		}
		out = append(out, lead)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}
