// Package session holds per-conversation state and its persistence. State is
// loaded once at the start of a turn, mutated in memory, and written back
// once at the end; concurrent turns for the same session serialize through
// the Locker.
package session

import (
	"time"

	"github.com/leadline-ai/leadline/internal/fields"
)

// Value is an accepted field value with its merge bookkeeping.
type Value struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
	Turn       int     `json:"turn"`
}

// FieldMeta tracks how the scheduler has treated a field.
type FieldMeta struct {
	AskCount      int `json:"ask_count"`
	LastAskedTurn int `json:"last_asked_turn"`
}

// State is everything the engine knows about one conversation.
type State struct {
	SessionID      string               `json:"session_id"`
	MerchantID     string               `json:"merchant_id"`
	TurnIndex      int                  `json:"turn_index"`
	Values         map[string]Value     `json:"values"`
	FieldMeta      map[string]FieldMeta `json:"field_meta"`
	HistorySummary string               `json:"history_summary"`
	LastIntent     string               `json:"last_intent,omitempty"`
	Completed      bool                 `json:"completed"`
	CompletedTurn  int                  `json:"completed_turn,omitempty"`
	BookingRef     string               `json:"booking_ref,omitempty"`
	ReplyCursor    int                  `json:"reply_cursor"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// NewState initializes an empty conversation for a merchant.
func NewState(merchantID, sessionID string) *State {
	now := time.Now().UTC()
	return &State{
		SessionID:  sessionID,
		MerchantID: merchantID,
		Values:     make(map[string]Value),
		FieldMeta:  make(map[string]FieldMeta),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Get returns the accepted value for a field key.
func (s *State) Get(key string) (Value, bool) {
	v, ok := s.Values[key]
	return v, ok
}

// Has reports whether a field holds an accepted value.
func (s *State) Has(key string) bool {
	_, ok := s.Values[key]
	return ok
}

// Missing returns the required fields of the registry that have no accepted
// value yet, in registry order.
func (s *State) Missing(reg *fields.Registry) []fields.Spec {
	var out []fields.Spec
	for _, spec := range reg.Required() {
		if !s.Has(spec.Key) {
			out = append(out, spec)
		}
	}
	return out
}

// RecordAsk bumps the scheduler bookkeeping for a field asked this turn.
func (s *State) RecordAsk(key string) {
	meta := s.FieldMeta[key]
	meta.AskCount++
	meta.LastAskedTurn = s.TurnIndex
	s.FieldMeta[key] = meta
}

// Meta returns the ask bookkeeping for a field, zero-valued if never asked.
func (s *State) Meta(key string) FieldMeta {
	return s.FieldMeta[key]
}
