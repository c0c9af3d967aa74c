// Package conversation runs the per-turn dialogue loop: classify the
// message, extract field values, merge them into session state, detect
// completion, schedule the next question and assemble the reply. One turn in,
// one reply out; state is persisted once at the end of the turn.
package conversation

import (
	"context"
	"errors"
)

// ErrEmptyMessage indicates the turn carried no usable text.
var ErrEmptyMessage = errors.New("conversation: empty message")

// TurnRequest is one inbound user message.
type TurnRequest struct {
	MerchantID string `json:"merchant_id"`
	SessionID  string `json:"session_id"`
	Message    string `json:"message"`
}

// ChecklistItem reports the fill status of one field for UI surfaces.
type ChecklistItem struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
	Filled   bool   `json:"filled"`
	Value    string `json:"value,omitempty"`
}

// Checklist is the machine-readable collection status attached to every
// turn: per-field state plus the aggregate counters callers poll for.
type Checklist struct {
	Fields         []ChecklistItem `json:"fields"`
	Missing        []string        `json:"missing"`
	CollectedCount int             `json:"collected_count"`
	RequiredCount  int             `json:"required_count"`
	AskCounts      map[string]int  `json:"ask_counts,omitempty"`
}

// TurnResponse is the engine's answer to one message.
type TurnResponse struct {
	SessionID  string    `json:"session_id"`
	Reply      string    `json:"reply"`
	Intent     string    `json:"intent"`
	AskedField string    `json:"asked_field,omitempty"`
	Completed  bool      `json:"completed"`
	Booked     bool      `json:"booked"`
	BookingRef string    `json:"booking_ref,omitempty"`
	Checklist  Checklist `json:"checklist"`
}

// Service processes conversation turns.
type Service interface {
	ProcessTurn(ctx context.Context, req TurnRequest) (*TurnResponse, error)
}
