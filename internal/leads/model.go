package leads

import (
	"strings"
	"time"
)

// Lead is the captured contact profile handed to the merchant once a
// conversation completes.
type Lead struct {
	ID         string    `json:"id"`
	MerchantID string    `json:"merchant_id"`
	SessionID  string    `json:"session_id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email,omitempty"`
	Location   string    `json:"location,omitempty"`
	Style      string    `json:"style,omitempty"`
	Scope      string    `json:"scope,omitempty"`
	Budget     string    `json:"budget,omitempty"`
	Summary    string    `json:"summary,omitempty"`
	BookingRef string    `json:"booking_ref,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateLeadRequest carries the field values collected by the conversation
// engine. Extra captured fields beyond the core columns travel in Fields.
type CreateLeadRequest struct {
	MerchantID string            `json:"-"`
	SessionID  string            `json:"session_id"`
	Name       string            `json:"name"`
	Phone      string            `json:"phone"`
	Email      string            `json:"email"`
	Location   string            `json:"location"`
	Style      string            `json:"style"`
	Scope      string            `json:"scope"`
	Budget     string            `json:"budget"`
	Summary    string            `json:"summary"`
	BookingRef string            `json:"booking_ref"`
	Fields     map[string]string `json:"fields,omitempty"`
}

// Validate checks the minimum viable lead.
func (r *CreateLeadRequest) Validate() error {
	if strings.TrimSpace(r.MerchantID) == "" {
		return ErrMissingMerchantID
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if r.Phone == "" && r.Email == "" {
		return ErrMissingContact
	}
	return nil
}

// FromValues maps collected field values onto the request, routing the known
// core keys to their columns and the rest into Fields.
func FromValues(merchantID, sessionID string, values map[string]string) *CreateLeadRequest {
	req := &CreateLeadRequest{
		MerchantID: merchantID,
		SessionID:  sessionID,
	}
	for key, value := range values {
		switch key {
		case "name":
			req.Name = value
		case "phone":
			req.Phone = value
		case "email":
			req.Email = value
		case "location":
			req.Location = value
		case "style":
			req.Style = value
		case "scope":
			req.Scope = value
		case "budget":
			req.Budget = value
		default:
			if req.Fields == nil {
				req.Fields = make(map[string]string)
			}
			req.Fields[key] = value
		}
	}
	return req
}
