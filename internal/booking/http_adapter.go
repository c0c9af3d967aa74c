package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/leadline-ai/leadline/pkg/logging"
)

// HTTPAdapter schedules consultations through an external booking service.
type HTTPAdapter struct {
	baseURL string
	client  *http.Client
	logger  *logging.Logger
}

// NewHTTPAdapter builds an adapter for the booking service at baseURL. A zero
// timeout falls back to 8 seconds.
func NewHTTPAdapter(baseURL string, timeout time.Duration, logger *logging.Logger) *HTTPAdapter {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &HTTPAdapter{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Name returns "http".
func (a *HTTPAdapter) Name() string { return "http" }

type scheduleRequest struct {
	MerchantID string `json:"merchant_id"`
	SessionID  string `json:"session_id"`
	LeadID     string `json:"lead_id,omitempty"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email,omitempty"`
	Location   string `json:"location,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

type scheduleResponse struct {
	Booked       bool       `json:"booked"`
	Reference    string     `json:"reference"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
	Message      string     `json:"message,omitempty"`
}

// Schedule POSTs the lead to the booking service and maps its response.
func (a *HTTPAdapter) Schedule(ctx context.Context, lead LeadSummary) (*Result, error) {
	payload, err := json.Marshal(scheduleRequest{
		MerchantID: lead.MerchantID,
		SessionID:  lead.SessionID,
		LeadID:     lead.LeadID,
		Name:       lead.Name,
		Phone:      lead.Phone,
		Email:      lead.Email,
		Location:   lead.Location,
		Notes:      lead.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("booking: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/bookings", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("booking: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("booking: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("booking: service returned status %d", resp.StatusCode)
	}

	var decoded scheduleResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("booking: decode response: %w", err)
	}

	a.logger.Info("booking scheduled",
		"merchant_id", lead.MerchantID,
		"session_id", lead.SessionID,
		"booked", decoded.Booked,
		"reference", decoded.Reference,
	)

	return &Result{
		Booked:         decoded.Booked,
		Reference:      decoded.Reference,
		ScheduledFor:   decoded.ScheduledFor,
		HandoffMessage: decoded.Message,
	}, nil
}

var _ Adapter = (*HTTPAdapter)(nil)
