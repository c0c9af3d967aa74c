// Package handlers holds the HTTP handlers that sit in front of the
// conversation engine and the merchant admin surface.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/leadline-ai/leadline/internal/conversation"
	"github.com/leadline-ai/leadline/internal/session"
	"github.com/leadline-ai/leadline/internal/tenancy"
	"github.com/leadline-ai/leadline/pkg/logging"
)

const maxMessageBytes = 16 << 10

// TurnHandler exposes the dialogue engine over HTTP.
type TurnHandler struct {
	service conversation.Service
	logger  *logging.Logger
}

// NewTurnHandler creates the turn handler.
func NewTurnHandler(service conversation.Service, logger *logging.Logger) *TurnHandler {
	if service == nil {
		panic("handlers: conversation service cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &TurnHandler{service: service, logger: logger}
}

type turnRequestBody struct {
	Message string `json:"message"`
}

// PostMessage handles POST /v1/merchants/{merchantID}/sessions/{sessionID}/messages.
func (h *TurnHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	merchantID := chi.URLParam(r, "merchantID")
	sessionID := chi.URLParam(r, "sessionID")
	if merchantID == "" || sessionID == "" {
		http.Error(w, "missing merchant_id or session_id", http.StatusBadRequest)
		return
	}

	var body turnRequestBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageBytes)).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(body.Message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	ctx := tenancy.WithMerchantID(r.Context(), merchantID)
	resp, err := h.service.ProcessTurn(ctx, conversation.TurnRequest{
		MerchantID: merchantID,
		SessionID:  sessionID,
		Message:    body.Message,
	})
	if err != nil {
		if errors.Is(err, conversation.ErrEmptyMessage) {
			http.Error(w, "message is required", http.StatusBadRequest)
			return
		}
		h.logger.Error("turn processing failed", "error", err, "merchant_id", merchantID, "session_id", sessionID)
		if errors.Is(err, session.ErrStoreUnavailable) {
			http.Error(w, "temporarily unable to process messages", http.StatusServiceUnavailable)
			return
		}
		http.Error(w, "failed to process message", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HealthCheck reports liveness.
func (h *TurnHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
