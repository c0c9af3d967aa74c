package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leadline-ai/leadline/internal/merchant"
	"github.com/leadline-ai/leadline/pkg/logging"
)

// ConfigStore is the persistence surface the admin config handler needs.
type ConfigStore interface {
	GetConfig(ctx context.Context, merchantID string) (*merchant.Config, error)
	SaveConfig(ctx context.Context, cfg *merchant.Config) error
}

// MerchantConfigHandler serves the admin merchant-configuration endpoints.
type MerchantConfigHandler struct {
	store  ConfigStore
	logger *logging.Logger
}

// NewMerchantConfigHandler creates the admin config handler.
func NewMerchantConfigHandler(store ConfigStore, logger *logging.Logger) *MerchantConfigHandler {
	if store == nil {
		panic("handlers: config store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &MerchantConfigHandler{store: store, logger: logger}
}

// GetConfig handles GET /admin/merchants/{merchantID}/config.
func (h *MerchantConfigHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	merchantID := chi.URLParam(r, "merchantID")
	if merchantID == "" {
		http.Error(w, "missing merchant_id", http.StatusBadRequest)
		return
	}

	cfg, err := h.store.GetConfig(r.Context(), merchantID)
	if err != nil {
		if errors.Is(err, merchant.ErrNotFound) {
			http.Error(w, "merchant config not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load merchant config", "error", err, "merchant_id", merchantID)
		http.Error(w, "failed to load merchant config", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cfg)
}

// PutConfig handles PUT /admin/merchants/{merchantID}/config. The merchant id
// in the path wins over whatever the body carries.
func (h *MerchantConfigHandler) PutConfig(w http.ResponseWriter, r *http.Request) {
	merchantID := chi.URLParam(r, "merchantID")
	if merchantID == "" {
		http.Error(w, "missing merchant_id", http.StatusBadRequest)
		return
	}

	var cfg merchant.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	cfg.MerchantID = merchantID

	if err := h.store.SaveConfig(r.Context(), &cfg); err != nil {
		h.logger.Error("failed to save merchant config", "error", err, "merchant_id", merchantID)
		http.Error(w, "failed to save merchant config", http.StatusInternalServerError)
		return
	}

	h.logger.Info("merchant config updated", "merchant_id", merchantID, "template", cfg.Template, "field_overrides", len(cfg.Fields))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&cfg)
}
