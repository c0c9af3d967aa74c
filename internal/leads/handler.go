package leads

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/leadline-ai/leadline/pkg/logging"
)

// StatsSource answers aggregate lead queries; nil disables the stats route.
type StatsSource interface {
	MerchantStats(ctx context.Context, merchantID string, since time.Time) (*Stats, error)
}

// Handler serves the merchant-facing lead endpoints.
type Handler struct {
	repo   Repository
	stats  StatsSource
	logger *logging.Logger
}

// NewHandler creates a leads handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// WithStats attaches an aggregate stats source.
func (h *Handler) WithStats(stats StatsSource) *Handler {
	h.stats = stats
	return h
}

// ListLeadsResponse is the response for listing leads.
type ListLeadsResponse struct {
	Leads  []*Lead `json:"leads"`
	Count  int     `json:"count"`
	Offset int     `json:"offset"`
	Limit  int     `json:"limit"`
}

// ListLeads handles GET /v1/merchants/{merchantID}/leads requests.
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	merchantID := chi.URLParam(r, "merchantID")
	if merchantID == "" {
		http.Error(w, "missing merchant_id", http.StatusBadRequest)
		return
	}

	filter := ListLeadsFilter{
		Limit:  50,
		Offset: 0,
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 200 {
			filter.Limit = limit
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	if sinceStr := r.URL.Query().Get("since"); sinceStr != "" {
		if since, err := time.Parse(time.RFC3339, sinceStr); err == nil {
			filter.Since = since
		}
	}

	leads, err := h.repo.List(r.Context(), merchantID, filter)
	if err != nil {
		h.logger.Error("failed to list leads", "error", err, "merchant_id", merchantID)
		http.Error(w, "failed to list leads", http.StatusInternalServerError)
		return
	}

	response := ListLeadsResponse{
		Leads:  leads,
		Count:  len(leads),
		Offset: filter.Offset,
		Limit:  filter.Limit,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetLead handles GET /v1/merchants/{merchantID}/leads/{leadID} requests.
func (h *Handler) GetLead(w http.ResponseWriter, r *http.Request) {
	merchantID := chi.URLParam(r, "merchantID")
	leadID := chi.URLParam(r, "leadID")
	if merchantID == "" || leadID == "" {
		http.Error(w, "missing merchant_id or lead_id", http.StatusBadRequest)
		return
	}

	lead, err := h.repo.GetByID(r.Context(), merchantID, leadID)
	if err != nil {
		if errors.Is(err, ErrLeadNotFound) {
			http.Error(w, "lead not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to fetch lead", "error", err, "merchant_id", merchantID, "lead_id", leadID)
		http.Error(w, "failed to fetch lead", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lead)
}

// GetStats handles GET /v1/merchants/{merchantID}/leads/stats requests. The
// optional "since" query parameter (RFC 3339) defaults to the last 30 days.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	merchantID := chi.URLParam(r, "merchantID")
	if merchantID == "" {
		http.Error(w, "missing merchant_id", http.StatusBadRequest)
		return
	}
	if h.stats == nil {
		http.Error(w, "stats not available", http.StatusNotFound)
		return
	}

	since := time.Now().AddDate(0, 0, -30)
	if sinceStr := r.URL.Query().Get("since"); sinceStr != "" {
		parsed, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			http.Error(w, "invalid since parameter", http.StatusBadRequest)
			return
		}
		since = parsed
	}

	stats, err := h.stats.MerchantStats(r.Context(), merchantID, since)
	if err != nil {
		h.logger.Error("failed to compute lead stats", "error", err, "merchant_id", merchantID)
		http.Error(w, "failed to compute lead stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
