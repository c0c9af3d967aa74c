package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leadline-ai/leadline/internal/conversation"
	"github.com/leadline-ai/leadline/internal/http/handlers"
	"github.com/leadline-ai/leadline/internal/leads"
)

type stubTurnService struct{}

func (stubTurnService) ProcessTurn(_ context.Context, req conversation.TurnRequest) (*conversation.TurnResponse, error) {
	return &conversation.TurnResponse{SessionID: req.SessionID, Reply: "ok"}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return New(&Config{
		TurnHandler:  handlers.NewTurnHandler(stubTurnService{}, nil),
		LeadsHandler: leads.NewHandler(leads.NewInMemoryRepository(), nil),
		AdminToken:   "tok",
	})
}

func TestRouterPublicRoutes(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/v1/merchants/m1/sessions/s1/messages",
		strings.NewReader(`{"message":"hi"}`))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"reply":"ok"`)
}

func TestRouterLeadsRequireToken(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/merchants/m1/leads/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/merchants/m1/leads/", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterUnknownRoute(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterThrottlesRepeatedTurns(t *testing.T) {
	r := New(&Config{
		TurnHandler:        handlers.NewTurnHandler(stubTurnService{}, nil),
		RateLimitPerSecond: 1,
		RateLimitBurst:     2,
	})

	post := func(sessionID string) int {
		req := httptest.NewRequest(http.MethodPost, "/v1/merchants/m1/sessions/"+sessionID+"/messages",
			strings.NewReader(`{"message":"hi"}`))
		req.RemoteAddr = "10.0.0.9:1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	var last int
	for i := 0; i < 3; i++ {
		last = post("s1")
	}
	require.Equal(t, http.StatusTooManyRequests, last)

	// Another session for the same merchant has its own budget.
	require.Equal(t, http.StatusOK, post("s2"))
}
