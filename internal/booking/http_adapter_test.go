package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHTTPAdapterSchedule(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/bookings", r.URL.Path)

		var req scheduleRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "m1", req.MerchantID)
		require.Equal(t, "+60123456789", req.Phone)

		json.NewEncoder(w).Encode(scheduleResponse{
			Booked:    true,
			Reference: "bk_123",
		})
	}))
	defer srv.Close()

	adapter := NewHTTPAdapter(srv.URL, time.Second, nil)
	result, err := adapter.Schedule(context.Background(), sampleLead())
	require.NoError(t, err)
	require.True(t, result.Booked)
	require.Equal(t, "bk_123", result.Reference)
}

func TestHTTPAdapterServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	adapter := NewHTTPAdapter(srv.URL, time.Second, nil)
	_, err := adapter.Schedule(context.Background(), sampleLead())
	require.Error(t, err)
}

func TestHTTPAdapterTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	adapter := NewHTTPAdapter(srv.URL, 20*time.Millisecond, nil)
	_, err := adapter.Schedule(context.Background(), sampleLead())
	require.Error(t, err)
}
