package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

const (
	throttleSweepEvery = 5 * time.Minute
	throttleIdleAfter  = 10 * time.Minute
)

// TurnThrottle caps how fast a single conversation can post messages, using
// a token budget per merchant+session pair. Requests outside a session route
// fall back to the client IP so the limiter still covers them.
func TurnThrottle(perSecond float64, burst int) func(http.Handler) http.Handler {
	th := newThrottle(perSecond, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !th.allow(throttleKey(r), time.Now()) {
				http.Error(w, "too many messages, please slow down", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func throttleKey(r *http.Request) string {
	merchantID := chi.URLParam(r, "merchantID")
	sessionID := chi.URLParam(r, "sessionID")
	if merchantID != "" && sessionID != "" {
		return merchantID + "/" + sessionID
	}
	if xri := r.Header.Get("X-Real-Ip"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type throttle struct {
	mu      sync.Mutex
	perSec  float64
	burst   float64
	budgets map[string]*turnBudget
	sweepAt time.Time
}

type turnBudget struct {
	remaining float64
	lastSeen  time.Time
}

func newThrottle(perSecond float64, burst int) *throttle {
	if perSecond <= 0 {
		perSecond = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &throttle{
		perSec:  perSecond,
		burst:   float64(burst),
		budgets: make(map[string]*turnBudget),
		sweepAt: time.Now().Add(throttleSweepEvery),
	}
}

// allow refills the key's budget for the elapsed time and spends one token.
// Stale budgets are swept inline, so no background goroutine is needed.
func (t *throttle) allow(key string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.sweep(now)

	b, ok := t.budgets[key]
	if !ok {
		b = &turnBudget{remaining: t.burst, lastSeen: now}
		t.budgets[key] = b
	}

	b.remaining += now.Sub(b.lastSeen).Seconds() * t.perSec
	if b.remaining > t.burst {
		b.remaining = t.burst
	}
	b.lastSeen = now

	if b.remaining < 1 {
		return false
	}
	b.remaining--
	return true
}

func (t *throttle) sweep(now time.Time) {
	if now.Before(t.sweepAt) {
		return
	}
	cutoff := now.Add(-throttleIdleAfter)
	for key, b := range t.budgets {
		if b.lastSeen.Before(cutoff) {
			delete(t.budgets, key)
		}
	}
	t.sweepAt = now.Add(throttleSweepEvery)
}
