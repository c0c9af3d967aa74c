package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// BearerToken guards a route group with a single shared secret. Requests must
// carry "Authorization: Bearer <token>". An empty configured token rejects
// everything, so an unset secret fails closed.
func BearerToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				http.Error(w, "admin access not configured", http.StatusUnauthorized)
				return
			}
			header := r.Header.Get("Authorization")
			presented, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
