package middleware

import (
	"crypto/subtle"
	"net/http"

	"emergencyHub/internal/render"
	"emergencyHub/pkg/e"
)

const HeaderAPIKey = "X-API-Key"

// APIKeyMiddleware guards operator routes. An empty key disables the check.
func APIKeyMiddleware(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			got := r.Header.Get(HeaderAPIKey)
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				render.Error(w, e.Field("middleware.APIKey", e.ErrForbidden, HeaderAPIKey, nil))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
