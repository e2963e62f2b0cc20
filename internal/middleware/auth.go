package middleware

import (
	"net/http"

	"github.com/grocerhq/storefront/internal/config"
)

// APIKeyAuth validates the "api_key" header against the configured keys.
// Cart mutation endpoints sit behind this middleware.
func APIKeyAuth(cfg config.AuthConfig) func(next http.Handler) http.Handler {
	keys := make(map[string]bool, len(cfg.APIKeys))
	for _, key := range cfg.APIKeys {
		keys[key] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("api_key")

			if apiKey == "" {
				http.Error(w, "Unauthorized: API key required", http.StatusUnauthorized)
				return
			}

			if !keys[apiKey] {
				http.Error(w, "Forbidden: Invalid API key", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
