package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// RequireAPIKey rejects every request with a fixed 500 while keySource
// reports no credential. The check runs per request, before any handler
// reads the body.
func RequireAPIKey(keySource func() string, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if keySource() == "" {
				log.Error().Str("path", r.URL.Path).Str("request_id", r.Header.Get(RequestIDHeader)).Msg("rejecting request: provider credential not configured")
				writeError(w, http.StatusInternalServerError, message, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
