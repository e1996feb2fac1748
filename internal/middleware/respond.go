package middleware

import (
	"encoding/json"
	"net/http"

	"yatra-backend/internal/models"
)

func writeError(w http.ResponseWriter, status int, message string, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error:     message,
		RequestID: r.Header.Get(RequestIDHeader),
	})
}
