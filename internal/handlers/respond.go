package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"yatra-backend/internal/middleware"
	"yatra-backend/internal/models"
	"yatra-backend/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error:     message,
		RequestID: r.Header.Get(middleware.RequestIDHeader),
	}
}

func errorRespWithFields(message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	resp := errorResp(message, r)
	resp.Fields = fields
	return resp
}

// handleServiceError maps service failures to responses. Anything that is
// not a client mistake is logged with full detail and answered with the
// endpoint's generic message.
func handleServiceError(w http.ResponseWriter, r *http.Request, endpoint, genericMsg string, err error) {
	var ve *services.ValidationError
	var rle *services.RateLimitError

	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorRespWithFields(ve.Error(), ve.Fields, r))
	case errors.As(err, &rle):
		writeJSON(w, http.StatusTooManyRequests, errorResp(rle.Message, r))
	case errors.Is(err, services.ErrRateSlotTimeout):
		log.Warn().Err(err).Str("endpoint", endpoint).Str("request_id", r.Header.Get(middleware.RequestIDHeader)).Msg("model gateway saturated")
		writeJSON(w, http.StatusTooManyRequests, errorResp("Too many requests. Please try again later.", r))
	case errors.Is(err, context.Canceled):
		log.Info().Str("endpoint", endpoint).Str("request_id", r.Header.Get(middleware.RequestIDHeader)).Msg("client went away")
	default:
		log.Error().Err(err).Str("endpoint", endpoint).Str("request_id", r.Header.Get(middleware.RequestIDHeader)).Msgf("Error in %s API", endpoint)
		writeJSON(w, http.StatusInternalServerError, errorResp(genericMsg, r))
	}
}
