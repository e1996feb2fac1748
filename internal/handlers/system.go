package handlers

import (
	"net/http"

	"yatra-backend/internal/models"
	"yatra-backend/internal/services"
)

type SystemHandler struct {
	keySource  func() string
	missingMsg string
}

func NewSystemHandler(keySource func() string, missingMsg string) *SystemHandler {
	return &SystemHandler{keySource: keySource, missingMsg: missingMsg}
}

// CheckAPIKey lets the front end warn when the credential is absent.
func (h *SystemHandler) CheckAPIKey(w http.ResponseWriter, r *http.Request) {
	if h.keySource() == "" {
		writeJSON(w, http.StatusInternalServerError, errorResp(h.missingMsg, r))
		return
	}
	writeJSON(w, http.StatusOK, models.APIKeyStatus{Success: true, Message: "API key is configured"})
}

func (h *SystemHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, services.ExampleQuestions())
}

func (h *SystemHandler) Destinations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"destinations": services.SearchDestinations(r.URL.Query().Get("q")),
	})
}

func (h *SystemHandler) SuggestDestinations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": services.SuggestDestinationNames(r.URL.Query().Get("q")),
	})
}
