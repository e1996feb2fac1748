package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"yatra-backend/internal/models"
)

const budgetFailedMsg = "Failed to process budget request"

type budgetEstimator interface {
	Estimate(ctx context.Context, req models.BudgetRequest) (string, error)
}

type BudgetHandler struct {
	budgetService budgetEstimator
}

func NewBudgetHandler(budgetService budgetEstimator) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// Estimate answers POST /api/budget with {result} or {error}.
func (h *BudgetHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	var req models.BudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("Invalid request body", r))
		return
	}

	text, err := h.budgetService.Estimate(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, "budget", budgetFailedMsg, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ResultResponse{Result: text})
}
