package handlers

import (
	"net/http"

	"github.com/carescout/discovery/internal/application/services"
)

// BudgetHandler exposes the current budget state
type BudgetHandler struct {
	budget *services.BudgetGuardService
}

// NewBudgetHandler creates a new budget handler
func NewBudgetHandler(budget *services.BudgetGuardService) *BudgetHandler {
	return &BudgetHandler{budget: budget}
}

// GetBudget handles GET /api/budget
func (h *BudgetHandler) GetBudget(w http.ResponseWriter, r *http.Request) {
	state, err := h.budget.State(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, state)
}
