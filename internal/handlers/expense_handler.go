package handlers

import (
	"encoding/json"
	"net/http"

	"fabric-backend/internal/cache"
	"fabric-backend/internal/models"
	"fabric-backend/internal/services"
	"fabric-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type ExpenseHandler struct {
	Service *services.ExpenseService
}

func NewExpenseHandler(s *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{Service: s}
}

func (h *ExpenseHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	var req models.CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	expense, err := h.Service.AddExpense(r.Context(), &req)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	cache.InvalidateDashboardCaches(r.Context())
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Expense recorded",
		"expense": expense,
	})
}

func (h *ExpenseHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.Service.ListExpenses(r.Context())
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, expenses)
}

// SearchExpenses filters by ?partyName= (matched against the description) and ?date=YYYY-MM-DD
func (h *ExpenseHandler) SearchExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	expenses, err := h.Service.SearchExpenses(r.Context(), q.Get("partyName"), q.Get("date"))
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, expenses)
}

func (h *ExpenseHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	expense, err := h.Service.UpdateAmount(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	cache.InvalidateDashboardCaches(r.Context())
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Updated",
		"expense": expense,
	})
}

func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteExpense(r.Context(), mux.Vars(r)["id"]); err != nil {
		utils.ServiceError(w, err)
		return
	}

	cache.InvalidateDashboardCaches(r.Context())
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Expense deleted"})
}
