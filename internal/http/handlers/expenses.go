package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/spendlite/spendlite-be/internal/http/respond"
	"github.com/spendlite/spendlite-be/internal/middleware"
	"github.com/spendlite/spendlite-be/internal/models"
	"github.com/spendlite/spendlite-be/internal/models/dto"
	"github.com/spendlite/spendlite-be/internal/storage"
)

// ExpenseHandler owns the per-user expense CRUD endpoints.
type ExpenseHandler struct {
	store storage.Store
}

// NewExpenseHandler constructs the handler.
func NewExpenseHandler(store storage.Store) *ExpenseHandler {
	return &ExpenseHandler{store: store}
}

// Register attaches expense routes. All routes assume the auth middleware
// has already placed the requesting user in the context.
func (h *ExpenseHandler) Register(r chi.Router) {
	r.Get("/expenses", h.handleList)
	r.Post("/expenses", h.handleCreate)
	r.Get("/expenses/{id}", h.handleGet)
	r.Put("/expenses/{id}", h.handleUpdate)
	r.Delete("/expenses/{id}", h.handleDelete)
}

func (h *ExpenseHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing access token")
		return
	}
	expenses, err := h.store.ListExpenses(r.Context(), userID)
	if err != nil {
		log.Printf("list expenses error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list expenses")
		return
	}
	respond.JSON(w, http.StatusOK, "expenses", expenses)
}

func (h *ExpenseHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing access token")
		return
	}
	expense, ok := h.expenseFromBody(w, r, userID)
	if !ok {
		return
	}
	created, err := h.store.CreateExpense(r.Context(), expense)
	if err != nil {
		log.Printf("create expense error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to create expense")
		return
	}
	respond.JSON(w, http.StatusCreated, "expense created", created)
}

func (h *ExpenseHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing access token")
		return
	}
	id, ok := expenseID(w, r)
	if !ok {
		return
	}
	expense, err := h.store.GetExpense(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "expense not found")
			return
		}
		log.Printf("get expense error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch expense")
		return
	}
	respond.JSON(w, http.StatusOK, "expense", expense)
}

func (h *ExpenseHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing access token")
		return
	}
	id, ok := expenseID(w, r)
	if !ok {
		return
	}
	// Confirm ownership before touching anything else: a PUT to a missing
	// or foreign id must not get-or-create the named category as a side
	// effect.
	if _, err := h.store.GetExpense(r.Context(), userID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "expense not found")
			return
		}
		log.Printf("update expense error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to update expense")
		return
	}
	expense, ok := h.expenseFromBody(w, r, userID)
	if !ok {
		return
	}
	expense.ID = id
	updated, err := h.store.UpdateExpense(r.Context(), expense)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "expense not found")
			return
		}
		log.Printf("update expense error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to update expense")
		return
	}
	respond.JSON(w, http.StatusOK, "expense updated", updated)
}

func (h *ExpenseHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing access token")
		return
	}
	id, ok := expenseID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteExpense(r.Context(), userID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "expense not found")
			return
		}
		log.Printf("delete expense error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to delete expense")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// expenseFromBody decodes and validates the request payload, resolves the
// category name for the requesting user, and returns a model ready for the
// store. On failure it writes the error response and returns ok=false.
func (h *ExpenseHandler) expenseFromBody(w http.ResponseWriter, r *http.Request, userID int64) (models.Expense, bool) {
	var req dto.ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return models.Expense{}, false
	}

	fields := map[string]string{}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		fields["title"] = "title is required"
	}

	amount, amountErr := parseAmount(req.Amount)
	if amountErr != "" {
		fields["amount"] = amountErr
	}

	var date models.Date
	if strings.TrimSpace(req.Date) == "" {
		fields["date"] = "date is required"
	} else if parsed, err := models.ParseDate(strings.TrimSpace(req.Date)); err != nil {
		fields["date"] = "date must be in YYYY-MM-DD format"
	} else {
		date = parsed
	}

	categoryName := strings.TrimSpace(req.Category)
	if categoryName == "" {
		fields["category"] = "category is required"
	}

	if len(fields) > 0 {
		respond.FieldErrors(w, http.StatusBadRequest, fields)
		return models.Expense{}, false
	}

	category, err := h.store.GetOrCreateCategory(r.Context(), userID, categoryName)
	if err != nil {
		log.Printf("resolve category error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to resolve category")
		return models.Expense{}, false
	}

	return models.Expense{
		Title:       title,
		Amount:      amount,
		Date:        date,
		CategoryID:  category.ID,
		Description: strings.TrimSpace(req.Description),
		UserID:      userID,
	}, true
}

// parseAmount accepts a JSON number or a quoted decimal string. It returns
// a field-error message on failure so a bad amount does not mask the other
// field checks.
func parseAmount(raw json.RawMessage) (decimal.Decimal, string) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return decimal.Decimal{}, "amount is required"
	}
	s = strings.Trim(s, `"`)
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, "amount must be a decimal number"
	}
	return amount, ""
}

func expenseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, http.StatusNotFound, "expense not found")
		return 0, false
	}
	return id, true
}
