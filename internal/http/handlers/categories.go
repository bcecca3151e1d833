package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/spendlite/spendlite-be/internal/http/respond"
	"github.com/spendlite/spendlite-be/internal/middleware"
	"github.com/spendlite/spendlite-be/internal/models/dto"
	"github.com/spendlite/spendlite-be/internal/storage"
)

// CategoryHandler owns the per-user category endpoints.
type CategoryHandler struct {
	store storage.Store
}

// NewCategoryHandler constructs the handler.
func NewCategoryHandler(store storage.Store) *CategoryHandler {
	return &CategoryHandler{store: store}
}

// Register attaches category routes behind the auth middleware.
func (h *CategoryHandler) Register(r chi.Router) {
	r.Get("/categories", h.handleList)
	r.Post("/categories", h.handleCreate)
}

func (h *CategoryHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing access token")
		return
	}
	categories, err := h.store.ListCategories(r.Context(), userID)
	if err != nil {
		log.Printf("list categories error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	respond.JSON(w, http.StatusOK, "categories", categories)
}

func (h *CategoryHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing access token")
		return
	}
	var req dto.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		respond.FieldErrors(w, http.StatusBadRequest, map[string]string{"name": "name is required"})
		return
	}

	created, err := h.store.CreateCategory(r.Context(), userID, name)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			respond.FieldErrors(w, http.StatusBadRequest, map[string]string{
				"name": "a category with this name already exists",
			})
		default:
			log.Printf("create category error: %v", err)
			respond.Error(w, http.StatusInternalServerError, "failed to create category")
		}
		return
	}
	respond.JSON(w, http.StatusCreated, "category created", created)
}
