package categories

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/paxol/money-tracker/pkg/api"
	"github.com/paxol/money-tracker/pkg/handlers"
	"github.com/paxol/money-tracker/pkg/mapping"
	"github.com/paxol/money-tracker/pkg/middleware"
	"github.com/paxol/money-tracker/pkg/models"
	"github.com/paxol/money-tracker/pkg/storage"
)

// CategoriesHandler holds the dependencies for category-related handlers.
type CategoriesHandler struct {
	Store storage.CategoryStore
}

// NewCategoriesHandler creates a new CategoriesHandler.
func NewCategoriesHandler(store storage.CategoryStore) *CategoriesHandler {
	return &CategoriesHandler{Store: store}
}

// Routes mounts the category endpoints.
func (h *CategoriesHandler) Routes(r chi.Router) {
	r.Get("/", h.ListCategories)
	r.Post("/", h.CreateCategory)
}

// CreateCategory handles the logic for creating a new category.
func (h *CategoriesHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var newCategory api.NewCategory
	if err := json.NewDecoder(r.Body).Decode(&newCategory); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if newCategory.Name == "" {
		http.Error(w, "Category name is required", http.StatusBadRequest)
		return
	}
	direction := models.CategoryDirection(newCategory.Direction)
	if direction != models.In && direction != models.Out {
		http.Error(w, "Category direction must be 'in' or 'out'", http.StatusBadRequest)
		return
	}

	ownerID := middleware.OwnerFromContext(r.Context())
	domainCategory := mapping.ToDomainNewCategory(&newCategory, ownerID)

	createdCategory, err := h.Store.CreateCategory(r.Context(), domainCategory)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			http.Error(w, "Category already exists", http.StatusConflict)
			return
		}
		http.Error(w, "Failed to create category", http.StatusInternalServerError)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, mapping.ToApiCategory(createdCategory))
}

// ListCategories handles the logic for retrieving all of the caller's categories.
func (h *CategoriesHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.OwnerFromContext(r.Context())

	domainCategories, err := h.Store.ListCategories(r.Context(), ownerID)
	if err != nil {
		http.Error(w, "Failed to retrieve categories", http.StatusInternalServerError)
		return
	}

	apiCategories := make([]*api.Category, len(domainCategories))
	for i := range domainCategories {
		apiCategories[i] = mapping.ToApiCategory(&domainCategories[i])
	}

	handlers.WriteJSON(w, http.StatusOK, apiCategories)
}
