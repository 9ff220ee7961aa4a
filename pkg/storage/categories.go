package storage

import (
	"context"

	"github.com/paxol/money-tracker/pkg/models"
)

// CategoryStore defines the interface for managing categories.
type CategoryStore interface {
	// GetCategory retrieves a category by its ID, scoped to the owner.
	GetCategory(ctx context.Context, ownerID, categoryID string) (*models.Category, error)

	// CreateCategory creates a new category.
	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)

	// ListCategories retrieves all categories for an owner.
	ListCategories(ctx context.Context, ownerID string) ([]models.Category, error)
}
