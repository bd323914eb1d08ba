package catalog

import (
	"context"

	"github.com/freshfold/freshfold-backend/pkg/db/models"
)

// Repository defines the read-only persistence surface of the catalog tables.
type Repository interface {
	ListServices(ctx context.Context) ([]models.Service, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListItems(ctx context.Context) ([]models.Item, error)
	ListServiceCategories(ctx context.Context) ([]models.ServiceCategory, error)
	ListServiceCategoryItems(ctx context.Context) ([]models.ServiceCategoryItem, error)
}
