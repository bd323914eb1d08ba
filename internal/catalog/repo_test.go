package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/freshfold/freshfold-backend/pkg/db/models"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS services (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  icon TEXT,
  sequence INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  sequence INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS items (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  unit TEXT NOT NULL DEFAULT 'piece',
  price NUMERIC,
  sequence INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS service_categories (
  id TEXT PRIMARY KEY,
  service_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  name TEXT NOT NULL,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS service_category_items (
  id TEXT PRIMARY KEY,
  service_category_id TEXT NOT NULL,
  item_id TEXT NOT NULL,
  created_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, gdb.Exec(stmt).Error)
	}
	return gdb
}

func TestRepositoryListServicesOrdering(t *testing.T) {
	gdb := setupCatalogTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	second := models.Service{ID: uuid.New(), Name: "Dry Cleaning", Sequence: 2, IsActive: true}
	first := models.Service{ID: uuid.New(), Name: "Wash & Fold", Sequence: 1, IsActive: true}
	require.NoError(t, gdb.Create(&second).Error)
	require.NoError(t, gdb.Create(&first).Error)

	services, err := repo.ListServices(ctx)
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, "Wash & Fold", services[0].Name)
	assert.Equal(t, "Dry Cleaning", services[1].Name)
}

func TestRepositoryListJunctions(t *testing.T) {
	gdb := setupCatalogTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	link := models.ServiceCategory{
		ID:         uuid.New(),
		ServiceID:  uuid.New(),
		CategoryID: uuid.New(),
		Name:       "Tops",
	}
	require.NoError(t, gdb.Create(&link).Error)

	itemLink := models.ServiceCategoryItem{
		ID:                uuid.New(),
		ServiceCategoryID: link.ID,
		ItemID:            uuid.New(),
	}
	require.NoError(t, gdb.Create(&itemLink).Error)

	links, err := repo.ListServiceCategories(ctx)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, link.ID, links[0].ID)

	itemLinks, err := repo.ListServiceCategoryItems(ctx)
	require.NoError(t, err)
	require.Len(t, itemLinks, 1)
	assert.Equal(t, itemLink.ID, itemLinks[0].ID)
}
