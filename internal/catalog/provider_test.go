package catalog

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshfold/freshfold-backend/pkg/db/models"
	"github.com/freshfold/freshfold-backend/pkg/enums"
	pkgerrors "github.com/freshfold/freshfold-backend/pkg/errors"
	"github.com/freshfold/freshfold-backend/pkg/logger"
)

type stubCatalogRepo struct {
	services             []models.Service
	categories           []models.Category
	items                []models.Item
	serviceCategories    []models.ServiceCategory
	serviceCategoryItems []models.ServiceCategoryItem

	listItemsCalls    int
	listServicesCalls int
}

func (s *stubCatalogRepo) ListServices(ctx context.Context) ([]models.Service, error) {
	s.listServicesCalls++
	return s.services, nil
}

func (s *stubCatalogRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories, nil
}

func (s *stubCatalogRepo) ListItems(ctx context.Context) ([]models.Item, error) {
	s.listItemsCalls++
	return s.items, nil
}

func (s *stubCatalogRepo) ListServiceCategories(ctx context.Context) ([]models.ServiceCategory, error) {
	return s.serviceCategories, nil
}

func (s *stubCatalogRepo) ListServiceCategoryItems(ctx context.Context) ([]models.ServiceCategoryItem, error) {
	return s.serviceCategoryItems, nil
}

func buildFixture() *stubCatalogRepo {
	washID := uuid.New()
	dryID := uuid.New()
	topsID := uuid.New()
	beddingID := uuid.New()
	shirtID := uuid.New()
	duvetID := uuid.New()
	inactiveID := uuid.New()

	washTops := models.ServiceCategory{ID: uuid.New(), ServiceID: washID, CategoryID: topsID, Name: "Tops & Shirts"}
	washBedding := models.ServiceCategory{ID: uuid.New(), ServiceID: washID, CategoryID: beddingID, Name: ""}
	dryTops := models.ServiceCategory{ID: uuid.New(), ServiceID: dryID, CategoryID: topsID, Name: ""}

	price := decimal.RequireFromString("2.50")
	duvetPrice := decimal.RequireFromString("24.99")

	return &stubCatalogRepo{
		services: []models.Service{
			{ID: washID, Name: "Wash & Fold", Sequence: 1, IsActive: true},
			{ID: dryID, Name: "Dry Cleaning", Sequence: 2, IsActive: true},
		},
		categories: []models.Category{
			{ID: topsID, Name: "Tops", Sequence: 1, IsActive: true},
			{ID: beddingID, Name: "Bedding", Sequence: 2, IsActive: true},
		},
		items: []models.Item{
			{ID: shirtID, Name: "Shirt", Unit: "piece", Price: &price, Sequence: 1, IsActive: true},
			{ID: duvetID, Name: "Duvet", Unit: "piece", Price: &duvetPrice, Sequence: 2, IsActive: true},
			{ID: inactiveID, Name: "Retired item", Unit: "piece", Sequence: 3, IsActive: false},
		},
		serviceCategories: []models.ServiceCategory{washTops, washBedding, dryTops},
		serviceCategoryItems: []models.ServiceCategoryItem{
			{ID: uuid.New(), ServiceCategoryID: washTops.ID, ItemID: shirtID},
			{ID: uuid.New(), ServiceCategoryID: washTops.ID, ItemID: inactiveID},
			{ID: uuid.New(), ServiceCategoryID: washBedding.ID, ItemID: duvetID},
		},
	}
}

func newStartedProvider(t *testing.T, repo Repository) *Provider {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	provider, err := NewProvider(repo, logg)
	require.NoError(t, err)
	require.NoError(t, provider.Start(context.Background()))
	return provider
}

func TestProviderStartTwiceFails(t *testing.T) {
	provider := newStartedProvider(t, buildFixture())
	assert.Error(t, provider.Start(context.Background()))
}

func TestProviderStopAndRestart(t *testing.T) {
	provider := newStartedProvider(t, buildFixture())
	require.NoError(t, provider.Stop(context.Background()))
	assert.Empty(t, provider.Services())
	require.NoError(t, provider.Start(context.Background()))
	assert.Len(t, provider.Services(), 2)
}

func TestCategoriesForServiceUsesJunction(t *testing.T) {
	repo := buildFixture()
	provider := newStartedProvider(t, repo)

	categories, err := provider.CategoriesForService("Wash & Fold")
	require.NoError(t, err)
	require.Len(t, categories, 2)
	// Junction display override applies when set.
	assert.Equal(t, "Tops & Shirts", categories[0].Name)
	assert.Equal(t, "Bedding", categories[1].Name)

	categories, err = provider.CategoriesForService(repo.services[1].ID.String())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Tops", categories[0].Name)
}

func TestCategoriesForServiceUnknown(t *testing.T) {
	provider := newStartedProvider(t, buildFixture())

	_, err := provider.CategoriesForService("Shoe Repair")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestItemsForCategoryFiltersInactive(t *testing.T) {
	repo := buildFixture()
	provider := newStartedProvider(t, repo)

	items := provider.ItemsForCategory(repo.categories[0].ID)
	require.Len(t, items, 1, "inactive items must be excluded")
	assert.Equal(t, "Shirt", items[0].Name)

	items = provider.ItemsForCategory(repo.categories[1].ID)
	require.Len(t, items, 1)
	assert.Equal(t, "Duvet", items[0].Name)
}

func TestRefreshReloadsOnlyAffectedTable(t *testing.T) {
	repo := buildFixture()
	provider := newStartedProvider(t, repo)

	servicesBefore := repo.listServicesCalls
	itemsBefore := repo.listItemsCalls

	require.NoError(t, provider.Refresh(context.Background(), enums.CatalogTableItems))
	assert.Equal(t, itemsBefore+1, repo.listItemsCalls)
	assert.Equal(t, servicesBefore, repo.listServicesCalls, "services must not be refetched")
}

func TestRefreshPicksUpNewRows(t *testing.T) {
	repo := buildFixture()
	provider := newStartedProvider(t, repo)

	repo.services = append(repo.services, models.Service{
		ID: uuid.New(), Name: "Ironing", Sequence: 3, IsActive: true,
	})
	require.NoError(t, provider.Refresh(context.Background(), enums.CatalogTableServices))
	assert.Len(t, provider.Services(), 3)
}

func TestOnChangeNotifiesSubscribers(t *testing.T) {
	provider := newStartedProvider(t, buildFixture())

	var seen []enums.CatalogTable
	unsubscribe, err := provider.OnChange(enums.CatalogTableItems, func(ctx context.Context, table enums.CatalogTable) {
		seen = append(seen, table)
	})
	require.NoError(t, err)

	require.NoError(t, provider.Refresh(context.Background(), enums.CatalogTableItems))
	require.NoError(t, provider.Refresh(context.Background(), enums.CatalogTableServices))
	require.Len(t, seen, 1, "only the subscribed table fires the callback")
	assert.Equal(t, enums.CatalogTableItems, seen[0])

	unsubscribe()
	require.NoError(t, provider.Refresh(context.Background(), enums.CatalogTableItems))
	assert.Len(t, seen, 1, "unsubscribed callbacks must not fire")
}

func TestRefreshUnknownTable(t *testing.T) {
	provider := newStartedProvider(t, buildFixture())
	err := provider.Refresh(context.Background(), enums.CatalogTable("users"))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
