package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/freshfold/freshfold-backend/pkg/db/models"
	"github.com/freshfold/freshfold-backend/pkg/enums"
	pkgerrors "github.com/freshfold/freshfold-backend/pkg/errors"
	"github.com/freshfold/freshfold-backend/pkg/logger"
)

// ChangeCallback is invoked after a table has been refreshed.
type ChangeCallback func(ctx context.Context, table enums.CatalogTable)

// Provider holds an in-memory snapshot of the catalog and serves derived
// lookups from it. It is constructed explicitly, started once, and refreshed
// per table when the store reports changes.
type Provider struct {
	repo Repository
	logg *logger.Logger

	mu                   sync.RWMutex
	started              bool
	services             []models.Service
	categories           []models.Category
	items                []models.Item
	serviceCategories    []models.ServiceCategory
	serviceCategoryItems []models.ServiceCategoryItem

	subsMu sync.Mutex
	subs   map[enums.CatalogTable][]ChangeCallback
}

// NewProvider builds an unstarted catalog provider.
func NewProvider(repo Repository, logg *logger.Logger) (*Provider, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Provider{
		repo: repo,
		logg: logg,
		subs: make(map[enums.CatalogTable][]ChangeCallback),
	}, nil
}

// Start loads the full catalog snapshot. Calling Start on a started provider
// is an error.
func (p *Provider) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return fmt.Errorf("catalog provider already started")
	}
	p.mu.Unlock()

	for _, table := range []enums.CatalogTable{
		enums.CatalogTableServices,
		enums.CatalogTableCategories,
		enums.CatalogTableItems,
	} {
		if err := p.reload(ctx, table); err != nil {
			return err
		}
	}

	p.mu.Lock()
	p.started = true
	p.mu.Unlock()

	p.logg.Info(ctx, "catalog provider started")
	return nil
}

// Stop releases the snapshot. The provider can be restarted afterwards.
func (p *Provider) Stop(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return nil
	}
	p.started = false
	p.services = nil
	p.categories = nil
	p.items = nil
	p.serviceCategories = nil
	p.serviceCategoryItems = nil
	p.logg.Info(ctx, "catalog provider stopped")
	return nil
}

// OnChange registers a callback fired after the given table refreshes. The
// returned function unsubscribes.
func (p *Provider) OnChange(table enums.CatalogTable, cb ChangeCallback) (func(), error) {
	if !table.IsValid() {
		return nil, fmt.Errorf("invalid catalog table %q", table)
	}
	if cb == nil {
		return nil, fmt.Errorf("callback required")
	}

	p.subsMu.Lock()
	defer p.subsMu.Unlock()
	p.subs[table] = append(p.subs[table], cb)
	idx := len(p.subs[table]) - 1

	return func() {
		p.subsMu.Lock()
		defer p.subsMu.Unlock()
		callbacks := p.subs[table]
		if idx < len(callbacks) {
			callbacks[idx] = nil
		}
	}, nil
}

// Refresh refetches only the affected table (plus the junction rows that hang
// off it) and notifies subscribers.
func (p *Provider) Refresh(ctx context.Context, table enums.CatalogTable) error {
	if !table.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown catalog table %q", table))
	}
	if err := p.reload(ctx, table); err != nil {
		return err
	}
	p.notify(ctx, table)
	return nil
}

func (p *Provider) reload(ctx context.Context, table enums.CatalogTable) error {
	switch table {
	case enums.CatalogTableServices:
		services, err := p.repo.ListServices(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load services")
		}
		links, err := p.repo.ListServiceCategories(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service categories")
		}
		p.mu.Lock()
		p.services = services
		p.serviceCategories = links
		p.mu.Unlock()

	case enums.CatalogTableCategories:
		categories, err := p.repo.ListCategories(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load categories")
		}
		links, err := p.repo.ListServiceCategories(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service categories")
		}
		p.mu.Lock()
		p.categories = categories
		p.serviceCategories = links
		p.mu.Unlock()

	case enums.CatalogTableItems:
		items, err := p.repo.ListItems(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load items")
		}
		links, err := p.repo.ListServiceCategoryItems(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service category items")
		}
		p.mu.Lock()
		p.items = items
		p.serviceCategoryItems = links
		p.mu.Unlock()
	}
	return nil
}

func (p *Provider) notify(ctx context.Context, table enums.CatalogTable) {
	p.subsMu.Lock()
	callbacks := make([]ChangeCallback, len(p.subs[table]))
	copy(callbacks, p.subs[table])
	p.subsMu.Unlock()

	for _, cb := range callbacks {
		if cb != nil {
			cb(ctx, table)
		}
	}
}

// Services returns the full service list in display order.
func (p *Provider) Services() []ServiceView {
	p.mu.RLock()
	defer p.mu.RUnlock()

	views := make([]ServiceView, 0, len(p.services))
	for _, svc := range p.services {
		views = append(views, ServiceView{
			ID:          svc.ID,
			Name:        svc.Name,
			Description: svc.Description,
			Icon:        svc.Icon,
			Sequence:    svc.Sequence,
			IsActive:    svc.IsActive,
		})
	}
	return views
}

// CategoriesForService resolves the service by ID or name and returns its
// categories via the junction rows, in category display order. Inactive
// categories are not filtered here; callers decide.
func (p *Provider) CategoriesForService(identifier string) ([]CategoryView, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	service, ok := p.lookupServiceLocked(identifier)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
	}

	categoryByID := make(map[uuid.UUID]models.Category, len(p.categories))
	for _, cat := range p.categories {
		categoryByID[cat.ID] = cat
	}

	views := make([]CategoryView, 0)
	for _, link := range p.serviceCategories {
		if link.ServiceID != service.ID {
			continue
		}
		cat, ok := categoryByID[link.CategoryID]
		if !ok {
			continue
		}
		name := cat.Name
		if strings.TrimSpace(link.Name) != "" {
			name = link.Name
		}
		views = append(views, CategoryView{
			ID:          cat.ID,
			Name:        name,
			Description: cat.Description,
			Sequence:    cat.Sequence,
			IsActive:    cat.IsActive,
		})
	}

	sort.SliceStable(views, func(i, j int) bool {
		if views[i].Sequence != views[j].Sequence {
			return views[i].Sequence < views[j].Sequence
		}
		return views[i].Name < views[j].Name
	})
	return views, nil
}

// ItemsForCategory returns the active items linked to the category across all
// services, in item display order. Inactive items are excluded at this layer.
func (p *Provider) ItemsForCategory(categoryID uuid.UUID) []ItemView {
	p.mu.RLock()
	defer p.mu.RUnlock()

	linkIDs := make(map[uuid.UUID]struct{})
	for _, link := range p.serviceCategories {
		if link.CategoryID == categoryID {
			linkIDs[link.ID] = struct{}{}
		}
	}

	itemIDs := make(map[uuid.UUID]struct{})
	for _, link := range p.serviceCategoryItems {
		if _, ok := linkIDs[link.ServiceCategoryID]; ok {
			itemIDs[link.ItemID] = struct{}{}
		}
	}

	views := make([]ItemView, 0, len(itemIDs))
	for _, item := range p.items {
		if _, ok := itemIDs[item.ID]; !ok {
			continue
		}
		if !item.IsActive {
			continue
		}
		views = append(views, ItemView{
			ID:       item.ID,
			Name:     item.Name,
			Unit:     item.Unit,
			Price:    item.Price,
			Sequence: item.Sequence,
		})
	}

	sort.SliceStable(views, func(i, j int) bool {
		if views[i].Sequence != views[j].Sequence {
			return views[i].Sequence < views[j].Sequence
		}
		return views[i].Name < views[j].Name
	})
	return views
}

func (p *Provider) lookupServiceLocked(identifier string) (models.Service, bool) {
	trimmed := strings.TrimSpace(identifier)
	if trimmed == "" {
		return models.Service{}, false
	}
	if id, err := uuid.Parse(trimmed); err == nil {
		for _, svc := range p.services {
			if svc.ID == id {
				return svc, true
			}
		}
		return models.Service{}, false
	}
	for _, svc := range p.services {
		if strings.EqualFold(svc.Name, trimmed) {
			return svc, true
		}
	}
	return models.Service{}, false
}
