package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/freshfold/freshfold-backend/api/responses"
	"github.com/freshfold/freshfold-backend/internal/catalog"
	pkgerrors "github.com/freshfold/freshfold-backend/pkg/errors"
	"github.com/freshfold/freshfold-backend/pkg/logger"
)

type catalogReader interface {
	Services() []catalog.ServiceView
	CategoriesForService(identifier string) ([]catalog.CategoryView, error)
	ItemsForCategory(categoryID uuid.UUID) []catalog.ItemView
}

// CatalogServices lists the active services in display order.
func CatalogServices(provider catalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if provider == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		responses.WriteSuccess(w, provider.Services())
	}
}

// CatalogCategories lists the categories linked to a service. The service may
// be addressed by id or by name.
func CatalogCategories(provider catalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if provider == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		identifier := chi.URLParam(r, "service")
		if identifier == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "service identifier required"))
			return
		}

		categories, err := provider.CategoriesForService(identifier)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

// CatalogItems lists the active items linked to a category.
func CatalogItems(provider catalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if provider == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		raw := chi.URLParam(r, "categoryId")
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid category id"))
			return
		}
		responses.WriteSuccess(w, provider.ItemsForCategory(categoryID))
	}
}
