package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceView is the client-facing shape of a catalog service.
type ServiceView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Icon        *string   `json:"icon,omitempty"`
	Sequence    int       `json:"sequence"`
	IsActive    bool      `json:"is_active"`
}

// CategoryView is a category as seen within a service. Name carries the
// per-service display override from the junction row when one exists.
type CategoryView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Sequence    int       `json:"sequence"`
	IsActive    bool      `json:"is_active"`
}

// ItemView is a sellable item. Price is omitted for quote-only items.
type ItemView struct {
	ID       uuid.UUID        `json:"id"`
	Name     string           `json:"name"`
	Unit     string           `json:"unit"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Sequence int              `json:"sequence"`
}
