package models

import (
	"time"

	"github.com/google/uuid"
)

// ServiceCategoryItem links a ServiceCategory to an Item.
type ServiceCategoryItem struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ServiceCategoryID uuid.UUID `gorm:"column:service_category_id;type:uuid;not null"`
	ItemID            uuid.UUID `gorm:"column:item_id;type:uuid;not null"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
}
