package models

import (
	"time"

	"github.com/google/uuid"
)

// ServiceCategory links a Service to a Category. The display name is denormalized
// so administrative tooling can override the category name per service.
type ServiceCategory struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ServiceID  uuid.UUID `gorm:"column:service_id;type:uuid;not null"`
	CategoryID uuid.UUID `gorm:"column:category_id;type:uuid;not null"`
	Name       string    `gorm:"column:name;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
