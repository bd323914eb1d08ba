package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups items within one or more services (tops, bottoms, bedding, ...).
// Services and categories are many-to-many via ServiceCategory.
type Category struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Description *string   `gorm:"column:description"`
	Sequence    int       `gorm:"column:sequence;not null;default:0"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
