package models

import (
	"time"

	"github.com/google/uuid"
)

// Service represents a top-level laundry service offering (wash & fold, dry cleaning, ...).
type Service struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Description *string   `gorm:"column:description"`
	Icon        *string   `gorm:"column:icon"`
	Sequence    int       `gorm:"column:sequence;not null;default:0"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
