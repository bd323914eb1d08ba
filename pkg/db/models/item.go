package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a sellable catalog entry. Price is nullable: quote-only items carry no
// fixed price and are settled out of band.
type Item struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string           `gorm:"column:name;not null"`
	Unit      string           `gorm:"column:unit;not null;default:'piece'"`
	Price     *decimal.Decimal `gorm:"column:price;type:numeric(10,2)"`
	Sequence  int              `gorm:"column:sequence;not null;default:0"`
	IsActive  bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
