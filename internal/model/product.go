package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product status values. Status is kept mechanically consistent with
// StockQuantity by the product service: zero stock forces StatusOutOfStock,
// restocking reverts it to StatusActive. A manually set StatusInactive is
// never auto-overridden.
const (
	StatusActive     = "active"
	StatusInactive   = "inactive"
	StatusOutOfStock = "out_of_stock"
)

// Product is a catalog item. AverageRating and TotalReviews are derived
// fields owned by the review aggregation path — product-editing flows must
// never write them directly.
type Product struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SKU           string    `gorm:"uniqueIndex;not null"`
	Name          string    `gorm:"index;not null"`
	Slug          string    `gorm:"uniqueIndex;not null"`
	Description   *string
	CategoryID    uuid.UUID `gorm:"type:uuid;index;not null"`
	SubCategory   string
	Brand         string
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	StockQuantity int             `gorm:"not null;default:0;check:stock_quantity >= 0"`
	Status        string          `gorm:"type:varchar(20);not null;default:'active'"`
	Features      []string        `gorm:"serializer:json;type:jsonb"`
	Featured      bool            `gorm:"not null;default:false"`
	AverageRating float64         `gorm:"not null;default:0"`
	TotalReviews  int             `gorm:"not null;default:0"`
	IsActive      bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
}
