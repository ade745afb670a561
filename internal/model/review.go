package model

import (
	"time"

	"github.com/google/uuid"
)

// Review is a customer rating for a product. The composite unique index
// enforces at most one review per (user, product) pair at the storage layer;
// a second insert fails with a duplicate-key error, not a validation error.
type Review struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_product"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_product;index"`
	Rating       int       `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment      *string   `gorm:"type:varchar(500)"`
	IsApproved   bool      `gorm:"not null;default:true"`
	HelpfulCount int       `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	User    *User    `gorm:"foreignKey:UserID"`
	Product *Product `gorm:"foreignKey:ProductID"`
}
