package model

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies products into a two-level catalog tree
// (e.g. "Lens Filters" → "58mm Filters", "67mm Filters").
// Children are derived by querying parent_id; there is no denormalized
// child list to keep in sync.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"uniqueIndex;not null"`
	Slug        string    `gorm:"uniqueIndex;not null"`
	Description *string
	ParentID    *uuid.UUID `gorm:"type:uuid;index"`
	SortOrder   int        `gorm:"not null;default:0"`
	IsActive    bool       `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Parent *Category `gorm:"foreignKey:ParentID"`
}

// TableName pins the table name; raw SQL in seeding and tests relies on it.
func (Category) TableName() string { return "categories" }
