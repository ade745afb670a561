package dto

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	SKU         string          `json:"sku"         validate:"required,min=3,max=40"`
	Name        string          `json:"name"        validate:"required,min=2,max=160"`
	Description *string         `json:"description" validate:"omitempty,max=2000"`
	CategoryID  string          `json:"categoryId"  validate:"required,uuid"`
	SubCategory string          `json:"subCategory" validate:"omitempty,max=100"`
	Brand       string          `json:"brand"       validate:"omitempty,max=100"`
	Price       decimal.Decimal `json:"price"       validate:"required"`
	Stock       int             `json:"stockQuantity" validate:"min=0"`
	Features    []string        `json:"features"    validate:"omitempty,dive,max=120"`
	Featured    bool            `json:"featured"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name"        validate:"omitempty,min=2,max=160"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	CategoryID  *string          `json:"categoryId"  validate:"omitempty,uuid"`
	SubCategory *string          `json:"subCategory" validate:"omitempty,max=100"`
	Brand       *string          `json:"brand"       validate:"omitempty,max=100"`
	Price       *decimal.Decimal `json:"price"`
	Status      *string          `json:"status"      validate:"omitempty,oneof=active inactive out_of_stock"`
	Features    []string         `json:"features"    validate:"omitempty,dive,max=120"`
	Featured    *bool            `json:"featured"`
}

type AdjustStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"omitempty,max=200"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ProductFilter binds the listing query parameters. Page and Limit are bound
// as raw strings so that malformed values normalize to the defaults instead
// of failing the bind.
type ProductFilter struct {
	Page        string `form:"page"`
	Limit       string `form:"limit"`
	Category    string `form:"category"`
	SubCategory string `form:"subCategory"`
	Search      string `form:"search"`
	SortBy      string `form:"sortBy"`
	SortOrder   string `form:"sortOrder"`
	Status      string `form:"status"`
	Featured    string `form:"featured"`
}

// Pagination returns the effective page and limit, falling back to the
// defaults for non-numeric or out-of-range values.
func (f ProductFilter) Pagination() (page, limit int) {
	page = DefaultPage
	if p, err := strconv.Atoi(f.Page); err == nil && p >= 1 {
		page = p
	}
	limit = DefaultLimit
	if l, err := strconv.Atoi(f.Limit); err == nil && l >= 1 {
		limit = l
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	Description   *string         `json:"description,omitempty"`
	CategoryID    string          `json:"categoryId"`
	CategoryName  string          `json:"categoryName,omitempty"`
	SubCategory   string          `json:"subCategory,omitempty"`
	Brand         string          `json:"brand,omitempty"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	Status        string          `json:"status"`
	Features      []string        `json:"features,omitempty"`
	Featured      bool            `json:"featured"`
	AverageRating float64         `json:"averageRating"`
	TotalReviews  int             `json:"totalReviews"`
	IsActive      bool            `json:"isActive"`
}
