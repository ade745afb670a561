package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateCategoryRequest struct {
	Name        string  `json:"name"        validate:"required,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	ParentID    *string `json:"parentId"    validate:"omitempty,uuid"`
	SortOrder   int     `json:"sortOrder"   validate:"min=0"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	ParentID    *string `json:"parentId"    validate:"omitempty,uuid"`
	SortOrder   *int    `json:"sortOrder"   validate:"omitempty,min=0"`
	IsActive    *bool   `json:"isActive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CategoryResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Slug        string             `json:"slug"`
	Description *string            `json:"description,omitempty"`
	ParentID    *string            `json:"parentId,omitempty"`
	SortOrder   int                `json:"sortOrder"`
	IsActive    bool               `json:"isActive"`
	Children    []CategoryResponse `json:"children,omitempty"`
}
