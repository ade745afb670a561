package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateReviewRequest struct {
	ProductID string  `json:"productId" validate:"required,uuid"`
	Rating    int     `json:"rating"    validate:"required,min=1,max=5"`
	Comment   *string `json:"comment"   validate:"omitempty,max=500"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"  validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=500"`
}

// ReviewFilter binds pagination for the per-product review listing.
// Same leniency policy as ProductFilter: bad values fall back to defaults.
type ReviewFilter struct {
	Page  string `form:"page"`
	Limit string `form:"limit"`
}

func (f ReviewFilter) Pagination() (page, limit int) {
	return ProductFilter{Page: f.Page, Limit: f.Limit}.Pagination()
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ReviewResponse struct {
	ID           string  `json:"id"`
	ProductID    string  `json:"productId"`
	UserID       string  `json:"userId"`
	UserName     string  `json:"userName,omitempty"`
	Rating       int     `json:"rating"`
	Comment      *string `json:"comment,omitempty"`
	IsApproved   bool    `json:"isApproved"`
	HelpfulCount int     `json:"helpfulCount"`
	CreatedAt    string  `json:"createdAt"`
}
