package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegisterRequest struct {
	Name     string  `json:"name"     validate:"required,min=2,max=120"`
	Email    string  `json:"email"    validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Phone    *string `json:"phone"    validate:"omitempty,min=6,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name"  validate:"omitempty,min=2,max=120"`
	Phone    *string `json:"phone" validate:"omitempty,min=6,max=20"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
	// Role changes are admin-only; the handler enforces this.
	Role *string `json:"role" validate:"omitempty,oneof=customer admin"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UserResponse struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Role     string  `json:"role"`
	Phone    *string `json:"phone,omitempty"`
	IsActive bool    `json:"isActive"`
}

type LoginResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	TokenType    string       `json:"tokenType"`
	ExpiresIn    int          `json:"expiresIn"`
	User         UserResponse `json:"user"`
}
