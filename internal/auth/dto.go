package auth

import "github.com/nordmarket/authcore/internal/account"

// The passwd rule (at least one letter and one digit) is registered on the
// API layer's validator, where these tags run.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type RegisterRequest struct {
	Email    string       `json:"email" validate:"required,email"`
	Password string       `json:"password" validate:"required,min=8,passwd"`
	Name     string       `json:"name" validate:"required,max=50"`
	Surname  string       `json:"surname" validate:"required,max=50"`
	Phone    string       `json:"phoneNumber" validate:"required,e164"`
	Role     account.Role `json:"role,omitempty" validate:"omitempty,oneof=guest user admin"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}
