package auth

import (
	"time"

	"go-payroll/internal/identity"
)

// RegisterRequest covers both sign-up paths. Accountants need their names;
// clients need the name of the company they are registering.
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email,max=255"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	UserType    string `json:"user_type" binding:"required,oneof=accountant client"`
	FirstName   string `json:"first_name" binding:"required_if=UserType accountant,max=100"`
	LastName    string `json:"last_name" binding:"required_if=UserType accountant,max=100"`
	Phone       string `json:"phone" binding:"omitempty,max=32"`
	CompanyName string `json:"company_name" binding:"required_if=UserType client,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

type ResetPasswordRequestRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type UserResponse struct {
	ID           int64         `json:"id"`
	Email        string        `json:"email"`
	UserType     identity.Role `json:"user_type"`
	IsVerified   bool          `json:"is_verified"`
	AccountantID *int64        `json:"accountant_id,omitempty"`
	CompanyID    *int64        `json:"company_id,omitempty"`
	FirstName    string        `json:"first_name,omitempty"`
	LastName     string        `json:"last_name,omitempty"`
	CreatedAt    string        `json:"created_at,omitempty"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   string       `json:"expires_at"`
	User        UserResponse `json:"user"`
}

func mapToResponse(p Profile) UserResponse {
	resp := UserResponse{
		ID:         p.User.ID,
		Email:      p.User.Email,
		UserType:   p.User.UserType,
		IsVerified: p.User.IsVerified,
		CompanyID:  p.User.CompanyID,
	}
	if p.Accountant != nil {
		id := p.Accountant.ID
		resp.AccountantID = &id
		resp.FirstName = p.Accountant.FirstName
		resp.LastName = p.Accountant.LastName
	}
	if !p.User.CreatedAt.IsZero() {
		resp.CreatedAt = p.User.CreatedAt.Format(time.RFC3339)
	}
	return resp
}
