package dto

import (
	"time"

	"github.com/spec-kit/quickdesk/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	UserID     string      `json:"userId"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Username   string      `json:"username"`
	Role       domain.Role `json:"role"`
	CreateTime time.Time   `json:"createTime"`
	UpdateTime time.Time   `json:"updateTime"`
}

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	Message   string       `json:"message"`
	User      UserResponse `json:"user"`
	SessionID string       `json:"sessionId"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:     u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Username:   u.Username,
		Role:       u.Role,
		CreateTime: u.CreatedAt,
		UpdateTime: u.UpdatedAt,
	}
}
