package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/talash/backend/internal/models"
)

type SignupRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AdminSignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	AdminKey string `json:"admin_key"`
}

type LoginRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}

type LoginResponse struct {
	Status string       `json:"status"`
	User   UserResponse `json:"user"`
	Token  string       `json:"token,omitempty"`
}

// VerifyTokenResponse either carries the resolved user (status "valid") or
// signals that signup is still needed (status "needs_signup" plus the
// verified email).
type VerifyTokenResponse struct {
	Status  string        `json:"status"`
	User    *UserResponse `json:"user,omitempty"`
	Email   string        `json:"email,omitempty"`
	Message string        `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
