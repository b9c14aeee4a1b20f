package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/ferrepos/backend/internal/domain/identity"
)

// RegisterRequest represents a request to register a user.
// Without a tenant_id a new tenant is minted and the user becomes its
// admin; with one, the user joins that tenant under the given role.
type RegisterRequest struct {
	TenantID *uuid.UUID `json:"tenant_id"`
	Username string     `json:"username" binding:"required,min=3,max=100"`
	Email    string     `json:"email" binding:"omitempty,email"`
	Password string     `json:"password" binding:"required,min=8,max=128"`
	Role     string     `json:"role" binding:"omitempty,max=20"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	TenantID uuid.UUID `json:"tenant_id" binding:"required"`
	Username string    `json:"username" binding:"required"`
	Password string    `json:"password" binding:"required"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse represents a successful authentication
type LoginResponse struct {
	AccessToken           string       `json:"access_token"`
	RefreshToken          string       `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time    `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time    `json:"refresh_token_expires_at"`
	TokenType             string       `json:"token_type"`
	User                  UserResponse `json:"user"`
}

// ToUserResponse maps a domain user to its API representation
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		TenantID:  u.TenantID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
	}
}
