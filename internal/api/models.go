package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/adboard/adboard-api/internal/domain"
)

// Request and response payloads.

// RegisterRequest defines the payload for the user registration endpoint.
// Role is optional and defaults to "user".
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=1"`
}

// TokenResponse defines the successful response of the login endpoint.
type TokenResponse struct {
	// AccessToken is the JWT used for API authorization.
	AccessToken string `json:"access_token"`

	// TokenType is always "bearer".
	TokenType string `json:"token_type"`

	// ExpiresAt is the RFC 3339 timestamp when the access token expires.
	ExpiresAt string `json:"expires_at,omitempty"`
}

// UserResponse is the public view of a user record. The password hash is
// never part of it.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdateUserRequest defines the payload for partial user updates. Nil
// fields are left unchanged.
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email,omitempty"    validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6,max=72"`
}

// CreateAdvertisementRequest defines the payload for creating an
// advertisement. The owner is taken from the authenticated principal, never
// from the payload.
type CreateAdvertisementRequest struct {
	Title       string  `json:"title"       validate:"required,min=1,max=100"`
	Description string  `json:"description" validate:"required,min=1,max=1000"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
}

// UpdateAdvertisementRequest defines the payload for partial advertisement
// updates. Nil fields are left unchanged.
type UpdateAdvertisementRequest struct {
	Title       *string  `json:"title,omitempty"       validate:"omitempty,min=1,max=100"`
	Description *string  `json:"description,omitempty" validate:"omitempty,min=1,max=1000"`
	Price       *float64 `json:"price,omitempty"       validate:"omitempty,gt=0"`
}

// AdvertisementResponse is the public view of an advertisement.
type AdvertisementResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	OwnerID     uuid.UUID `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}

func advertisementToResponse(ad *domain.Advertisement) AdvertisementResponse {
	return AdvertisementResponse{
		ID:          ad.ID,
		Title:       ad.Title,
		Description: ad.Description,
		Price:       ad.Price,
		OwnerID:     ad.OwnerID,
		CreatedAt:   ad.CreatedAt,
		UpdatedAt:   ad.UpdatedAt,
	}
}
