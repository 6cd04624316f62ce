package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the mirrored profile document for an authenticated user.
type User struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Email       string    `json:"email" db:"email"`
	Username    string    `json:"username" db:"username"`
	DisplayName *string   `json:"display_name,omitempty" db:"display_name"`
	HomeCountry *string   `json:"home_country,omitempty" db:"home_country"`
	AvatarURL   *string   `json:"avatar_url,omitempty" db:"avatar_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// UpdateProfileParams holds optional profile fields for partial updates.
type UpdateProfileParams struct {
	DisplayName *string `json:"display_name,omitempty"`
	HomeCountry *string `json:"home_country,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

// RegisterInput is the request body for account registration.
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=32"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginInput is the request body for login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the issued token and the mirrored profile.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}
