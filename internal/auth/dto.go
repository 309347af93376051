package auth

import (
	"github.com/modern-pedagogues/platform-backend/internal/users"
)

// LoginRequest captures the user credentials sent to the login endpoint.
// No validate tags on purpose: missing or malformed credentials must produce
// the same unauthorized outcome as a wrong password, never a field-level
// validation error that tells callers which part was off.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse contains the tokens and sanitized user produced by a
// successful login.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}

// RefreshRequest carries the expired access token alongside the refresh token.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse returns the rotated token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
