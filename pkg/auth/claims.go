package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/modern-pedagogues/platform-backend/pkg/enums"
)

// AccessTokenPayload captures the identity facts available when minting a JWT.
type AccessTokenPayload struct {
	UserID    uuid.UUID
	Role      enums.UserRole
	Status    enums.UserStatus
	FirstName string
	LastName  string
	JTI       string
}

// AccessTokenClaims is the typed JWT issued to clients. Role, status, and the
// display name ride in the token so every subsequent request can re-hydrate
// the session without a database read.
type AccessTokenClaims struct {
	UserID    uuid.UUID        `json:"user_id"`
	Role      enums.UserRole   `json:"role"`
	Status    enums.UserStatus `json:"status"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	jwt.RegisteredClaims
}
