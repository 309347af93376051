package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/modern-pedagogues/platform-backend/api/middleware"
	"github.com/modern-pedagogues/platform-backend/api/responses"
	"github.com/modern-pedagogues/platform-backend/api/validators"
	"github.com/modern-pedagogues/platform-backend/internal/auth"
	pkgerrors "github.com/modern-pedagogues/platform-backend/pkg/errors"
	"github.com/modern-pedagogues/platform-backend/pkg/logger"
)

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type sessionPayload struct {
	UserID    string     `json:"user_id"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func parseBearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}

// AuthRefresh rotates the refresh token presented in the body against the
// access token in the Authorization header. The access token may be expired;
// only its signature has to check out.
func AuthRefresh(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := parseBearerToken(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body refreshRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Refresh(r.Context(), auth.RefreshRequest{
			AccessToken:  token,
			RefreshToken: body.RefreshToken,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AuthLogout revokes the caller's session. Runs behind Auth, so the verified
// claims carry the session ID to revoke.
func AuthLogout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			err := pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Logout(r.Context(), claims.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// GetSession echoes the verified token claims back to the client. No database
// read happens here; the claims already carry everything the UI needs.
func GetSession(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			err := pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := sessionPayload{
			UserID:    claims.UserID.String(),
			Role:      string(claims.Role),
			Status:    string(claims.Status),
			FirstName: claims.FirstName,
			LastName:  claims.LastName,
		}
		if claims.ExpiresAt != nil {
			t := claims.ExpiresAt.Time.UTC()
			payload.ExpiresAt = &t
		}

		responses.WriteSuccess(w, payload)
	}
}
