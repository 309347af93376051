package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/modern-pedagogues/platform-backend/api/middleware"
	"github.com/modern-pedagogues/platform-backend/api/responses"
	"github.com/modern-pedagogues/platform-backend/internal/auth"
	pkgerrors "github.com/modern-pedagogues/platform-backend/pkg/errors"
	"github.com/modern-pedagogues/platform-backend/pkg/logger"
)

// GetMe returns the authenticated user's full profile, freshly loaded so
// profile edits made after login are reflected.
func GetMe(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session"))
			return
		}

		user, err := svc.GetUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}
