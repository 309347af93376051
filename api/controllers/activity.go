package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/modern-pedagogues/platform-backend/api/responses"
	"github.com/modern-pedagogues/platform-backend/api/validators"
	"github.com/modern-pedagogues/platform-backend/internal/activity"
	"github.com/modern-pedagogues/platform-backend/pkg/db/models"
	pkgerrors "github.com/modern-pedagogues/platform-backend/pkg/errors"
	"github.com/modern-pedagogues/platform-backend/pkg/logger"
	"github.com/modern-pedagogues/platform-backend/pkg/pagination"
)

type activityLister interface {
	List(ctx context.Context, params activity.ListParams) ([]models.ActivityLog, string, error)
}

type activityListResponse struct {
	Items      []models.ActivityLog `json:"items"`
	NextCursor string               `json:"next_cursor,omitempty"`
}

// AdminListActivity serves the audit trail to platform admins. Supports
// filtering by user_id and action plus cursor pagination.
func AdminListActivity(lister activityLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if lister == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "activity service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := activity.ListParams{
			Action: strings.TrimSpace(r.URL.Query().Get("action")),
			Page: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("user_id")); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				typed := pkgerrors.New(pkgerrors.CodeValidation, "user_id must be a valid UUID")
				responses.WriteError(r.Context(), logg, w, typed)
				return
			}
			params.UserID = &id
		}

		rows, next, err := lister.List(r.Context(), params)
		if err != nil {
			if pkgerrors.As(err) == nil {
				err = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list activity")
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if rows == nil {
			rows = []models.ActivityLog{}
		}

		responses.WriteSuccess(w, activityListResponse{
			Items:      rows,
			NextCursor: next,
		})
	}
}
