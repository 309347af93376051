package activity

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modern-pedagogues/platform-backend/pkg/db/models"
	"github.com/modern-pedagogues/platform-backend/pkg/pagination"
)

// Record is the write shape handed to the repo and the async recorder.
type Record struct {
	UserID      uuid.UUID
	Action      string
	Description string
	Metadata    json.RawMessage
}

// Repository persists audit records and their dead letters.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an activity repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert appends an activity log row.
func (r *Repository) Insert(ctx context.Context, rec Record) (*models.ActivityLog, error) {
	row := &models.ActivityLog{
		ID:          uuid.New(),
		UserID:      rec.UserID,
		Action:      rec.Action,
		Description: rec.Description,
		Metadata:    rec.Metadata,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// InsertDLQ stores a record that could not be written to activity_logs.
func (r *Repository) InsertDLQ(ctx context.Context, rec Record, writeErr error) error {
	payload, err := json.Marshal(map[string]any{
		"user_id":     rec.UserID,
		"action":      rec.Action,
		"description": rec.Description,
		"metadata":    rec.Metadata,
	})
	if err != nil {
		return err
	}

	var msg *string
	if writeErr != nil {
		s := writeErr.Error()
		msg = &s
	}

	row := &models.ActivityLogDLQ{
		ID:           uuid.New(),
		UserID:       rec.UserID,
		Action:       rec.Action,
		Payload:      payload,
		ErrorMessage: msg,
	}
	return r.db.WithContext(ctx).Create(row).Error
}

// ListParams filters the audit listing.
type ListParams struct {
	UserID *uuid.UUID
	Action string
	Page   pagination.Params
}

// List returns audit rows newest first with an opaque next-page cursor.
func (r *Repository) List(ctx context.Context, params ListParams) ([]models.ActivityLog, string, error) {
	limit := pagination.NormalizeLimit(params.Page.Limit)

	query := r.db.WithContext(ctx).Model(&models.ActivityLog{})
	if params.UserID != nil {
		query = query.Where("user_id = ?", *params.UserID)
	}
	if params.Action != "" {
		query = query.Where("action = ?", params.Action)
	}

	cursor, err := pagination.ParseCursor(params.Page.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.ActivityLog
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Page.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt.UTC(),
			ID:        last.ID,
		})
	}
	return rows, next, nil
}
