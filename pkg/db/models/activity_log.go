package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ActivityLog is an append-only audit record. Rows are written after the
// registration transaction commits and are never mutated.
type ActivityLog struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	Action      string          `gorm:"column:action;type:text;not null"`
	Description string          `gorm:"column:description;type:text;not null"`
	Metadata    json.RawMessage `gorm:"column:metadata;type:jsonb"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
