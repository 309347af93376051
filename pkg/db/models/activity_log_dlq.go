package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ActivityLogDLQ holds audit entries that failed to persist. The audit write
// is best-effort relative to registration, but failures land here instead of
// being dropped silently.
type ActivityLogDLQ struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID       `gorm:"column:user_id;type:uuid;not null"`
	Action       string          `gorm:"column:action;type:text;not null"`
	Payload      json.RawMessage `gorm:"column:payload;type:jsonb;not null"`
	ErrorMessage *string         `gorm:"column:error_message;type:text"`
	FailedAt     time.Time       `gorm:"column:failed_at;autoCreateTime"`
}

// TableName keeps the acronym lowercase in the schema.
func (ActivityLogDLQ) TableName() string {
	return "activity_log_dlq"
}
