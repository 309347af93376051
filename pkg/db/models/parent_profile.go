package models

import (
	"time"

	"github.com/google/uuid"
)

// ParentProfile marks a PARENT user; it carries no extra attributes beyond
// the back-reference today but anchors future guardian/child links.
type ParentProfile struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:parent_profiles_user_id_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
