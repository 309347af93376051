package models

import (
	"time"

	"github.com/google/uuid"
)

// TeacherProfile extends a TEACHER user with the approval flag an
// administrator flips once credentials are vetted.
type TeacherProfile struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:teacher_profiles_user_id_key"`
	IsApproved bool      `gorm:"column:is_approved;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
