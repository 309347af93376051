package models

import (
	"time"

	"github.com/google/uuid"
)

// StudentProfile extends a STUDENT user with enrollment details.
type StudentProfile struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:student_profiles_user_id_key"`
	StudentNumber string    `gorm:"column:student_number;type:text;not null;uniqueIndex:student_profiles_student_number_key"`
	GradeLevel    string    `gorm:"column:grade_level;type:text;not null"`
	Curriculum    string    `gorm:"column:curriculum;type:text;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
