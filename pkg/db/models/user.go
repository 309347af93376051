package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/modern-pedagogues/platform-backend/pkg/enums"
)

// User represents the canonical identity entity. Exactly one role profile
// exists per user, matching Role; the other two associations stay nil.
type User struct {
	ID           uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string           `gorm:"type:text;not null;uniqueIndex:users_email_key"`
	PasswordHash string           `gorm:"column:password_hash;not null"`
	FirstName    string           `gorm:"column:first_name;not null"`
	LastName     string           `gorm:"column:last_name;not null"`
	Phone        *string          `gorm:"column:phone"`
	Role         enums.UserRole   `gorm:"column:role;type:text;not null"`
	Status       enums.UserStatus `gorm:"column:status;type:text;not null"`
	DateOfBirth  *time.Time       `gorm:"column:date_of_birth"`
	AvatarURL    *string          `gorm:"column:avatar_url"`
	LastLoginAt  *time.Time       `gorm:"column:last_login_at"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`

	StudentProfile *StudentProfile `gorm:"foreignKey:UserID"`
	TeacherProfile *TeacherProfile `gorm:"foreignKey:UserID"`
	ParentProfile  *ParentProfile  `gorm:"foreignKey:UserID"`
}
