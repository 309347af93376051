package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/modern-pedagogues/platform-backend/pkg/db/models"
	"github.com/modern-pedagogues/platform-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID         `json:"id"`
	Email       string            `json:"email"`
	FirstName   string            `json:"first_name"`
	LastName    string            `json:"last_name"`
	Phone       *string           `json:"phone,omitempty"`
	Role        enums.UserRole    `json:"role"`
	Status      enums.UserStatus  `json:"status"`
	DateOfBirth *time.Time        `json:"date_of_birth,omitempty"`
	AvatarURL   *string           `json:"avatar_url,omitempty"`
	LastLoginAt *time.Time        `json:"last_login_at,omitempty"`
	Student     *StudentDTO       `json:"student_profile,omitempty"`
	Teacher     *TeacherDTO       `json:"teacher_profile,omitempty"`
	Parent      *ParentProfileDTO `json:"parent_profile,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// StudentDTO carries the enrollment details attached to STUDENT users.
type StudentDTO struct {
	StudentNumber string `json:"student_number"`
	GradeLevel    string `json:"grade_level"`
	Curriculum    string `json:"curriculum"`
}

// TeacherDTO carries the approval state attached to TEACHER users.
type TeacherDTO struct {
	IsApproved bool `json:"is_approved"`
}

// ParentProfileDTO marks a PARENT user; it carries no extra fields today.
type ParentProfileDTO struct {
	ID uuid.UUID `json:"id"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        *string
	Role         enums.UserRole
	Status       enums.UserStatus
	DateOfBirth  *time.Time
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	dto := &UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		Role:        u.Role,
		Status:      u.Status,
		DateOfBirth: u.DateOfBirth,
		AvatarURL:   u.AvatarURL,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}

	if u.StudentProfile != nil {
		dto.Student = &StudentDTO{
			StudentNumber: u.StudentProfile.StudentNumber,
			GradeLevel:    u.StudentProfile.GradeLevel,
			Curriculum:    u.StudentProfile.Curriculum,
		}
	}
	if u.TeacherProfile != nil {
		dto.Teacher = &TeacherDTO{
			IsApproved: u.TeacherProfile.IsApproved,
		}
	}
	if u.ParentProfile != nil {
		dto.Parent = &ParentProfileDTO{
			ID: u.ParentProfile.ID,
		}
	}

	return dto
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		ID:           uuid.New(),
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Phone:        c.Phone,
		Role:         c.Role,
		Status:       c.Status,
		DateOfBirth:  c.DateOfBirth,
	}
}
