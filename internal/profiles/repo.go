package profiles

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modern-pedagogues/platform-backend/pkg/db/models"
	"github.com/modern-pedagogues/platform-backend/pkg/security"
)

const (
	// DefaultCurriculum is assigned to new students until enrollment updates it.
	DefaultCurriculum = "GES"
	// DefaultGradeLevel marks students whose grade has not been captured yet.
	DefaultGradeLevel = "Not Set"
)

// Repository persists the role-specific profile rows attached to users.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a profiles repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateStudent inserts a student profile with a generated student number and
// placeholder enrollment values.
func (r *Repository) CreateStudent(ctx context.Context, userID uuid.UUID) (*models.StudentProfile, error) {
	number, err := security.GenerateStudentNumber()
	if err != nil {
		return nil, err
	}
	profile := &models.StudentProfile{
		ID:            uuid.New(),
		UserID:        userID,
		StudentNumber: number,
		GradeLevel:    DefaultGradeLevel,
		Curriculum:    DefaultCurriculum,
	}
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// CreateTeacher inserts an unapproved teacher profile.
func (r *Repository) CreateTeacher(ctx context.Context, userID uuid.UUID) (*models.TeacherProfile, error) {
	profile := &models.TeacherProfile{
		ID:     uuid.New(),
		UserID: userID,
	}
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// CreateParent inserts a parent profile.
func (r *Repository) CreateParent(ctx context.Context, userID uuid.UUID) (*models.ParentProfile, error) {
	profile := &models.ParentProfile{
		ID:     uuid.New(),
		UserID: userID,
	}
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}
