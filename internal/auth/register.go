package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modern-pedagogues/platform-backend/internal/activity"
	"github.com/modern-pedagogues/platform-backend/internal/profiles"
	"github.com/modern-pedagogues/platform-backend/internal/users"
	"github.com/modern-pedagogues/platform-backend/pkg/config"
	dbpkg "github.com/modern-pedagogues/platform-backend/pkg/db"
	"github.com/modern-pedagogues/platform-backend/pkg/db/models"
	"github.com/modern-pedagogues/platform-backend/pkg/enums"
	pkgerrors "github.com/modern-pedagogues/platform-backend/pkg/errors"
	"github.com/modern-pedagogues/platform-backend/pkg/metrics"
	"github.com/modern-pedagogues/platform-backend/pkg/security"
)

// ActionUserRegistration is the audit action written after a signup commits.
const ActionUserRegistration = "USER_REGISTRATION"

// RegisterRequest contains the payload required to onboard a new user. The
// wire field names are camelCase to match the clients already posting them.
type RegisterRequest struct {
	FirstName   string     `json:"firstName" validate:"required"`
	LastName    string     `json:"lastName" validate:"required"`
	Email       string     `json:"email" validate:"required,email"`
	Password    string     `json:"password" validate:"required,min=8"`
	Role        string     `json:"role" validate:"required"`
	Phone       *string    `json:"phone,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
}

// RegisterService handles the signup transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
	RegisterAdmin(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
}

type registerUserRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
}

type registerProfileRepository interface {
	CreateStudent(ctx context.Context, userID uuid.UUID) (*models.StudentProfile, error)
	CreateTeacher(ctx context.Context, userID uuid.UUID) (*models.TeacherProfile, error)
	CreateParent(ctx context.Context, userID uuid.UUID) (*models.ParentProfile, error)
}

type activityRecorder interface {
	Enqueue(rec activity.Record) bool
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	TxRunner           dbpkg.TxRunner
	UserRepoFactory    func(tx *gorm.DB) registerUserRepository
	ProfileRepoFactory func(tx *gorm.DB) registerProfileRepository
	Recorder           activityRecorder
	Metrics            *metrics.AuthMetrics
	PasswordConfig     config.PasswordConfig
}

type registerService struct {
	tx          dbpkg.TxRunner
	userRepo    func(tx *gorm.DB) registerUserRepository
	profileRepo func(tx *gorm.DB) registerProfileRepository
	recorder    activityRecorder
	metrics     *metrics.AuthMetrics
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if params.UserRepoFactory == nil {
		params.UserRepoFactory = func(tx *gorm.DB) registerUserRepository {
			return users.NewRepository(tx)
		}
	}
	if params.ProfileRepoFactory == nil {
		params.ProfileRepoFactory = func(tx *gorm.DB) registerProfileRepository {
			return profiles.NewRepository(tx)
		}
	}
	return &registerService{
		tx:          params.TxRunner,
		userRepo:    params.UserRepoFactory,
		profileRepo: params.ProfileRepoFactory,
		recorder:    params.Recorder,
		metrics:     params.Metrics,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	role, err := enums.ParseUserRole(req.Role)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	if !role.IsSelfService() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role cannot self-register")
	}

	return s.create(ctx, req, email, role)
}

// RegisterAdmin provisions an ADMIN account directly. Only the dev router
// exposes this; production admin creation happens out of band.
func (s *registerService) RegisterAdmin(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	return s.create(ctx, req, email, enums.UserRoleAdmin)
}

func (s *registerService) create(ctx context.Context, req RegisterRequest, email string, role enums.UserRole) (*users.UserDTO, error) {
	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *models.User
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepo(tx)
		profileRepo := s.profileRepo(tx)

		// Friendly pre-check; the unique constraint is the real guarantee.
		exists, err := userRepo.ExistsByEmail(ctx, email)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			FirstName:    strings.TrimSpace(req.FirstName),
			LastName:     strings.TrimSpace(req.LastName),
			Phone:        req.Phone,
			Role:         role,
			Status:       enums.InitialStatusFor(role),
			DateOfBirth:  req.DateOfBirth,
		})
		if err != nil {
			if dbpkg.IsUniqueViolation(err, "users_email_key") {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		switch role {
		case enums.UserRoleStudent:
			profile, err := profileRepo.CreateStudent(ctx, user.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create student profile")
			}
			user.StudentProfile = profile
		case enums.UserRoleTeacher:
			profile, err := profileRepo.CreateTeacher(ctx, user.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create teacher profile")
			}
			user.TeacherProfile = profile
		case enums.UserRoleParent:
			profile, err := profileRepo.CreateParent(ctx, user.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create parent profile")
			}
			user.ParentProfile = profile
		}

		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncRegistration(string(role))
	s.recordRegistration(created, role)

	return users.FromModel(created), nil
}

// recordRegistration enqueues the audit entry after the transaction commits.
// A full queue drops the record; registration itself already succeeded.
func (s *registerService) recordRegistration(user *models.User, role enums.UserRole) {
	if s.recorder == nil {
		return
	}
	meta, _ := json.Marshal(map[string]string{
		"role":          string(role),
		"email":         user.Email,
		"registered_at": time.Now().UTC().Format(time.RFC3339),
	})
	s.recorder.Enqueue(activity.Record{
		UserID:      user.ID,
		Action:      ActionUserRegistration,
		Description: fmt.Sprintf("New %s registered: %s %s", strings.ToLower(string(role)), user.FirstName, user.LastName),
		Metadata:    meta,
	})
}
