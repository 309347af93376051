package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/modern-pedagogues/platform-backend/internal/activity"
	"github.com/modern-pedagogues/platform-backend/internal/users"
	"github.com/modern-pedagogues/platform-backend/pkg/config"
	dbpkg "github.com/modern-pedagogues/platform-backend/pkg/db"
	pkgmodels "github.com/modern-pedagogues/platform-backend/pkg/db/models"
	"github.com/modern-pedagogues/platform-backend/pkg/enums"
	pkgerrors "github.com/modern-pedagogues/platform-backend/pkg/errors"
	"github.com/modern-pedagogues/platform-backend/pkg/metrics"
)

type stubTxRunner struct{}

func (s stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubUserRepository struct {
	data      map[string]*pkgmodels.User
	created   *pkgmodels.User
	createErr error
}

func newStubUserRepository() *stubUserRepository {
	return &stubUserRepository{data: map[string]*pkgmodels.User{}}
}

func (s *stubUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := s.data[email]
	return ok, nil
}

func (s *stubUserRepository) Create(ctx context.Context, dto users.CreateUserDTO) (*pkgmodels.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	user := &pkgmodels.User{
		ID:           uuid.New(),
		Email:        dto.Email,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		PasswordHash: dto.PasswordHash,
		Phone:        dto.Phone,
		Role:         dto.Role,
		Status:       dto.Status,
	}
	s.data[dto.Email] = user
	s.created = user
	return user, nil
}

type stubProfileRepository struct {
	students int
	teachers int
	parents  int
}

func (s *stubProfileRepository) CreateStudent(ctx context.Context, userID uuid.UUID) (*pkgmodels.StudentProfile, error) {
	s.students++
	return &pkgmodels.StudentProfile{
		ID:            uuid.New(),
		UserID:        userID,
		StudentNumber: "STU-TESTNUM234",
		GradeLevel:    "Not Set",
		Curriculum:    "GES",
	}, nil
}

func (s *stubProfileRepository) CreateTeacher(ctx context.Context, userID uuid.UUID) (*pkgmodels.TeacherProfile, error) {
	s.teachers++
	return &pkgmodels.TeacherProfile{ID: uuid.New(), UserID: userID}, nil
}

func (s *stubProfileRepository) CreateParent(ctx context.Context, userID uuid.UUID) (*pkgmodels.ParentProfile, error) {
	s.parents++
	return &pkgmodels.ParentProfile{ID: uuid.New(), UserID: userID}, nil
}

type stubRecorder struct {
	records []activity.Record
}

func (s *stubRecorder) Enqueue(rec activity.Record) bool {
	s.records = append(s.records, rec)
	return true
}

type registerTestSetup struct {
	service     RegisterService
	userRepo    *stubUserRepository
	profileRepo *stubProfileRepository
	recorder    *stubRecorder
}

func newRegisterTestSetup(t *testing.T) *registerTestSetup {
	t.Helper()
	userRepo := newStubUserRepository()
	profileRepo := &stubProfileRepository{}
	recorder := &stubRecorder{}
	svc, err := NewRegisterService(RegisterServiceParams{
		TxRunner: stubTxRunner{},
		UserRepoFactory: func(tx *gorm.DB) registerUserRepository {
			return userRepo
		},
		ProfileRepoFactory: func(tx *gorm.DB) registerProfileRepository {
			return profileRepo
		},
		Recorder:       recorder,
		Metrics:        metrics.NewAuthMetrics(nil),
		PasswordConfig: config.PasswordConfig{BcryptCost: 4},
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}
	return &registerTestSetup{
		service:     svc,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		recorder:    recorder,
	}
}

func sampleRegisterRequest(email, role string) RegisterRequest {
	return RegisterRequest{
		FirstName: "Kofi",
		LastName:  "Mensah",
		Email:     email,
		Password:  "Secret123!",
		Role:      role,
	}
}

func TestRegisterCreatesStudent(t *testing.T) {
	setup := newRegisterTestSetup(t)

	dto, err := setup.service.Register(context.Background(), sampleRegisterRequest("kofi@example.com", "STUDENT"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if dto.Role != enums.UserRoleStudent {
		t.Fatalf("unexpected role %s", dto.Role)
	}
	if dto.Status != enums.UserStatusActive {
		t.Fatalf("students should start ACTIVE, got %s", dto.Status)
	}
	if setup.profileRepo.students != 1 {
		t.Fatalf("expected one student profile, got %d", setup.profileRepo.students)
	}
	if dto.Student == nil || dto.Student.Curriculum != "GES" {
		t.Fatalf("student profile not returned: %+v", dto.Student)
	}
	if setup.userRepo.created.PasswordHash == "Secret123!" {
		t.Fatalf("password must be hashed before persistence")
	}
}

func TestRegisterTeacherStartsPending(t *testing.T) {
	setup := newRegisterTestSetup(t)

	dto, err := setup.service.Register(context.Background(), sampleRegisterRequest("teach@example.com", "TEACHER"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if dto.Status != enums.UserStatusPending {
		t.Fatalf("teachers should start PENDING, got %s", dto.Status)
	}
	if setup.profileRepo.teachers != 1 {
		t.Fatalf("expected one teacher profile, got %d", setup.profileRepo.teachers)
	}
	if dto.Teacher == nil || dto.Teacher.IsApproved {
		t.Fatalf("teacher profile should start unapproved: %+v", dto.Teacher)
	}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	setup := newRegisterTestSetup(t)

	dto, err := setup.service.Register(context.Background(), sampleRegisterRequest("  Ama.Boateng@Example.COM ", "PARENT"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if dto.Email != "ama.boateng@example.com" {
		t.Fatalf("email not normalized: %s", dto.Email)
	}
	if setup.profileRepo.parents != 1 {
		t.Fatalf("expected one parent profile, got %d", setup.profileRepo.parents)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	setup := newRegisterTestSetup(t)
	ctx := context.Background()

	if _, err := setup.service.Register(ctx, sampleRegisterRequest("dup@example.com", "STUDENT")); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := setup.service.Register(ctx, sampleRegisterRequest("dup@example.com", "STUDENT"))
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestRegisterMapsUniqueViolationToConflict(t *testing.T) {
	setup := newRegisterTestSetup(t)
	setup.userRepo.createErr = sqliteUniqueErr{}

	_, err := setup.service.Register(context.Background(), sampleRegisterRequest("race@example.com", "STUDENT"))
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestRegisterRejectsInvalidRole(t *testing.T) {
	setup := newRegisterTestSetup(t)

	_, err := setup.service.Register(context.Background(), sampleRegisterRequest("x@example.com", "WIZARD"))
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	setup := newRegisterTestSetup(t)

	_, err := setup.service.Register(context.Background(), sampleRegisterRequest("x@example.com", "ADMIN"))
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestRegisterAdminCreatesActiveAdminWithoutProfile(t *testing.T) {
	setup := newRegisterTestSetup(t)

	dto, err := setup.service.RegisterAdmin(context.Background(), sampleRegisterRequest("root@example.com", ""))
	if err != nil {
		t.Fatalf("register admin: %v", err)
	}

	if dto.Role != enums.UserRoleAdmin {
		t.Fatalf("unexpected role %s", dto.Role)
	}
	if dto.Status != enums.UserStatusActive {
		t.Fatalf("admins should start ACTIVE, got %s", dto.Status)
	}
	if setup.profileRepo.students+setup.profileRepo.teachers+setup.profileRepo.parents != 0 {
		t.Fatal("admins must not get role profiles")
	}
}

func TestRegisterRecordsActivity(t *testing.T) {
	setup := newRegisterTestSetup(t)

	_, err := setup.service.Register(context.Background(), sampleRegisterRequest("audit@example.com", "STUDENT"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if len(setup.recorder.records) != 1 {
		t.Fatalf("expected one audit record, got %d", len(setup.recorder.records))
	}
	rec := setup.recorder.records[0]
	if rec.Action != ActionUserRegistration {
		t.Fatalf("unexpected action %s", rec.Action)
	}
	if !strings.Contains(rec.Description, "New student registered: Kofi Mensah") {
		t.Fatalf("unexpected description %q", rec.Description)
	}
}

type failingProfileRepository struct{}

func (failingProfileRepository) CreateStudent(ctx context.Context, userID uuid.UUID) (*pkgmodels.StudentProfile, error) {
	return nil, errors.New("student profile insert failed")
}

func (failingProfileRepository) CreateTeacher(ctx context.Context, userID uuid.UUID) (*pkgmodels.TeacherProfile, error) {
	return nil, errors.New("teacher profile insert failed")
}

func (failingProfileRepository) CreateParent(ctx context.Context, userID uuid.UUID) (*pkgmodels.ParentProfile, error) {
	return nil, errors.New("parent profile insert failed")
}

// Runs the registration transaction against a real sqlite connection so the
// rollback path is exercised end to end: when the profile insert fails, the
// user row written earlier in the same transaction must not survive.
func TestRegisterRollsBackUserOnProfileFailure(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:register_rollback?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(`
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  phone TEXT,
  role TEXT NOT NULL,
  status TEXT NOT NULL,
  date_of_birth DATETIME,
  avatar_url TEXT,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`).Error)

	svc, err := NewRegisterService(RegisterServiceParams{
		TxRunner: dbpkg.FromConn(conn),
		ProfileRepoFactory: func(tx *gorm.DB) registerProfileRepository {
			return failingProfileRepository{}
		},
		Metrics:        metrics.NewAuthMetrics(nil),
		PasswordConfig: config.PasswordConfig{BcryptCost: 4},
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), sampleRegisterRequest("rollback@example.com", "STUDENT"))
	require.Error(t, err)

	var count int64
	require.NoError(t, conn.Model(&pkgmodels.User{}).Count(&count).Error)
	require.Zero(t, count, "user row must not survive a failed profile insert")
}

type sqliteUniqueErr struct{}

func (sqliteUniqueErr) Error() string {
	return "UNIQUE constraint failed: users.email"
}

func assertCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Code() != want {
		t.Fatalf("expected code %s, got %s", want, typed.Code())
	}
}
