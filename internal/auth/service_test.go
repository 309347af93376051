package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/modern-pedagogues/platform-backend/pkg/auth"
	"github.com/modern-pedagogues/platform-backend/pkg/auth/session"
	"github.com/modern-pedagogues/platform-backend/pkg/config"
	pkgmodels "github.com/modern-pedagogues/platform-backend/pkg/db/models"
	"github.com/modern-pedagogues/platform-backend/pkg/enums"
	pkgerrors "github.com/modern-pedagogues/platform-backend/pkg/errors"
	"github.com/modern-pedagogues/platform-backend/pkg/metrics"
	"github.com/modern-pedagogues/platform-backend/pkg/security"
)

type stubLoginUserRepo struct {
	byEmail    map[string]*pkgmodels.User
	byID       map[uuid.UUID]*pkgmodels.User
	lastLogins map[uuid.UUID]time.Time
}

func newStubLoginUserRepo() *stubLoginUserRepo {
	return &stubLoginUserRepo{
		byEmail:    map[string]*pkgmodels.User{},
		byID:       map[uuid.UUID]*pkgmodels.User{},
		lastLogins: map[uuid.UUID]time.Time{},
	}
}

func (s *stubLoginUserRepo) add(user *pkgmodels.User) {
	s.byEmail[user.Email] = user
	s.byID[user.ID] = user
}

func (s *stubLoginUserRepo) FindByEmail(ctx context.Context, email string) (*pkgmodels.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubLoginUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*pkgmodels.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubLoginUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLogins[id] = at
	return nil
}

type stubSessionManager struct {
	sessions map[string]string
	revoked  []string
}

func newStubSessionManager() *stubSessionManager {
	return &stubSessionManager{sessions: map[string]string{}}
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	s.sessions[accessID] = token
	return token, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := s.sessions[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.sessions, oldAccessID)
	newID := session.NewAccessID()
	token := "refresh-" + newID
	s.sessions[newID] = token
	return newID, token, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	delete(s.sessions, accessID)
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testServiceJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "service-test-secret",
		Issuer:            "modern-pedagogues",
		ExpirationMinutes: 30,
	}
}

type serviceTestSetup struct {
	service  Service
	userRepo *stubLoginUserRepo
	sessions *stubSessionManager
	recorder *stubRecorder
}

func newServiceTestSetup(t *testing.T) *serviceTestSetup {
	t.Helper()
	userRepo := newStubLoginUserRepo()
	sessions := newStubSessionManager()
	recorder := &stubRecorder{}
	svc, err := NewService(ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessions,
		Recorder:       recorder,
		Metrics:        metrics.NewAuthMetrics(nil),
		JWTConfig:      testServiceJWTConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &serviceTestSetup{
		service:  svc,
		userRepo: userRepo,
		sessions: sessions,
		recorder: recorder,
	}
}

func seedUser(t *testing.T, repo *stubLoginUserRepo, email, password string, status enums.UserStatus) *pkgmodels.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{BcryptCost: 4})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &pkgmodels.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Ama",
		LastName:     "Boateng",
		Role:         enums.UserRoleStudent,
		Status:       status,
	}
	repo.add(user)
	return user
}

func TestLoginSuccess(t *testing.T) {
	setup := newServiceTestSetup(t)
	user := seedUser(t, setup.userRepo, "ama@example.com", "Secret123!", enums.UserStatusActive)

	resp, err := setup.service.Login(context.Background(), LoginRequest{
		Email:    "Ama@Example.com",
		Password: "Secret123!",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatalf("expected token pair")
	}
	if resp.User == nil || resp.User.ID != user.ID {
		t.Fatalf("expected sanitized user in response")
	}
	if _, ok := setup.userRepo.lastLogins[user.ID]; !ok {
		t.Fatalf("expected last login to be recorded")
	}

	claims, err := pkgAuth.ParseAccessToken(testServiceJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.Role != enums.UserRoleStudent || claims.Status != enums.UserStatusActive {
		t.Fatalf("claims missing role/status: %+v", claims)
	}
	if claims.FirstName != "Ama" {
		t.Fatalf("claims missing name: %+v", claims)
	}
	if _, ok := setup.sessions.sessions[claims.ID]; !ok {
		t.Fatalf("refresh session not stored under jti")
	}
}

func TestLoginRecordsActivity(t *testing.T) {
	setup := newServiceTestSetup(t)
	user := seedUser(t, setup.userRepo, "audit@example.com", "Secret123!", enums.UserStatusActive)

	if _, err := setup.service.Login(context.Background(), LoginRequest{
		Email:    "audit@example.com",
		Password: "Secret123!",
	}); err != nil {
		t.Fatalf("login: %v", err)
	}

	if len(setup.recorder.records) != 1 {
		t.Fatalf("expected one audit record, got %d", len(setup.recorder.records))
	}
	if setup.recorder.records[0].Action != ActionUserLogin {
		t.Fatalf("unexpected action %s", setup.recorder.records[0].Action)
	}
	if setup.recorder.records[0].UserID != user.ID {
		t.Fatalf("audit record for wrong user")
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	setup := newServiceTestSetup(t)
	seedUser(t, setup.userRepo, "known@example.com", "Secret123!", enums.UserStatusActive)
	seedUser(t, setup.userRepo, "pending@example.com", "Secret123!", enums.UserStatusPending)
	seedUser(t, setup.userRepo, "frozen@example.com", "Secret123!", enums.UserStatusSuspended)

	cases := []struct {
		name  string
		email string
		pass  string
	}{
		{"empty email", "", "Secret123!"},
		{"empty password", "known@example.com", ""},
		{"both empty", "", ""},
		{"unknown email", "nobody@example.com", "Secret123!"},
		{"wrong password", "known@example.com", "WrongPass1!"},
		{"pending account", "pending@example.com", "Secret123!"},
		{"suspended account", "frozen@example.com", "Secret123!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := setup.service.Login(context.Background(), LoginRequest{Email: tc.email, Password: tc.pass})
			assertCode(t, err, pkgerrors.CodeUnauthorized)
			typed := pkgerrors.As(err)
			if typed.Message() != invalidCredentialsMessage {
				t.Fatalf("expected uniform message, got %q", typed.Message())
			}
		})
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	setup := newServiceTestSetup(t)
	seedUser(t, setup.userRepo, "rotate@example.com", "Secret123!", enums.UserStatusActive)

	login, err := setup.service.Login(context.Background(), LoginRequest{
		Email:    "rotate@example.com",
		Password: "Secret123!",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := setup.service.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Fatalf("refresh token must rotate")
	}

	// The old pair is dead after rotation.
	_, err = setup.service.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestRefreshRejectsForgedToken(t *testing.T) {
	setup := newServiceTestSetup(t)
	seedUser(t, setup.userRepo, "forged@example.com", "Secret123!", enums.UserStatusActive)

	login, err := setup.service.Login(context.Background(), LoginRequest{
		Email:    "forged@example.com",
		Password: "Secret123!",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	_, err = setup.service.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: "forged-refresh-token",
	})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestRefreshRejectsSuspendedUser(t *testing.T) {
	setup := newServiceTestSetup(t)
	user := seedUser(t, setup.userRepo, "soon-frozen@example.com", "Secret123!", enums.UserStatusActive)

	login, err := setup.service.Login(context.Background(), LoginRequest{
		Email:    "soon-frozen@example.com",
		Password: "Secret123!",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	user.Status = enums.UserStatusSuspended
	_, err = setup.service.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLogoutRevokesSession(t *testing.T) {
	setup := newServiceTestSetup(t)
	seedUser(t, setup.userRepo, "bye@example.com", "Secret123!", enums.UserStatusActive)

	login, err := setup.service.Login(context.Background(), LoginRequest{
		Email:    "bye@example.com",
		Password: "Secret123!",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testServiceJWTConfig(), login.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if err := setup.service.Logout(context.Background(), claims.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(setup.sessions.revoked) != 1 || setup.sessions.revoked[0] != claims.ID {
		t.Fatalf("session not revoked: %+v", setup.sessions.revoked)
	}
}

func TestGetUserNotFound(t *testing.T) {
	setup := newServiceTestSetup(t)

	_, err := setup.service.GetUser(context.Background(), uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
}
