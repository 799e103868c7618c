package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"testing"

	"github.com/sakif/catalog-service/internal/apperror"
	"github.com/sakif/catalog-service/internal/auth"
	"github.com/sakif/catalog-service/internal/model"
	"github.com/sakif/catalog-service/internal/repository"
)

const testSecret = "service-test-secret"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockUserRepo keeps users in a map keyed by email and assigns sequential
// IDs on create.
type mockUserRepo struct {
	byEmail map[string]*model.User
	nextID  int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byEmail: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.nextID++
	user.ID = "user-" + strconv.Itoa(m.nextID)
	m.byEmail[user.Email] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	for _, user := range m.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return user, nil
}

var _ repository.UserRepository = (*mockUserRepo)(nil)

func newTestUserService(t *testing.T) (*UserService, *mockUserRepo) {
	t.Helper()
	tokens, err := auth.NewTokenService(testSecret)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	repo := newMockUserRepo()
	return NewUserService(repo, tokens, auth.NewPasswordServiceForTest(16), testLogger()), repo
}

func assertServiceCode(t *testing.T, err error, code int) {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error is not an AppError: %v", err)
	}
	if appErr.Code != code {
		t.Errorf("Code = %d, want %d", appErr.Code, code)
	}
}

func TestUserService_Signup(t *testing.T) {
	svc, repo := newTestUserService(t)
	ctx := context.Background()

	token, err := svc.Signup(ctx, "a@gmail.com", "Abc123")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if token == "" {
		t.Error("Signup() returned an empty token")
	}

	user := repo.byEmail["a@gmail.com"]
	if user == nil {
		t.Fatal("user was not persisted")
	}
	if user.HashedPassword == "" || user.Salt == "" {
		t.Error("stored user is missing credential material")
	}
	if user.HashedPassword == "Abc123" {
		t.Error("password stored in plaintext")
	}
}

func TestUserService_Signup_DuplicateEmail(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "a@gmail.com", "Abc123"); err != nil {
		t.Fatalf("first Signup() error = %v", err)
	}

	_, err := svc.Signup(ctx, "a@gmail.com", "Other999x")
	assertServiceCode(t, err, apperror.CodeEmailAlreadyExists)
}

func TestUserService_Authenticate(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "a@gmail.com", "Abc123"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	token, err := svc.Authenticate(ctx, "a@gmail.com", "Abc123")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if token == "" {
		t.Error("Authenticate() returned an empty token")
	}
}

func TestUserService_Authenticate_WrongPassword(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "a@gmail.com", "Abc123"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	_, err := svc.Authenticate(ctx, "a@gmail.com", "Wrong123")
	assertServiceCode(t, err, apperror.CodeInvalidEmailOrPassword)
}

func TestUserService_Authenticate_UnknownEmail(t *testing.T) {
	svc, _ := newTestUserService(t)

	// Same error as a wrong password, so a caller cannot tell whether the
	// account exists.
	_, err := svc.Authenticate(context.Background(), "nobody@gmail.com", "Abc123")
	assertServiceCode(t, err, apperror.CodeInvalidEmailOrPassword)
}
