package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskboard/taskboard-api/internal/core/domain"
	"github.com/taskboard/taskboard-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users  map[string]*domain.User // keyed by id
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[created.ID] = cloneUser(created)
	return cloneUser(created), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id, name, email string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Name = name
	u.Email = email
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *stubUserRepo) SetToken(_ context.Context, id, token string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Token = token
	return nil
}

type stubSessionStore struct {
	sessions map[string]string
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]string)}
}

func (s *stubSessionStore) Save(_ context.Context, userID, token string) error {
	s.sessions[userID] = token
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, userID string) (string, error) {
	token, ok := s.sessions[userID]
	if !ok {
		return "", domain.ErrSessionNotFound
	}
	return token, nil
}

func (s *stubSessionStore) Delete(_ context.Context, userID string) error {
	delete(s.sessions, userID)
	return nil
}

func newUserService(repo *stubUserRepo, sessions *stubSessionStore) (*UserService, *TokenService) {
	tokens := NewTokenService("secret", time.Hour)
	return NewUserService(repo, sessions, tokens, zerolog.Nop()), tokens
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestUserService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newUserService(repo, newStubSessionStore())

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "A", Email: "a@x.com", Password: "abcdef",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Email != "a@x.com" {
		t.Fatalf("unexpected email: %s", user.Email)
	}
	if user.PasswordHash == "abcdef" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("abcdef")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newUserService(repo, newStubSessionStore())

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "abcdef"}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	before := len(repo.users)
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Name: "B", Email: "a@x.com", Password: "ghijkl"}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if len(repo.users) != before {
		t.Fatalf("store gained a user on duplicate registration")
	}
}

func TestUserService_Register_Validation(t *testing.T) {
	svc, _ := newUserService(newStubUserRepo(), newStubSessionStore())

	cases := []ports.RegisterInput{
		{Name: "", Email: "a@x.com", Password: "abcdef"},
		{Name: "A", Email: "", Password: "abcdef"},
		{Name: "A", Email: "not-an-email", Password: "abcdef"},
		{Name: "A", Email: "a@x.com", Password: "short"},
	}
	for _, input := range cases {
		var ve *domain.ValidationError
		if _, err := svc.Register(context.Background(), input); !errors.As(err, &ve) {
			t.Fatalf("input %+v: expected ValidationError, got %v", input, err)
		}
	}
}

// ---------------------------------------------------------------------------
// Login / Logout
// ---------------------------------------------------------------------------

func TestUserService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	sessions := newStubSessionStore()
	svc, tokens := newUserService(repo, sessions)

	created, err := svc.Register(context.Background(), ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "abcdef"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	result, err := svc.Login(context.Background(), "a@x.com", "abcdef")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token, got empty")
	}

	userID, err := tokens.Verify(result.Token)
	if err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if userID != created.ID {
		t.Fatalf("token maps to %q, expected %q", userID, created.ID)
	}

	stored := repo.users[created.ID]
	if stored.Token != result.Token {
		t.Fatalf("token not persisted on user record")
	}
	if sessions.sessions[created.ID] != result.Token {
		t.Fatalf("token not saved in session store")
	}
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newUserService(repo, newStubSessionStore())

	created, _ := svc.Register(context.Background(), ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "abcdef"})

	if _, err := svc.Login(context.Background(), "a@x.com", "wrong!"); !errors.Is(err, domain.ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
	if repo.users[created.ID].Token != "" {
		t.Fatalf("token issued on failed login")
	}
}

func TestUserService_Login_UnknownEmail(t *testing.T) {
	svc, _ := newUserService(newStubUserRepo(), newStubSessionStore())

	if _, err := svc.Login(context.Background(), "ghost@x.com", "abcdef"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserService_Login_SecondLoginInvalidatesFirstToken(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newUserService(repo, newStubSessionStore())

	created, _ := svc.Register(context.Background(), ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "abcdef"})

	first, err := svc.Login(context.Background(), "a@x.com", "abcdef")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	// Guarantee a distinct iat so the tokens differ.
	time.Sleep(1100 * time.Millisecond)
	second, err := svc.Login(context.Background(), "a@x.com", "abcdef")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}

	if first.Token == second.Token {
		t.Fatalf("expected distinct tokens per login")
	}
	if repo.users[created.ID].Token != second.Token {
		t.Fatalf("stored token is not the latest login's token")
	}
}

func TestUserService_Logout(t *testing.T) {
	repo := newStubUserRepo()
	sessions := newStubSessionStore()
	svc, _ := newUserService(repo, sessions)

	created, _ := svc.Register(context.Background(), ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "abcdef"})
	result, err := svc.Login(context.Background(), "a@x.com", "abcdef")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.Logout(context.Background(), result.User); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if repo.users[created.ID].Token != "" {
		t.Fatalf("token not cleared on logout")
	}
	if _, ok := sessions.sessions[created.ID]; ok {
		t.Fatalf("session not deleted on logout")
	}
}

func TestUserService_Logout_NotLoggedIn(t *testing.T) {
	svc, _ := newUserService(newStubUserRepo(), newStubSessionStore())

	user := &domain.User{ID: "user-1", Token: ""}
	if err := svc.Logout(context.Background(), user); !errors.Is(err, domain.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Profile / password updates
// ---------------------------------------------------------------------------

func TestUserService_UpdateProfile(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newUserService(repo, newStubSessionStore())

	created, _ := svc.Register(context.Background(), ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "abcdef"})

	updated, err := svc.UpdateProfile(context.Background(), created, "B", "b@x.com")
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if updated.Name != "B" || updated.Email != "b@x.com" {
		t.Fatalf("unexpected update result: %+v", updated)
	}
}

func TestUserService_UpdateProfile_InvalidEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newUserService(repo, newStubSessionStore())

	created, _ := svc.Register(context.Background(), ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "abcdef"})

	var ve *domain.ValidationError
	if _, err := svc.UpdateProfile(context.Background(), created, "B", "nope"); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUserService_UpdatePassword(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newUserService(repo, newStubSessionStore())

	created, _ := svc.Register(context.Background(), ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "abcdef"})

	if err := svc.UpdatePassword(context.Background(), created, "abcdef", "ghijkl"); err != nil {
		t.Fatalf("update password failed: %v", err)
	}

	if _, err := svc.Login(context.Background(), "a@x.com", "ghijkl"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, err := svc.Login(context.Background(), "a@x.com", "abcdef"); !errors.Is(err, domain.ErrWrongPassword) {
		t.Fatalf("expected old password to fail, got %v", err)
	}
}

func TestUserService_UpdatePassword_WrongCurrent(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newUserService(repo, newStubSessionStore())

	created, _ := svc.Register(context.Background(), ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "abcdef"})

	if err := svc.UpdatePassword(context.Background(), created, "wrong!", "ghijkl"); !errors.Is(err, domain.ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
}
