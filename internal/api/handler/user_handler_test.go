package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/taskboard/taskboard-api/internal/api/middleware"
	"github.com/taskboard/taskboard-api/internal/core/domain"
	"github.com/taskboard/taskboard-api/internal/core/ports"
)

type stubUserService struct {
	user      *domain.User
	login     *ports.LoginResult
	err       error
	loggedOut bool
	newName   string
	newEmail  string
}

func (s *stubUserService) Register(_ context.Context, _ ports.RegisterInput) (*domain.User, error) {
	return s.user, s.err
}

func (s *stubUserService) Login(_ context.Context, _, _ string) (*ports.LoginResult, error) {
	return s.login, s.err
}

func (s *stubUserService) UpdateProfile(_ context.Context, _ *domain.User, name, email string) (*domain.User, error) {
	s.newName, s.newEmail = name, email
	return s.user, s.err
}

func (s *stubUserService) UpdatePassword(_ context.Context, _ *domain.User, _, _ string) error {
	return s.err
}

func (s *stubUserService) Logout(_ context.Context, _ *domain.User) error {
	s.loggedOut = true
	return s.err
}

func (s *stubUserService) List(_ context.Context) ([]*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*domain.User{s.user}, nil
}

func newUserContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestUserHandler_Register_Success(t *testing.T) {
	user := &domain.User{ID: "user-1", Name: "A", Email: "a@x.com"}
	h := NewUserHandler(&stubUserService{user: user})

	c, rec := newUserContext(t, http.MethodPost, "/user", `{"name":"A","email":"a@x.com","password":"abcdef"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	body := decodeEnvelope(t, rec)
	if body["success"] != true {
		t.Fatalf("expected success:true, got %v", body["success"])
	}
	data, _ := body["data"].(map[string]any)
	if data["email"] != "a@x.com" {
		t.Fatalf("expected data.email a@x.com, got %v", data["email"])
	}
	if _, leaked := data["password_hash"]; leaked {
		t.Fatalf("password hash leaked in response")
	}
}

func TestUserHandler_Register_ShortPassword(t *testing.T) {
	h := NewUserHandler(&stubUserService{})

	c, _ := newUserContext(t, http.MethodPost, "/user", `{"name":"A","email":"a@x.com","password":"abc"}`)
	err := h.Register(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestUserHandler_Login_Success(t *testing.T) {
	user := &domain.User{ID: "user-1", Email: "a@x.com"}
	h := NewUserHandler(&stubUserService{login: &ports.LoginResult{Token: "tok", User: user}})

	c, rec := newUserContext(t, http.MethodPost, "/user/login", `{"email":"a@x.com","password":"abcdef"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	body := decodeEnvelope(t, rec)
	data, _ := body["data"].(map[string]any)
	if data["token"] != "tok" {
		t.Fatalf("expected token in data, got %v", data)
	}
}

func TestUserHandler_Logout_UsesGateIdentity(t *testing.T) {
	svc := &stubUserService{}
	h := NewUserHandler(svc)

	c, rec := newUserContext(t, http.MethodDelete, "/user/logout", "")
	c.Set(middleware.ContextKeyUser, &domain.User{ID: "user-1", Token: "tok"})

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !svc.loggedOut {
		t.Fatalf("service logout not invoked")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Logout_WithoutIdentity(t *testing.T) {
	h := NewUserHandler(&stubUserService{})

	c, _ := newUserContext(t, http.MethodDelete, "/user/logout", "")
	err := h.Logout(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestUserHandler_UpdateProfile(t *testing.T) {
	svc := &stubUserService{user: &domain.User{ID: "user-1", Name: "B", Email: "b@x.com"}}
	h := NewUserHandler(svc)

	c, rec := newUserContext(t, http.MethodPut, "/user", `{"name":"B","email":"b@x.com"}`)
	c.Set(middleware.ContextKeyUser, &domain.User{ID: "user-1"})

	if err := h.UpdateProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.newName != "B" || svc.newEmail != "b@x.com" {
		t.Fatalf("service received (%q, %q)", svc.newName, svc.newEmail)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
