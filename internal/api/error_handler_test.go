package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskboard/taskboard-api/internal/core/domain"
)

func render(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	e.HTTPErrorHandler(err, c)
	return rec
}

func failureEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (bool, string) {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"Error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body.Success, body.Error
}

func TestErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{domain.ErrEmailTaken, http.StatusConflict, "Email already registered"},
		{domain.ErrInvalidCredentials, http.StatusBadRequest, "Invalid credential"},
		{domain.ErrWrongPassword, http.StatusUnauthorized, "Incorrect Password"},
		{domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
		{domain.ErrTaskNotFound, http.StatusNotFound, "Task not found"},
		{domain.ErrNotLoggedIn, http.StatusBadRequest, "User is not logged in"},
		{domain.ErrInvalidToken, http.StatusUnauthorized, "Not authorized to access this route"},
	}

	for _, tc := range cases {
		rec := render(t, tc.err)
		if rec.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
		success, msg := failureEnvelope(t, rec)
		if success {
			t.Fatalf("%v: expected success:false", tc.err)
		}
		if msg != tc.msg {
			t.Fatalf("%v: expected Error %q, got %q", tc.err, tc.msg, msg)
		}
	}
}

func TestErrorHandler_WrongPasswordDistinctFromUnknownEmail(t *testing.T) {
	wrongPassword := render(t, domain.ErrWrongPassword)
	unknownEmail := render(t, domain.ErrInvalidCredentials)
	if wrongPassword.Code == unknownEmail.Code {
		t.Fatalf("wrong-password and unknown-email statuses must differ, both %d", wrongPassword.Code)
	}
}

func TestErrorHandler_ValidationError(t *testing.T) {
	rec := render(t, domain.NewValidationError("title is required"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if _, msg := failureEnvelope(t, rec); msg != "title is required" {
		t.Fatalf("unexpected Error: %q", msg)
	}
}

func TestErrorHandler_UnexpectedErrorIsOpaque(t *testing.T) {
	rec := render(t, errors.New("connection reset by mongo"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if _, msg := failureEnvelope(t, rec); msg != "internal server error" {
		t.Fatalf("internal detail leaked: %q", msg)
	}
}

func TestErrorHandler_UnmatchedRouteIsPlainText(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/no/such/route", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec.Body.String() != "not found" {
		t.Fatalf("expected plain-text body, got %q", rec.Body.String())
	}
}
