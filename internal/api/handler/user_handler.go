package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskboard/taskboard-api/internal/api/metrics"
	"github.com/taskboard/taskboard-api/internal/core/domain"
	"github.com/taskboard/taskboard-api/internal/core/ports"
)

// UserHandler handles HTTP requests for account operations.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// --- Request types ---

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// Register creates a new account.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Router       /user [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.service.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, OK(user, "User registered successfully"))
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Router       /user/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginOutcome(err)).Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, OK(result, "Login successful"))
}

func loginOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrWrongPassword):
		return "wrong_password"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credential"
	default:
		return "error"
	}
}

// UpdateProfile overwrites the caller's name and email.
//
// @Summary      Update profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Profile fields"
// @Success      200   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Router       /user [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	updated, err := h.service.UpdateProfile(c.Request().Context(), user, req.Name, req.Email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, OK(updated, "Profile updated successfully"))
}

// UpdatePassword changes the caller's password after checking the current one.
//
// @Summary      Update password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updatePasswordRequest  true  "Password change"
// @Success      200   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Router       /user/updatePassword [put]
func (h *UserHandler) UpdatePassword(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.service.UpdatePassword(c.Request().Context(), user, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, OK(nil, "Password updated successfully"))
}

// Logout clears the caller's session token.
//
// @Summary      Logout
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope
// @Failure      401  {object}  Envelope
// @Router       /user/logout [delete]
func (h *UserHandler) Logout(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Logout(c.Request().Context(), user); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, OK(nil, "Logged out successfully"))
}

// List returns all registered users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {object}  Envelope
// @Router       /user [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, OK(users, "Users fetched successfully"))
}
