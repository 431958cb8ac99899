package service

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskboard/taskboard-api/internal/core/domain"
	"github.com/taskboard/taskboard-api/internal/core/ports"
)

const minPasswordLength = 6

// UserService implements registration, login, profile management and logout.
type UserService struct {
	repo     ports.UserRepository
	sessions ports.SessionStore
	tokens   ports.TokenService
	logger   zerolog.Logger
}

func NewUserService(repo ports.UserRepository, sessions ports.SessionStore, tokens ports.TokenService, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, sessions: sessions, tokens: tokens, logger: logger}
}

func (s *UserService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.Name == "" {
		return nil, domain.NewValidationError("name is required")
	}
	if err := validateEmail(input.Email); err != nil {
		return nil, err
	}
	if len(input.Password) < minPasswordLength {
		return nil, domain.NewValidationError("password must be at least 6 characters")
	}

	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := domain.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("user registered")
	return created, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.NewValidationError("email and password are required")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, domain.ErrWrongPassword
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	// The stored token is the single accepted session; a second login
	// invalidates the first client's token.
	if err := s.repo.SetToken(ctx, user.ID, token); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, user.ID, token); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("session cache write failed")
	}
	user.Token = token

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")

	return &ports.LoginResult{Token: token, User: user}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, user *domain.User, name, email string) (*domain.User, error) {
	if name == "" {
		return nil, domain.NewValidationError("name is required")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateProfile(ctx, user.ID, name, email)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("profile updated")
	return updated, nil
}

func (s *UserService) UpdatePassword(ctx context.Context, user *domain.User, current, next string) error {
	if current == "" || next == "" {
		return domain.NewValidationError("current and new passwords are required")
	}
	if !user.CheckPassword(current) {
		return domain.ErrWrongPassword
	}
	if len(next) < minPasswordLength {
		return domain.NewValidationError("password must be at least 6 characters")
	}

	hash, err := domain.HashPassword(next)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("password updated")
	return nil
}

func (s *UserService) Logout(ctx context.Context, user *domain.User) error {
	if !user.LoggedIn() {
		return domain.ErrNotLoggedIn
	}

	if err := s.repo.SetToken(ctx, user.ID, ""); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("session cache delete failed")
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user logged out")
	return nil
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func validateEmail(email string) error {
	if email == "" {
		return domain.NewValidationError("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.NewValidationError("email must be a valid address")
	}
	return nil
}
