package ports

import (
	"context"

	"github.com/taskboard/taskboard-api/internal/core/domain"
)

// RegisterInput carries a registration request after transport validation.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	UpdateProfile(ctx context.Context, user *domain.User, name, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, user *domain.User, current, next string) error
	Logout(ctx context.Context, user *domain.User) error
	List(ctx context.Context) ([]*domain.User, error)
}
