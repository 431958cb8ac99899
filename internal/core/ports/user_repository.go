package ports

import (
	"context"

	"github.com/taskboard/taskboard-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// UpdateProfile overwrites name and email on the identified user.
	UpdateProfile(ctx context.Context, id, name, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// SetToken persists the user's current session token. An empty token
	// clears it, marking the user logged out.
	SetToken(ctx context.Context, id, token string) error
}
