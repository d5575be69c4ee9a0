package ports

import (
	"context"

	"github.com/streetsource/streetsource-api/internal/domains/accounts/domain"
)

// RegisterInput carries the signup payload.
type RegisterInput struct {
	Name  string
	Phone string
	PIN   string
	Role  domain.Role
}

// ProfileUpdate holds the optional profile fields a user may change.
type ProfileUpdate struct {
	Name  *string
	Phone *string
}

// Service exposes account use cases to adapters.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, phone, pin string) (*domain.User, string, error)
	Logout(ctx context.Context, userID int64) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*domain.User, error)
	ValidateToken(ctx context.Context, token string) (bool, error)
}
