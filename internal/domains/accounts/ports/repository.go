package ports

import (
	"context"
	"errors"

	"github.com/streetsource/streetsource-api/internal/domains/accounts/domain"
)

var ErrNotFound = errors.New("user not found")
var ErrPhoneTaken = errors.New("phone number already registered")
var ErrInvalidCredentials = errors.New("phone or pin is incorrect")

type Repository interface {
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
}
