package ports

import (
	"context"
	"errors"

	"github.com/streetsource/streetsource-api/internal/domains/vendors/domain"
)

var ErrVendorNotFound = errors.New("vendor profile not found")

type Repository interface {
	Upsert(ctx context.Context, vendor *domain.Vendor) (*domain.Vendor, error)
	ByUserID(ctx context.Context, userID int64) (*domain.Vendor, error)
	ByID(ctx context.Context, id int64) (*domain.Vendor, error)
	List(ctx context.Context) ([]*domain.Vendor, error)
	SetAverageRating(ctx context.Context, userID int64, rating float64) error
	Tracking(ctx context.Context, userID int64, limit int) ([]domain.TrackingEntry, error)
}
