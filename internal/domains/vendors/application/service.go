package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/streetsource/streetsource-api/internal/domains/vendors/domain"
	"github.com/streetsource/streetsource-api/internal/domains/vendors/ports"
)

const recentTrackingLimit = 10

// Service orchestrates vendor profile and dashboard use cases.
type Service struct {
	repo  ports.Repository
	stats ports.StatsSource
}

func NewService(repo ports.Repository, stats ports.StatsSource) *Service {
	return &Service{repo: repo, stats: stats}
}

// UpsertProfile creates the profile on first touch and otherwise applies the
// allowed-field subset. The returned bool reports whether a new profile was
// created.
func (s *Service) UpsertProfile(ctx context.Context, userID int64, fallbackName string, update ports.ProfileUpdate) (*domain.Vendor, bool, error) {
	vendor, err := s.repo.ByUserID(ctx, userID)
	created := false
	switch {
	case err == nil:
	case errors.Is(err, ports.ErrVendorNotFound):
		vendor = domain.NewVendor(userID, fmt.Sprintf("%s's Business", fallbackName))
		created = true
	default:
		return nil, false, err
	}

	applyUpdate(vendor, update)
	if err := vendor.Validate(); err != nil {
		return nil, false, err
	}
	stored, err := s.repo.Upsert(ctx, vendor)
	if err != nil {
		return nil, false, err
	}
	return stored, created, nil
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (*domain.Vendor, error) {
	return s.repo.ByUserID(ctx, userID)
}

// Dashboard combines order counts from the order side with the most recent
// tracking entries.
func (s *Service) Dashboard(ctx context.Context, userID int64) (*ports.Dashboard, error) {
	if _, err := s.repo.ByUserID(ctx, userID); err != nil {
		return nil, err
	}
	stats, err := s.stats.StatsForVendor(ctx, userID)
	if err != nil {
		return nil, err
	}
	tracking, err := s.repo.Tracking(ctx, userID, recentTrackingLimit)
	if err != nil {
		return nil, err
	}
	return &ports.Dashboard{
		TotalOrders:    stats.Total,
		PendingOrders:  stats.Pending,
		RecentTracking: tracking,
	}, nil
}

func applyUpdate(vendor *domain.Vendor, update ports.ProfileUpdate) {
	if update.BusinessName != nil {
		vendor.BusinessName = *update.BusinessName
	}
	if update.BusinessType != nil {
		vendor.BusinessType = *update.BusinessType
	}
	if update.OperatingLocations != nil {
		vendor.OperatingLocations = update.OperatingLocations
	}
	if update.OperatingHours != nil {
		vendor.OperatingHours = update.OperatingHours
	}
	if update.DaysOfOperation != nil {
		vendor.DaysOfOperation = update.DaysOfOperation
	}
	if update.CuisineTypes != nil {
		vendor.CuisineTypes = update.CuisineTypes
	}
	if update.PaymentMethods != nil {
		vendor.PaymentMethods = update.PaymentMethods
	}
	if update.AverageDailyCustomers != nil {
		vendor.AverageDailyCustomers = *update.AverageDailyCustomers
	}
	if update.MonthlyRevenue != nil {
		vendor.MonthlyRevenue = *update.MonthlyRevenue
	}
	if update.PreferredDeliveryTime != nil {
		vendor.PreferredDeliveryTime = *update.PreferredDeliveryTime
	}
	if update.CanOrderSupply != nil {
		vendor.CanOrderSupply = *update.CanOrderSupply
	}
	if update.VerificationDocuments != nil {
		vendor.VerificationDocuments = update.VerificationDocuments
	}
}

var _ ports.Service = (*Service)(nil)
