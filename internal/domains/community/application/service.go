package application

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/streetsource/streetsource-api/internal/domains/community/domain"
	"github.com/streetsource/streetsource-api/internal/domains/community/ports"
	vendordomain "github.com/streetsource/streetsource-api/internal/domains/vendors/domain"
	vendorports "github.com/streetsource/streetsource-api/internal/domains/vendors/ports"
)

const defaultPageSize = 10

// Service handles the consumer side: vendor browsing, reviews, and ratings.
type Service struct {
	repo    ports.Repository
	vendors vendorports.Repository
	logger  *slog.Logger
}

func NewService(repo ports.Repository, vendors vendorports.Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, vendors: vendors, logger: logger}
}

// ListVendors filters and pages the vendor directory for consumers.
func (s *Service) ListVendors(ctx context.Context, filter ports.VendorFilter) (*ports.VendorPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageSize
	}

	all, err := s.vendors.List(ctx)
	if err != nil {
		return nil, err
	}
	var matched []*vendordomain.Vendor
	for _, vendor := range all {
		if !matchesFilter(vendor, filter) {
			continue
		}
		matched = append(matched, vendor)
	}

	total := len(matched)
	start := (filter.Page - 1) * filter.Limit
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return &ports.VendorPage{
		Vendors: matched[start:end],
		Total:   total,
		Page:    filter.Page,
		Pages:   int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (s *Service) AddFeedback(ctx context.Context, userID, vendorUserID int64, comment string) (*domain.Feedback, error) {
	if _, err := s.vendors.ByUserID(ctx, vendorUserID); err != nil {
		return nil, err
	}
	feedback, err := domain.NewFeedback(userID, vendorUserID, comment)
	if err != nil {
		return nil, err
	}
	stored, err := s.repo.SaveFeedback(ctx, feedback)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "feedback added",
		slog.Int64("user_id", userID), slog.Int64("vendor_user_id", vendorUserID))
	return stored, nil
}

func (s *Service) FeedbackForVendor(ctx context.Context, userID, vendorUserID int64) ([]*domain.Feedback, error) {
	return s.repo.FeedbackByUserAndVendor(ctx, userID, vendorUserID)
}

// RateVendor upserts the caller's score and folds the new average back onto
// the vendor profile.
func (s *Service) RateVendor(ctx context.Context, userID, vendorUserID int64, score int) (*domain.Rating, error) {
	if _, err := s.vendors.ByUserID(ctx, vendorUserID); err != nil {
		return nil, err
	}
	rating, err := domain.NewRating(userID, vendorUserID, score)
	if err != nil {
		return nil, err
	}
	stored, err := s.repo.UpsertRating(ctx, rating)
	if err != nil {
		return nil, err
	}

	all, err := s.repo.RatingsForVendor(ctx, vendorUserID)
	if err != nil {
		return nil, err
	}
	var sum float64
	for _, r := range all {
		sum += float64(r.Score)
	}
	average := 0.0
	if len(all) > 0 {
		// One decimal place, matching what clients display.
		average = math.Round(sum/float64(len(all))*10) / 10
	}
	if err := s.vendors.SetAverageRating(ctx, vendorUserID, average); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "vendor rated",
		slog.Int64("vendor_user_id", vendorUserID),
		slog.Int("score", score),
		slog.Float64("average", average))
	return stored, nil
}

func (s *Service) ProfileStats(ctx context.Context, userID int64) (*ports.ProfileStats, error) {
	feedbacks, ratings, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ports.ProfileStats{TotalReviews: feedbacks, TotalRatings: ratings}, nil
}

func matchesFilter(vendor *vendordomain.Vendor, filter ports.VendorFilter) bool {
	if filter.Cuisine != "" {
		found := false
		for _, cuisine := range vendor.CuisineTypes {
			if cuisine == filter.Cuisine {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.MinRating > 0 && vendor.AverageRating < filter.MinRating {
		return false
	}
	if filter.Location != "" {
		needle := strings.ToLower(filter.Location)
		found := false
		for _, loc := range vendor.OperatingLocations {
			if strings.Contains(strings.ToLower(loc.Name), needle) ||
				strings.Contains(strings.ToLower(loc.Address), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

var _ ports.Service = (*Service)(nil)
