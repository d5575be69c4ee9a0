package ports

import (
	"context"

	"github.com/streetsource/streetsource-api/internal/domains/community/domain"
	vendordomain "github.com/streetsource/streetsource-api/internal/domains/vendors/domain"
)

type Repository interface {
	SaveFeedback(ctx context.Context, feedback *domain.Feedback) (*domain.Feedback, error)
	FeedbackByUserAndVendor(ctx context.Context, userID, vendorUserID int64) ([]*domain.Feedback, error)
	// UpsertRating keeps one row per (user, vendor) pair.
	UpsertRating(ctx context.Context, rating *domain.Rating) (*domain.Rating, error)
	RatingsForVendor(ctx context.Context, vendorUserID int64) ([]*domain.Rating, error)
	CountByUser(ctx context.Context, userID int64) (feedbacks, ratings int64, err error)
}

// VendorFilter narrows the consumer-facing vendor browse.
type VendorFilter struct {
	Cuisine   string
	MinRating float64
	Location  string
	Page      int
	Limit     int
}

// VendorPage is a browse result with pagination bookkeeping.
type VendorPage struct {
	Vendors []*vendordomain.Vendor
	Total   int
	Page    int
	Pages   int
}

// ProfileStats decorates a consumer profile with activity counts.
type ProfileStats struct {
	TotalReviews int64
	TotalRatings int64
}

type Service interface {
	ListVendors(ctx context.Context, filter VendorFilter) (*VendorPage, error)
	AddFeedback(ctx context.Context, userID, vendorUserID int64, comment string) (*domain.Feedback, error)
	// FeedbackForVendor reports whether (and what) the caller already
	// wrote about a vendor.
	FeedbackForVendor(ctx context.Context, userID, vendorUserID int64) ([]*domain.Feedback, error)
	// RateVendor upserts the caller's score and recomputes the vendor's
	// average rating.
	RateVendor(ctx context.Context, userID, vendorUserID int64, score int) (*domain.Rating, error)
	ProfileStats(ctx context.Context, userID int64) (*ProfileStats, error)
}
