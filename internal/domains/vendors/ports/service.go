package ports

import (
	"context"

	"github.com/streetsource/streetsource-api/internal/domains/vendors/domain"
)

// ProfileUpdate carries the allowed-field subset of a vendor profile edit.
// Nil fields are left untouched.
type ProfileUpdate struct {
	BusinessName          *string
	BusinessType          *domain.BusinessType
	OperatingLocations    []domain.OperatingLocation
	OperatingHours        *domain.OperatingHours
	DaysOfOperation       []string
	CuisineTypes          []string
	PaymentMethods        []string
	AverageDailyCustomers *int
	MonthlyRevenue        *float64
	PreferredDeliveryTime *string
	CanOrderSupply        *bool
	VerificationDocuments []string
}

// Dashboard aggregates the vendor-facing stats panel.
type Dashboard struct {
	TotalOrders    int
	PendingOrders  int
	RecentTracking []domain.TrackingEntry
}

// OrderStats is supplied by the order side when building the dashboard.
type OrderStats struct {
	Total   int
	Pending int
}

// StatsSource answers order counts for a vendor. Implemented by the orders
// context so the dashboard never reaches into another domain's tables.
type StatsSource interface {
	StatsForVendor(ctx context.Context, vendorUserID int64) (OrderStats, error)
}

type Service interface {
	UpsertProfile(ctx context.Context, userID int64, fallbackName string, update ProfileUpdate) (*domain.Vendor, bool, error)
	GetProfile(ctx context.Context, userID int64) (*domain.Vendor, error)
	Dashboard(ctx context.Context, userID int64) (*Dashboard, error)
}
