package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streetsource/streetsource-api/internal/domains/community/adapters/memory"
	"github.com/streetsource/streetsource-api/internal/domains/community/domain"
	"github.com/streetsource/streetsource-api/internal/domains/community/ports"
	vendormemory "github.com/streetsource/streetsource-api/internal/domains/vendors/adapters/memory"
	vendordomain "github.com/streetsource/streetsource-api/internal/domains/vendors/domain"
	vendorports "github.com/streetsource/streetsource-api/internal/domains/vendors/ports"
)

func newCommunityFixture(t *testing.T) (*Service, *vendormemory.Repository) {
	t.Helper()
	ctx := context.Background()

	vendors := vendormemory.NewRepository()
	for i, name := range []string{"Ravi Chaat Corner", "Anna Dosa Cart", "Meena Juice Stall"} {
		vendor := vendordomain.NewVendor(int64(i+1), name)
		vendor.CuisineTypes = []string{"street_food"}
		if i == 1 {
			vendor.CuisineTypes = []string{"south_indian"}
		}
		vendor.OperatingLocations = []vendordomain.OperatingLocation{
			{Name: "FC Road", Address: "FC Road, Pune", Primary: true},
		}
		_, err := vendors.Upsert(ctx, vendor)
		require.NoError(t, err)
	}
	return NewService(memory.NewRepository(), vendors, nil), vendors
}

func TestRateVendor_UpsertsAndRecomputesAverage(t *testing.T) {
	svc, vendors := newCommunityFixture(t)
	ctx := context.Background()

	_, err := svc.RateVendor(ctx, 10, 1, 4)
	require.NoError(t, err)
	_, err = svc.RateVendor(ctx, 11, 1, 5)
	require.NoError(t, err)

	vendor, err := vendors.ByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 4.5, vendor.AverageRating)

	// Re-rating replaces the prior score instead of adding a row.
	_, err = svc.RateVendor(ctx, 10, 1, 2)
	require.NoError(t, err)

	vendor, err = vendors.ByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3.5, vendor.AverageRating)

	stats, err := svc.ProfileStats(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalRatings)
}

func TestRateVendor_Validation(t *testing.T) {
	svc, _ := newCommunityFixture(t)
	ctx := context.Background()

	_, err := svc.RateVendor(ctx, 10, 1, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidRating)

	_, err = svc.RateVendor(ctx, 10, 1, 6)
	assert.ErrorIs(t, err, domain.ErrInvalidRating)

	_, err = svc.RateVendor(ctx, 10, 999, 3)
	assert.ErrorIs(t, err, vendorports.ErrVendorNotFound)
}

func TestAddFeedback_AndLookup(t *testing.T) {
	svc, _ := newCommunityFixture(t)
	ctx := context.Background()

	_, err := svc.AddFeedback(ctx, 10, 1, "  ")
	assert.ErrorIs(t, err, domain.ErrMissingFeedback)

	feedback, err := svc.AddFeedback(ctx, 10, 1, "best vada pav in town")
	require.NoError(t, err)
	assert.NotZero(t, feedback.ID)

	mine, err := svc.FeedbackForVendor(ctx, 10, 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "best vada pav in town", mine[0].Comment)

	others, err := svc.FeedbackForVendor(ctx, 11, 1)
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestListVendors_Filters(t *testing.T) {
	svc, _ := newCommunityFixture(t)
	ctx := context.Background()

	page, err := svc.ListVendors(ctx, ports.VendorFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)

	page, err = svc.ListVendors(ctx, ports.VendorFilter{Cuisine: "south_indian"})
	require.NoError(t, err)
	require.Len(t, page.Vendors, 1)
	assert.Equal(t, "Anna Dosa Cart", page.Vendors[0].BusinessName)

	_, err = svc.RateVendor(ctx, 10, 1, 5)
	require.NoError(t, err)
	page, err = svc.ListVendors(ctx, ports.VendorFilter{MinRating: 4})
	require.NoError(t, err)
	require.Len(t, page.Vendors, 1)
	assert.Equal(t, "Ravi Chaat Corner", page.Vendors[0].BusinessName)

	page, err = svc.ListVendors(ctx, ports.VendorFilter{Location: "fc road"})
	require.NoError(t, err)
	assert.Len(t, page.Vendors, 3)
}

func TestListVendors_Pagination(t *testing.T) {
	svc, _ := newCommunityFixture(t)

	page, err := svc.ListVendors(context.Background(), ports.VendorFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.Pages)
	assert.Len(t, page.Vendors, 1)
}
