package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/streetsource/streetsource-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/streetsource/streetsource-api/internal/domains/catalog/application"
	catalogdomain "github.com/streetsource/streetsource-api/internal/domains/catalog/domain"
	catalogports "github.com/streetsource/streetsource-api/internal/domains/catalog/ports"
	"github.com/streetsource/streetsource-api/internal/domains/orders/adapters/gateways"
	ordermemory "github.com/streetsource/streetsource-api/internal/domains/orders/adapters/memory"
	"github.com/streetsource/streetsource-api/internal/domains/orders/domain"
	"github.com/streetsource/streetsource-api/internal/domains/orders/ports"
	vendormemory "github.com/streetsource/streetsource-api/internal/domains/vendors/adapters/memory"
	vendordomain "github.com/streetsource/streetsource-api/internal/domains/vendors/domain"
)

const (
	vendorUserID   = int64(100)
	supplierUserID = int64(200)
)

type fixture struct {
	svc     *Service
	catalog *catalogapp.Service
	vendors *vendormemory.Repository
	itemID  int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	catalogRepo := catalogmemory.NewRepository()
	catalogSvc := catalogapp.NewService(catalogRepo)
	vendorRepo := vendormemory.NewRepository()
	orderRepo := ordermemory.NewRepository(catalogRepo, vendorRepo)

	_, err := catalogSvc.UpsertProfile(ctx, &catalogdomain.Supplier{
		UserID:           supplierUserID,
		CompanyName:      "Patil Wholesale",
		BusinessAddress:  "Market Yard, Pune",
		GSTNumber:        "27AAPFU0939F1ZV",
		PANNumber:        "AAPFU0939F",
		BusinessType:     "wholesaler",
		RegistrationDate: time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC),
		DeliveryRadius:   catalogdomain.DeliveryRadius{RadiusKm: 10},
	})
	require.NoError(t, err)

	item, err := catalogdomain.NewInventoryItem(supplierUserID, "Potatoes", 10, catalogdomain.UnitKg, 50)
	require.NoError(t, err)
	added, err := catalogSvc.AddItem(ctx, item)
	require.NoError(t, err)

	vendor := vendordomain.NewVendor(vendorUserID, "Ravi's Business")
	_, err = vendorRepo.Upsert(ctx, vendor)
	require.NoError(t, err)

	svc := NewService(
		orderRepo,
		gateways.NewCatalogStockSource(catalogSvc),
		gateways.NewPartyDirectory(vendorRepo, catalogSvc),
		nil,
	)
	return &fixture{svc: svc, catalog: catalogSvc, vendors: vendorRepo, itemID: added.ID}
}

func (f *fixture) createInput(qty float64) ports.CreateOrderInput {
	return ports.CreateOrderInput{
		VendorUserID:   vendorUserID,
		SupplierUserID: supplierUserID,
		Items:          []ports.LineRequest{{ItemID: f.itemID, Quantity: qty}},
		DeliveryLocation: domain.DeliveryLocation{
			Lat: 18.52, Lng: 73.85, Address: "FC Road, Pune",
		},
		PaymentMethod: "upi",
	}
}

func (f *fixture) stock(t *testing.T) float64 {
	t.Helper()
	item, err := f.catalog.ItemByID(context.Background(), f.itemID)
	require.NoError(t, err)
	return item.Quantity
}

func TestCreate_SnapshotsPricesAndDecrementsStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.createInput(2))
	require.NoError(t, err)

	assert.Equal(t, 100.0, order.TotalAmount)
	assert.Equal(t, domain.StatusPending, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 50.0, order.Items[0].PriceAtOrder)
	assert.Equal(t, "Potatoes", order.Items[0].Name)
	assert.Equal(t, 8.0, f.stock(t))
}

func TestCreate_TotalImmutableUnderLaterPriceChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.createInput(2))
	require.NoError(t, err)

	newPrice := 90.0
	_, err = f.catalog.UpdateItem(ctx, supplierUserID, catalogports.ItemUpdate{ItemID: f.itemID, Price: &newPrice})
	require.NoError(t, err)

	reloaded, err := f.svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, reloaded.Order.TotalAmount)
	assert.Equal(t, 50.0, reloaded.Order.Items[0].PriceAtOrder)
}

func TestCreate_InsufficientStockLeavesInventoryUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.createInput(2))
	require.NoError(t, err)
	require.Equal(t, 8.0, f.stock(t))

	_, err = f.svc.Create(ctx, f.createInput(11))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 8.0, f.stock(t))
}

func TestCreate_UnknownItemNamesIt(t *testing.T) {
	f := newFixture(t)

	input := f.createInput(1)
	input.Items[0].ItemID = 9999
	_, err := f.svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
	assert.Contains(t, err.Error(), "9999")
}

func TestCreate_ValidatesInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	input := f.createInput(2)
	input.PaymentMethod = ""
	_, err := f.svc.Create(ctx, input)
	assert.ErrorIs(t, err, domain.ErrMissingFields)

	input = f.createInput(0.5)
	_, err = f.svc.Create(ctx, input)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestCreate_VendorMustBeAuthorized(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	vendor, err := f.vendors.ByUserID(ctx, vendorUserID)
	require.NoError(t, err)
	vendor.CanOrderSupply = false
	_, err = f.vendors.Upsert(ctx, vendor)
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, f.createInput(1))
	assert.ErrorIs(t, err, domain.ErrVendorNotAuthorized)
	assert.Equal(t, 10.0, f.stock(t))
}

func TestCancel_RestoresOriginalQuantities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.createInput(2))
	require.NoError(t, err)
	require.Equal(t, 8.0, f.stock(t))

	cancelled, err := f.svc.Cancel(ctx, order.ID, vendorUserID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	assert.Equal(t, 10.0, f.stock(t))

	tracking, err := f.vendors.Tracking(ctx, vendorUserID, 0)
	require.NoError(t, err)
	require.Len(t, tracking, 1)
	assert.Equal(t, string(domain.StatusCancelled), tracking[0].Status)
}

func TestCancel_RejectedOutsidePendingAccepted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.createInput(2))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, ports.StatusUpdate{OrderID: order.ID, Status: domain.StatusShipped})
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, order.ID, vendorUserID)
	assert.ErrorIs(t, err, domain.ErrCannotCancel)
	assert.Equal(t, 8.0, f.stock(t))
}

func TestUpdateStatus_TracksAndStampsDelivery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.createInput(1))
	require.NoError(t, err)

	eta := time.Now().Add(4 * time.Hour)
	updated, err := f.svc.UpdateStatus(ctx, ports.StatusUpdate{
		OrderID: order.ID, Status: domain.StatusAccepted, EstimatedDelivery: &eta,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, updated.Status)

	delivered, err := f.svc.UpdateStatus(ctx, ports.StatusUpdate{OrderID: order.ID, Status: domain.StatusDelivered})
	require.NoError(t, err)
	require.NotNil(t, delivered.ActualDelivery)
}

func TestUpdateStatus_TerminalStatesAreFinal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.createInput(1))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, ports.StatusUpdate{OrderID: order.ID, Status: domain.StatusDelivered})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, ports.StatusUpdate{OrderID: order.ID, Status: domain.StatusPending})
	assert.ErrorIs(t, err, domain.ErrTerminalState)
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.UpdateStatus(context.Background(), ports.StatusUpdate{OrderID: 1, Status: domain.Status("archived")})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestGet_ResolvesBusinessNames(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.createInput(1))
	require.NoError(t, err)

	view, err := f.svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ravi's Business", view.VendorName)
	assert.Equal(t, "Patil Wholesale", view.SupplierName)
}

func TestListForVendor_FiltersAndPaginates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.svc.Create(ctx, f.createInput(1))
		require.NoError(t, err)
	}
	order, err := f.svc.Create(ctx, f.createInput(1))
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, ports.StatusUpdate{OrderID: order.ID, Status: domain.StatusAccepted})
	require.NoError(t, err)

	page, err := f.svc.ListForVendor(ctx, vendorUserID, ports.ListFilter{Page: ports.Page{Number: 1, Size: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 2, page.Pages)
	assert.Len(t, page.Orders, 2)

	pending := domain.StatusPending
	filtered, err := f.svc.ListForVendor(ctx, vendorUserID, ports.ListFilter{
		Status: &pending, Page: ports.Page{Number: 1, Size: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), filtered.Total)
}

func TestStatsForVendor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := f.svc.Create(ctx, f.createInput(1))
		require.NoError(t, err)
	}
	order, err := f.svc.Create(ctx, f.createInput(1))
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, ports.StatusUpdate{OrderID: order.ID, Status: domain.StatusDelivered})
	require.NoError(t, err)

	stats, err := f.svc.StatsForVendor(ctx, vendorUserID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Pending)
}
