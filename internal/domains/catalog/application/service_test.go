package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streetsource/streetsource-api/internal/domains/catalog/adapters/memory"
	"github.com/streetsource/streetsource-api/internal/domains/catalog/domain"
	"github.com/streetsource/streetsource-api/internal/domains/catalog/ports"
)

func newTestService(t *testing.T) (*Service, *memory.Repository) {
	t.Helper()
	repo := memory.NewRepository()
	return NewService(repo), repo
}

func validSupplier(userID int64) *domain.Supplier {
	return &domain.Supplier{
		UserID:           userID,
		CompanyName:      "Sharma Fresh Produce",
		BusinessAddress:  "14 Mandi Road, Pune",
		GSTNumber:        "27AAPFU0939F1ZV",
		PANNumber:        "AAPFU0939F",
		BusinessType:     "wholesaler",
		RegistrationDate: time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
		DeliveryRadius:   domain.DeliveryRadius{RadiusKm: 5, Lat: 18.52, Lng: 73.85},
	}
}

func TestUpsertProfile_CreateThenUpdate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.UpsertProfile(ctx, validSupplier(7))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	edited := validSupplier(7)
	edited.CompanyName = "Sharma Fresh Produce Pvt Ltd"
	updated, err := svc.UpsertProfile(ctx, edited)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Sharma Fresh Produce Pvt Ltd", updated.CompanyName)
}

func TestUpsertProfile_RejectsIncomplete(t *testing.T) {
	svc, _ := newTestService(t)

	incomplete := validSupplier(7)
	incomplete.GSTNumber = "  "
	_, err := svc.UpsertProfile(context.Background(), incomplete)
	assert.ErrorIs(t, err, domain.ErrMissingProfileFields)

	tooSmall := validSupplier(7)
	tooSmall.DeliveryRadius.RadiusKm = 0.5
	_, err = svc.UpsertProfile(context.Background(), tooSmall)
	assert.ErrorIs(t, err, domain.ErrInvalidRadius)
}

func TestAddItem_RequiresSupplierProfile(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	item, err := domain.NewInventoryItem(7, "Onions", 100, domain.UnitKg, 22)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, item)
	assert.ErrorIs(t, err, ports.ErrSupplierNotFound)

	_, err = svc.UpsertProfile(ctx, validSupplier(7))
	require.NoError(t, err)

	added, err := svc.AddItem(ctx, item)
	require.NoError(t, err)
	assert.NotZero(t, added.ID)
	assert.Equal(t, 100.0, added.Quantity)
}

func TestAddItem_RefreshesLastRestocked(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpsertProfile(ctx, validSupplier(7))
	require.NoError(t, err)

	item, err := domain.NewInventoryItem(7, "Tomatoes", 40, domain.UnitKg, 30)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, item)
	require.NoError(t, err)

	dash, err := svc.GetDashboard(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, dash.TotalItems)
	require.NotNil(t, dash.LastRestocked)
	assert.WithinDuration(t, time.Now(), *dash.LastRestocked, time.Minute)
}

func TestUpdateItem_PartialEdit(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpsertProfile(ctx, validSupplier(7))
	require.NoError(t, err)
	item, err := domain.NewInventoryItem(7, "Paneer", 10, domain.UnitKg, 320)
	require.NoError(t, err)
	added, err := svc.AddItem(ctx, item)
	require.NoError(t, err)

	newQty := 25.0
	updated, err := svc.UpdateItem(ctx, 7, ports.ItemUpdate{ItemID: added.ID, Quantity: &newQty})
	require.NoError(t, err)
	assert.Equal(t, 25.0, updated.Quantity)
	assert.Equal(t, "Paneer", updated.Name)
	assert.Equal(t, 320.0, updated.Price)
}

func TestUpdateItem_Guards(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpsertProfile(ctx, validSupplier(7))
	require.NoError(t, err)
	item, err := domain.NewInventoryItem(7, "Milk", 20, domain.UnitLiters, 60)
	require.NoError(t, err)
	added, err := svc.AddItem(ctx, item)
	require.NoError(t, err)

	negative := -1.0
	_, err = svc.UpdateItem(ctx, 7, ports.ItemUpdate{ItemID: added.ID, Quantity: &negative})
	assert.ErrorIs(t, err, domain.ErrNegativeQuantity)

	badUnit := domain.Unit("crates")
	_, err = svc.UpdateItem(ctx, 7, ports.ItemUpdate{ItemID: added.ID, Unit: &badUnit})
	assert.ErrorIs(t, err, domain.ErrInvalidUnit)

	// Another supplier must not be able to edit the item.
	_, err = svc.UpsertProfile(ctx, validSupplier(8))
	require.NoError(t, err)
	qty := 5.0
	_, err = svc.UpdateItem(ctx, 8, ports.ItemUpdate{ItemID: added.ID, Quantity: &qty})
	assert.ErrorIs(t, err, ports.ErrItemNotFound)
}

func TestListSuppliers_IncludesInventory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpsertProfile(ctx, validSupplier(7))
	require.NoError(t, err)
	_, err = svc.UpsertProfile(ctx, validSupplier(8))
	require.NoError(t, err)

	item, err := domain.NewInventoryItem(8, "Flour", 200, domain.UnitKg, 38)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, item)
	require.NoError(t, err)

	listings, err := svc.ListSuppliers(ctx)
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Empty(t, listings[0].Items)
	require.Len(t, listings[1].Items, 1)
	assert.Equal(t, "Flour", listings[1].Items[0].Name)
}

func TestUpdateDeliveryRadius(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpsertProfile(ctx, validSupplier(7))
	require.NoError(t, err)

	_, err = svc.UpdateDeliveryRadius(ctx, 7, domain.DeliveryRadius{RadiusKm: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidRadius)

	updated, err := svc.UpdateDeliveryRadius(ctx, 7, domain.DeliveryRadius{RadiusKm: 12, Lat: 18.5, Lng: 73.8})
	require.NoError(t, err)
	assert.Equal(t, 12.0, updated.DeliveryRadius.RadiusKm)
}
