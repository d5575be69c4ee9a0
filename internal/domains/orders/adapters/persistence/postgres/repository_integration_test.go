//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	catalogpostgres "github.com/streetsource/streetsource-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogdomain "github.com/streetsource/streetsource-api/internal/domains/catalog/domain"
	orderpostgres "github.com/streetsource/streetsource-api/internal/domains/orders/adapters/persistence/postgres"
	"github.com/streetsource/streetsource-api/internal/domains/orders/domain"
	"github.com/streetsource/streetsource-api/internal/domains/orders/ports"
	vendorpostgres "github.com/streetsource/streetsource-api/internal/domains/vendors/adapters/persistence/postgres"
	vendordomain "github.com/streetsource/streetsource-api/internal/domains/vendors/domain"
	"github.com/streetsource/streetsource-api/internal/platform/migrations"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("streetsource_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func seedStock(t *testing.T, db *gorm.DB, qty float64) (itemID int64) {
	ctx := context.Background()

	catalogRepo := catalogpostgres.NewRepository(db)
	_, err := catalogRepo.UpsertSupplier(ctx, &catalogdomain.Supplier{
		UserID:           200,
		CompanyName:      "Patil Wholesale",
		BusinessAddress:  "Market Yard, Pune",
		GSTNumber:        "27AAPFU0939F1ZV",
		PANNumber:        "AAPFU0939F",
		BusinessType:     "wholesaler",
		RegistrationDate: time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC),
		DeliveryRadius:   catalogdomain.DeliveryRadius{RadiusKm: 10},
	})
	require.NoError(t, err)

	item, err := catalogdomain.NewInventoryItem(200, "Potatoes", qty, catalogdomain.UnitKg, 50)
	require.NoError(t, err)
	added, err := catalogRepo.AddItem(ctx, item)
	require.NoError(t, err)

	vendorRepo := vendorpostgres.NewRepository(db)
	_, err = vendorRepo.Upsert(ctx, vendordomain.NewVendor(100, "Ravi Chaat Corner"))
	require.NoError(t, err)

	return added.ID
}

func newOrder(itemID int64, qty float64) *domain.Order {
	return &domain.Order{
		VendorUserID:   100,
		SupplierUserID: 200,
		Items: []domain.LineItem{
			{ItemID: itemID, Name: "Potatoes", Unit: "kg", Quantity: qty, PriceAtOrder: 50},
		},
		TotalAmount:      qty * 50,
		Status:           domain.StatusPending,
		DeliveryLocation: domain.DeliveryLocation{Lat: 18.52, Lng: 73.85, Address: "FC Road, Pune"},
		PaymentMethod:    "cod",
		PaymentStatus:    domain.PaymentPending,
	}
}

func itemQuantity(t *testing.T, db *gorm.DB, itemID int64) float64 {
	var qty float64
	require.NoError(t, db.Raw("SELECT quantity FROM inventory_items WHERE id = ?", itemID).Scan(&qty).Error)
	return qty
}

func TestCreate_DecrementsStockTransactionally(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	itemID := seedStock(t, db, 10)
	repo := orderpostgres.NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newOrder(itemID, 4))
	require.NoError(t, err)
	assert.Equal(t, float64(200), created.TotalAmount)
	assert.Equal(t, float64(6), itemQuantity(t, db, itemID))

	// A tracking row is written in the same transaction.
	var trackingCount int64
	require.NoError(t, db.Raw(
		"SELECT COUNT(*) FROM vendor_order_tracking WHERE order_id = ?", created.ID,
	).Scan(&trackingCount).Error)
	assert.Equal(t, int64(1), trackingCount)
}

func TestCreate_InsufficientStockRollsBack(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	itemID := seedStock(t, db, 3)
	repo := orderpostgres.NewRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, newOrder(itemID, 5))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Nothing was applied: stock intact, no order rows, no tracking rows.
	assert.Equal(t, float64(3), itemQuantity(t, db, itemID))
	var orderCount int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM orders").Scan(&orderCount).Error)
	assert.Equal(t, int64(0), orderCount)
}

func TestCancel_RestoresStockOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	itemID := seedStock(t, db, 10)
	repo := orderpostgres.NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newOrder(itemID, 4))
	require.NoError(t, err)
	require.Equal(t, float64(6), itemQuantity(t, db, itemID))

	cancelled, err := repo.Cancel(ctx, created.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	assert.Equal(t, float64(10), itemQuantity(t, db, itemID))

	// A second cancel hits the status guard and must not restore again.
	_, err = repo.Cancel(ctx, created.ID, 100)
	require.ErrorIs(t, err, domain.ErrCannotCancel)
	assert.Equal(t, float64(10), itemQuantity(t, db, itemID))
}

func TestUpdateStatus_TerminalStateIsFinal(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	itemID := seedStock(t, db, 10)
	repo := orderpostgres.NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newOrder(itemID, 2))
	require.NoError(t, err)

	delivered, err := repo.UpdateStatus(ctx, ports.StatusUpdate{
		OrderID: created.ID,
		Status:  domain.StatusDelivered,
	})
	require.NoError(t, err)
	require.NotNil(t, delivered.ActualDelivery)

	_, err = repo.UpdateStatus(ctx, ports.StatusUpdate{
		OrderID: created.ID,
		Status:  domain.StatusPending,
	})
	require.ErrorIs(t, err, domain.ErrTerminalState)
}
