package ports

import (
	"context"
	"errors"

	"github.com/streetsource/streetsource-api/internal/domains/catalog/domain"
)

var (
	ErrSupplierNotFound = errors.New("supplier profile not found")
	ErrItemNotFound     = errors.New("inventory item not found")
)

// ItemUpdate carries a partial inventory edit. Nil fields are left untouched;
// LastUpdated is refreshed on every write.
type ItemUpdate struct {
	ItemID   int64
	Name     *string
	Quantity *float64
	Unit     *domain.Unit
	Price    *float64
}

type Repository interface {
	UpsertSupplier(ctx context.Context, supplier *domain.Supplier) (*domain.Supplier, error)
	SupplierByUserID(ctx context.Context, userID int64) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context) ([]*domain.Supplier, error)

	AddItem(ctx context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error)
	UpdateItem(ctx context.Context, supplierUserID int64, update ItemUpdate) (*domain.InventoryItem, error)
	ItemByID(ctx context.Context, id int64) (*domain.InventoryItem, error)
	ItemsBySupplier(ctx context.Context, supplierUserID int64) ([]*domain.InventoryItem, error)
	UpdateDeliveryRadius(ctx context.Context, userID int64, radius domain.DeliveryRadius) (*domain.Supplier, error)
}
