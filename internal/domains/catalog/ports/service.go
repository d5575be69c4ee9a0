package ports

import (
	"context"
	"time"

	"github.com/streetsource/streetsource-api/internal/domains/catalog/domain"
)

// Dashboard aggregates the supplier-facing stats panel.
type Dashboard struct {
	TotalItems     int
	LastRestocked  *time.Time
	DeliveryRadius domain.DeliveryRadius
}

// SupplierListing pairs a supplier profile with its current inventory for
// vendor-side browsing.
type SupplierListing struct {
	Supplier *domain.Supplier
	Items    []*domain.InventoryItem
}

// Service exposes catalog use cases to adapters.
type Service interface {
	UpsertProfile(ctx context.Context, supplier *domain.Supplier) (*domain.Supplier, error)
	GetProfile(ctx context.Context, userID int64) (*domain.Supplier, error)
	AddItem(ctx context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error)
	UpdateItem(ctx context.Context, supplierUserID int64, update ItemUpdate) (*domain.InventoryItem, error)
	ListInventory(ctx context.Context, supplierUserID int64) ([]*domain.InventoryItem, error)
	ItemByID(ctx context.Context, id int64) (*domain.InventoryItem, error)
	UpdateDeliveryRadius(ctx context.Context, userID int64, radius domain.DeliveryRadius) (*domain.Supplier, error)
	GetDashboard(ctx context.Context, userID int64) (*Dashboard, error)
	ListSuppliers(ctx context.Context) ([]SupplierListing, error)
}
