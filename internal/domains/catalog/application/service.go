package application

import (
	"context"
	"errors"

	"github.com/streetsource/streetsource-api/internal/domains/catalog/domain"
	"github.com/streetsource/streetsource-api/internal/domains/catalog/ports"
)

// Service orchestrates supplier profile and inventory use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// UpsertProfile creates or replaces the supplier profile for a user.
func (s *Service) UpsertProfile(ctx context.Context, supplier *domain.Supplier) (*domain.Supplier, error) {
	if supplier == nil {
		return nil, errors.New("supplier is nil")
	}
	if err := supplier.Validate(); err != nil {
		return nil, err
	}
	return s.repo.UpsertSupplier(ctx, supplier)
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (*domain.Supplier, error) {
	return s.repo.SupplierByUserID(ctx, userID)
}

// AddItem appends a new stock line to the supplier's inventory.
func (s *Service) AddItem(ctx context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error) {
	if item == nil {
		return nil, errors.New("item is nil")
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.repo.SupplierByUserID(ctx, item.SupplierUserID); err != nil {
		return nil, err
	}
	return s.repo.AddItem(ctx, item)
}

// UpdateItem applies a partial edit to a stock line owned by the supplier.
func (s *Service) UpdateItem(ctx context.Context, supplierUserID int64, update ports.ItemUpdate) (*domain.InventoryItem, error) {
	if update.ItemID == 0 {
		return nil, ports.ErrItemNotFound
	}
	if update.Quantity != nil && *update.Quantity < 0 {
		return nil, domain.ErrNegativeQuantity
	}
	if update.Price != nil && *update.Price < 0 {
		return nil, domain.ErrNegativePrice
	}
	if update.Unit != nil && !update.Unit.Valid() {
		return nil, domain.ErrInvalidUnit
	}
	return s.repo.UpdateItem(ctx, supplierUserID, update)
}

func (s *Service) ListInventory(ctx context.Context, supplierUserID int64) ([]*domain.InventoryItem, error) {
	if _, err := s.repo.SupplierByUserID(ctx, supplierUserID); err != nil {
		return nil, err
	}
	return s.repo.ItemsBySupplier(ctx, supplierUserID)
}

func (s *Service) ItemByID(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	return s.repo.ItemByID(ctx, id)
}

func (s *Service) UpdateDeliveryRadius(ctx context.Context, userID int64, radius domain.DeliveryRadius) (*domain.Supplier, error) {
	if radius.RadiusKm < 1 {
		return nil, domain.ErrInvalidRadius
	}
	return s.repo.UpdateDeliveryRadius(ctx, userID, radius)
}

// GetDashboard summarizes the supplier's stock position.
func (s *Service) GetDashboard(ctx context.Context, userID int64) (*ports.Dashboard, error) {
	supplier, err := s.repo.SupplierByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ItemsBySupplier(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ports.Dashboard{
		TotalItems:     len(items),
		LastRestocked:  supplier.LastRestocked,
		DeliveryRadius: supplier.DeliveryRadius,
	}, nil
}

// ListSuppliers returns every supplier with its current inventory, for the
// vendor-side browse view.
func (s *Service) ListSuppliers(ctx context.Context) ([]ports.SupplierListing, error) {
	suppliers, err := s.repo.ListSuppliers(ctx)
	if err != nil {
		return nil, err
	}
	listings := make([]ports.SupplierListing, 0, len(suppliers))
	for _, supplier := range suppliers {
		items, err := s.repo.ItemsBySupplier(ctx, supplier.UserID)
		if err != nil {
			return nil, err
		}
		listings = append(listings, ports.SupplierListing{Supplier: supplier, Items: items})
	}
	return listings, nil
}

var _ ports.Service = (*Service)(nil)
