package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/streetsource/streetsource-api/internal/domains/catalog/domain"
	"github.com/streetsource/streetsource-api/internal/domains/catalog/ports"
)

// Repository is an in-memory catalog store used when no database is
// configured and by tests.
type Repository struct {
	mu             sync.RWMutex
	suppliers      map[int64]*domain.Supplier // keyed by user id
	items          map[int64]*domain.InventoryItem
	nextSupplierID int64
	nextItemID     int64
}

func NewRepository() *Repository {
	return &Repository{
		suppliers: make(map[int64]*domain.Supplier),
		items:     make(map[int64]*domain.InventoryItem),
	}
}

func (r *Repository) UpsertSupplier(_ context.Context, supplier *domain.Supplier) (*domain.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	stored := cloneSupplier(supplier)
	if existing, ok := r.suppliers[supplier.UserID]; ok {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
		stored.LastRestocked = existing.LastRestocked
	} else {
		r.nextSupplierID++
		stored.ID = r.nextSupplierID
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	r.suppliers[stored.UserID] = stored
	return cloneSupplier(stored), nil
}

func (r *Repository) SupplierByUserID(_ context.Context, userID int64) (*domain.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	supplier, ok := r.suppliers[userID]
	if !ok {
		return nil, ports.ErrSupplierNotFound
	}
	return cloneSupplier(supplier), nil
}

func (r *Repository) ListSuppliers(_ context.Context) ([]*domain.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Supplier, 0, len(r.suppliers))
	for _, supplier := range r.suppliers {
		out = append(out, cloneSupplier(supplier))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repository) AddItem(_ context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	stored := cloneItem(item)
	r.nextItemID++
	stored.ID = r.nextItemID
	stored.LastUpdated = now
	r.items[stored.ID] = stored

	if supplier, ok := r.suppliers[item.SupplierUserID]; ok {
		restocked := now
		supplier.LastRestocked = &restocked
	}
	return cloneItem(stored), nil
}

func (r *Repository) UpdateItem(_ context.Context, supplierUserID int64, update ports.ItemUpdate) (*domain.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[update.ItemID]
	if !ok || item.SupplierUserID != supplierUserID {
		return nil, ports.ErrItemNotFound
	}
	if update.Name != nil {
		item.Name = *update.Name
	}
	if update.Quantity != nil {
		item.Quantity = *update.Quantity
	}
	if update.Unit != nil {
		item.Unit = *update.Unit
	}
	if update.Price != nil {
		item.Price = *update.Price
	}
	item.LastUpdated = time.Now()
	return cloneItem(item), nil
}

func (r *Repository) ItemByID(_ context.Context, id int64) (*domain.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, ports.ErrItemNotFound
	}
	return cloneItem(item), nil
}

func (r *Repository) ItemsBySupplier(_ context.Context, supplierUserID int64) ([]*domain.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.InventoryItem
	for _, item := range r.items {
		if item.SupplierUserID == supplierUserID {
			out = append(out, cloneItem(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repository) UpdateDeliveryRadius(_ context.Context, userID int64, radius domain.DeliveryRadius) (*domain.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	supplier, ok := r.suppliers[userID]
	if !ok {
		return nil, ports.ErrSupplierNotFound
	}
	supplier.DeliveryRadius = radius
	supplier.UpdatedAt = time.Now()
	return cloneSupplier(supplier), nil
}

// AdjustQuantity applies a signed stock delta and reports false when the
// decrement would take the item below zero. Used by the in-memory order
// repository to mirror the conditional SQL update.
func (r *Repository) AdjustQuantity(_ context.Context, itemID int64, delta float64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[itemID]
	if !ok {
		return false, ports.ErrItemNotFound
	}
	if item.Quantity+delta < 0 {
		return false, nil
	}
	item.Quantity += delta
	item.LastUpdated = time.Now()
	return true, nil
}

func cloneSupplier(s *domain.Supplier) *domain.Supplier {
	out := *s
	out.Documents = append([]string(nil), s.Documents...)
	if s.LastRestocked != nil {
		restocked := *s.LastRestocked
		out.LastRestocked = &restocked
	}
	return &out
}

func cloneItem(i *domain.InventoryItem) *domain.InventoryItem {
	out := *i
	return &out
}

var _ ports.Repository = (*Repository)(nil)
