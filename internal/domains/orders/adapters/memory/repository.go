package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	catalogmemory "github.com/streetsource/streetsource-api/internal/domains/catalog/adapters/memory"
	"github.com/streetsource/streetsource-api/internal/domains/orders/domain"
	"github.com/streetsource/streetsource-api/internal/domains/orders/ports"
	vendormemory "github.com/streetsource/streetsource-api/internal/domains/vendors/adapters/memory"
	vendordomain "github.com/streetsource/streetsource-api/internal/domains/vendors/domain"
)

// Repository is an in-memory order store. It leans on the catalog and vendor
// memory repositories for stock movement and tracking so the three stay
// consistent the way the SQL transaction keeps the tables consistent.
type Repository struct {
	mu      sync.RWMutex
	orders  map[int64]*domain.Order
	catalog *catalogmemory.Repository
	vendors *vendormemory.Repository
	nextID  int64
}

func NewRepository(catalog *catalogmemory.Repository, vendors *vendormemory.Repository) *Repository {
	return &Repository{
		orders:  make(map[int64]*domain.Order),
		catalog: catalog,
		vendors: vendors,
	}
}

func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Decrement first; roll back applied decrements on any failure so a
	// partial application never leaks out.
	applied := make([]domain.LineItem, 0, len(order.Items))
	for _, line := range order.Items {
		ok, err := r.catalog.AdjustQuantity(ctx, line.ItemID, -line.Quantity)
		if err != nil || !ok {
			for _, undo := range applied {
				_, _ = r.catalog.AdjustQuantity(ctx, undo.ItemID, undo.Quantity)
			}
			if err != nil {
				return nil, &domain.ItemNotFoundError{ItemID: line.ItemID}
			}
			return nil, &domain.InsufficientStockError{ItemName: line.Name}
		}
		applied = append(applied, line)
	}

	now := time.Now()
	stored := cloneOrder(order)
	r.nextID++
	stored.ID = r.nextID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.orders[stored.ID] = stored

	_ = r.vendors.AppendTracking(ctx, stored.VendorUserID, vendordomain.TrackingEntry{
		OrderID:           stored.ID,
		Status:            string(stored.Status),
		EstimatedDelivery: stored.EstimatedDelivery,
	})
	return cloneOrder(stored), nil
}

func (r *Repository) UpdateStatus(ctx context.Context, update ports.StatusUpdate) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[update.OrderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if err := order.CanTransitionTo(update.Status); err != nil {
		return nil, err
	}
	order.Status = update.Status
	if update.EstimatedDelivery != nil {
		order.EstimatedDelivery = update.EstimatedDelivery
	}
	if update.Status == domain.StatusDelivered {
		now := time.Now()
		order.ActualDelivery = &now
	}
	order.UpdatedAt = time.Now()

	_ = r.vendors.UpdateTracking(ctx, order.VendorUserID, order.ID, string(order.Status), update.EstimatedDelivery)
	return cloneOrder(order), nil
}

func (r *Repository) Cancel(ctx context.Context, orderID, vendorUserID int64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok || order.VendorUserID != vendorUserID {
		return nil, domain.ErrOrderNotFound
	}
	if !order.CanCancel() {
		return nil, domain.ErrCannotCancel
	}
	order.Status = domain.StatusCancelled
	order.UpdatedAt = time.Now()

	// Restore the originally ordered quantities, not current values.
	for _, line := range order.Items {
		_, _ = r.catalog.AdjustQuantity(ctx, line.ItemID, line.Quantity)
	}
	_ = r.vendors.UpdateTracking(ctx, order.VendorUserID, order.ID, string(domain.StatusCancelled), nil)
	return cloneOrder(order), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

func (r *Repository) GetByGatewayOrderID(_ context.Context, gatewayOrderID string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.PaymentDetails != nil && order.PaymentDetails.GatewayOrderID == gatewayOrderID {
			return cloneOrder(order), nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *Repository) ListByVendor(_ context.Context, vendorUserID int64, filter ports.ListFilter) (*ports.OrderPage, error) {
	return r.list(func(o *domain.Order) bool { return o.VendorUserID == vendorUserID }, filter), nil
}

func (r *Repository) ListBySupplier(_ context.Context, supplierUserID int64, filter ports.ListFilter) (*ports.OrderPage, error) {
	return r.list(func(o *domain.Order) bool { return o.SupplierUserID == supplierUserID }, filter), nil
}

func (r *Repository) CountByVendor(_ context.Context, vendorUserID int64) (int64, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total, pending int64
	for _, order := range r.orders {
		if order.VendorUserID != vendorUserID {
			continue
		}
		total++
		if order.Status == domain.StatusPending {
			pending++
		}
	}
	return total, pending, nil
}

func (r *Repository) SetPaymentCreated(_ context.Context, orderID int64, gatewayOrderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	order.PaymentDetails = &domain.PaymentDetails{
		GatewayOrderID: gatewayOrderID,
		Status:         "created",
	}
	order.UpdatedAt = time.Now()
	return nil
}

func (r *Repository) CapturePayment(_ context.Context, orderID int64, paymentID, signature string, paidAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok || order.PaymentDetails == nil {
		return domain.ErrOrderNotFound
	}
	order.PaymentDetails.GatewayPaymentID = paymentID
	order.PaymentDetails.Signature = signature
	order.PaymentDetails.Status = "captured"
	order.PaymentDetails.PaidAt = &paidAt
	order.PaymentStatus = domain.PaymentCompleted
	order.UpdatedAt = time.Now()
	return nil
}

func (r *Repository) list(match func(*domain.Order) bool, filter ports.ListFilter) *ports.OrderPage {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.Order
	for _, order := range r.orders {
		if !match(order) {
			continue
		}
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		matched = append(matched, order)
	}
	// Most recent first, matching the SQL ordering.
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := filter.Page.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Page.Size
	if filter.Page.Size <= 0 || end > len(matched) {
		end = len(matched)
	}
	page := make([]*domain.Order, 0, end-start)
	for _, order := range matched[start:end] {
		page = append(page, cloneOrder(order))
	}
	pages := 0
	if filter.Page.Size > 0 {
		pages = int(math.Ceil(float64(total) / float64(filter.Page.Size)))
	}
	return &ports.OrderPage{Orders: page, Total: total, Page: filter.Page.Number, Pages: pages}
}

func cloneOrder(o *domain.Order) *domain.Order {
	out := *o
	out.Items = append([]domain.LineItem(nil), o.Items...)
	if o.PaymentDetails != nil {
		details := *o.PaymentDetails
		out.PaymentDetails = &details
	}
	return &out
}

var _ ports.Repository = (*Repository)(nil)
