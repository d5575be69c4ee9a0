package ports

import (
	"context"
	"time"

	"github.com/streetsource/streetsource-api/internal/domains/orders/domain"
)

// Page bounds a listing query. Page numbers start at 1.
type Page struct {
	Number int
	Size   int
}

// Offset translates the page into a row offset.
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// ListFilter narrows an order listing.
type ListFilter struct {
	Status *domain.Status
	Page   Page
}

// OrderPage is a listing result with pagination bookkeeping.
type OrderPage struct {
	Orders []*domain.Order
	Total  int64
	Page   int
	Pages  int
}

// StatusUpdate carries a lifecycle transition.
type StatusUpdate struct {
	OrderID           int64
	Status            domain.Status
	EstimatedDelivery *time.Time
}

// Repository persists orders. Create, UpdateStatus, and Cancel are each one
// transactional unit: the order write, the vendor tracking write, and any
// stock movement either all land or none do.
type Repository interface {
	// Create persists the order, appends the vendor tracking entry, and
	// applies a conditional decrement per line item. A decrement that
	// would take stock negative fails the whole transaction with
	// domain.ErrInsufficientStock.
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)

	// UpdateStatus transitions the order and rewrites the tracking entry.
	// Delivered stamps ActualDelivery. Transitions out of a terminal
	// state fail with domain.ErrTerminalState.
	UpdateStatus(ctx context.Context, update StatusUpdate) (*domain.Order, error)

	// Cancel moves a pending or accepted order owned by the vendor to
	// cancelled, updates tracking, and restores each line item's
	// originally ordered quantity. Any other state fails with
	// domain.ErrCannotCancel.
	Cancel(ctx context.Context, orderID, vendorUserID int64) (*domain.Order, error)

	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Order, error)
	ListByVendor(ctx context.Context, vendorUserID int64, filter ListFilter) (*OrderPage, error)
	ListBySupplier(ctx context.Context, supplierUserID int64, filter ListFilter) (*OrderPage, error)
	CountByVendor(ctx context.Context, vendorUserID int64) (total, pending int64, err error)

	// SetPaymentCreated stores the gateway order id with status created.
	SetPaymentCreated(ctx context.Context, orderID int64, gatewayOrderID string) error
	// CapturePayment overwrites the payment details after a verified
	// signature and marks the order's payment completed.
	CapturePayment(ctx context.Context, orderID int64, paymentID, signature string, paidAt time.Time) error
}
