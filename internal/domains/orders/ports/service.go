package ports

import (
	"context"
	"time"

	"github.com/streetsource/streetsource-api/internal/domains/orders/domain"
)

// LineRequest is one requested stock line in a create-order call.
type LineRequest struct {
	ItemID   int64
	Quantity float64
}

// CreateOrderInput carries everything the vendor submits at placement.
type CreateOrderInput struct {
	VendorUserID          int64
	SupplierUserID        int64
	Items                 []LineRequest
	DeliveryLocation      domain.DeliveryLocation
	PreferredDeliveryTime *time.Time
	PaymentMethod         string
	SpecialInstructions   string
}

// OrderView is an order with both parties' business names resolved.
type OrderView struct {
	Order        *domain.Order
	VendorName   string
	SupplierName string
}

// Service exposes the order lifecycle to adapters.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	UpdateStatus(ctx context.Context, update StatusUpdate) (*domain.Order, error)
	Cancel(ctx context.Context, orderID, vendorUserID int64) (*domain.Order, error)
	Get(ctx context.Context, orderID int64) (*OrderView, error)
	ListForVendor(ctx context.Context, vendorUserID int64, filter ListFilter) (*OrderPage, error)
	ListForSupplier(ctx context.Context, supplierUserID int64, filter ListFilter) (*OrderPage, error)
}

// Orchestrator routes order placement through a durable executor when one is
// configured, falling back to direct invocation otherwise.
type Orchestrator interface {
	PlaceOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
}
