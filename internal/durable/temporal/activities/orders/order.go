package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/streetsource/streetsource-api/internal/domains/orders/domain"
	orderports "github.com/streetsource/streetsource-api/internal/domains/orders/ports"
)

// PlaceOrderActivityName runs the full order-creation unit: validation,
// snapshotting, and the transactional persistence.
const PlaceOrderActivityName = "orders.activities.PlaceOrder"

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service orderports.Service
}

// NewActivities wires the order service into the Temporal activities bundle.
func NewActivities(service orderports.Service) *Activities {
	return &Activities{service: service}
}

// PlaceOrder creates the order and returns the persisted aggregate.
func (a *Activities) PlaceOrder(ctx context.Context, input orderports.CreateOrderInput) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order placement activity not initialized", "vendorUserId", input.VendorUserID)
		return nil, errors.New("order placement activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "vendorUserId", input.VendorUserID, "supplierUserId", input.SupplierUserID)
	order, err := a.service.Create(ctx, input)
	if err != nil {
		logger.Error("PlaceOrder activity failed", "vendorUserId", input.VendorUserID, "error", err)
		return nil, err
	}
	logger.Info("PlaceOrder activity completed", "orderId", order.ID)
	return order, nil
}
