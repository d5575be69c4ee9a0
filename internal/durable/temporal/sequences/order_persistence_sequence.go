package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/streetsource/streetsource-api/internal/domains/orders/domain"
	orderports "github.com/streetsource/streetsource-api/internal/domains/orders/ports"
	orderactivities "github.com/streetsource/streetsource-api/internal/durable/temporal/activities/orders"
)

// RunOrderPersistenceSequence executes the activity that persists an order
// placement. The persistence itself is one database transaction, so retries
// here are safe: either the whole unit landed or nothing did.
func RunOrderPersistenceSequence(ctx workflow.Context, input orderports.CreateOrderInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order persistence sequence started", "vendorUserId", input.VendorUserID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var order domain.Order
	err := workflow.ExecuteActivity(ctx, orderactivities.PlaceOrderActivityName, input).Get(ctx, &order)
	if err != nil {
		logger.Error("order persistence sequence failed", "vendorUserId", input.VendorUserID, "error", err)
		return nil, err
	}
	logger.Info("order persistence sequence completed", "orderId", order.ID)
	return &order, nil
}
