package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/streetsource/streetsource-api/internal/domains/catalog/adapters/memory"
	ordermemory "github.com/streetsource/streetsource-api/internal/domains/orders/adapters/memory"
	orderdomain "github.com/streetsource/streetsource-api/internal/domains/orders/domain"
	paymentmemory "github.com/streetsource/streetsource-api/internal/domains/payments/adapters/memory"
	"github.com/streetsource/streetsource-api/internal/domains/payments/ports"
	vendormemory "github.com/streetsource/streetsource-api/internal/domains/vendors/adapters/memory"
)

const testSecret = "rzp_test_secret"

func newPaymentFixture(t *testing.T) (*Service, *paymentmemory.Gateway, *ordermemory.Repository, *orderdomain.Order) {
	t.Helper()
	ctx := context.Background()

	catalogRepo := catalogmemory.NewRepository()
	vendorRepo := vendormemory.NewRepository()
	orderRepo := ordermemory.NewRepository(catalogRepo, vendorRepo)

	order, err := orderRepo.Create(ctx, &orderdomain.Order{
		VendorUserID:   1,
		SupplierUserID: 2,
		Status:         orderdomain.StatusPending,
		TotalAmount:    100,
		PaymentStatus:  orderdomain.PaymentPending,
	})
	require.NoError(t, err)

	gateway := paymentmemory.NewGateway()
	svc, err := NewService(gateway, orderRepo, testSecret, nil)
	require.NoError(t, err)
	return svc, gateway, orderRepo, order
}

func TestNewService_RequiresSecret(t *testing.T) {
	_, err := NewService(paymentmemory.NewGateway(), nil, "  ", nil)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestCheckout_ConvertsToMinorUnits(t *testing.T) {
	svc, gateway, orderRepo, order := newPaymentFixture(t)
	ctx := context.Background()

	result, err := svc.Checkout(ctx, order.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), result.Amount)
	assert.Equal(t, "INR", result.Currency)
	assert.Equal(t, order.ID, result.OrderID)

	req, ok := gateway.Created(result.GatewayOrderID)
	require.True(t, ok)
	assert.Equal(t, int64(10000), req.Amount)
	assert.Equal(t, "order_1", req.Receipt)

	stored, err := orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PaymentDetails)
	assert.Equal(t, result.GatewayOrderID, stored.PaymentDetails.GatewayOrderID)
	assert.Equal(t, "created", stored.PaymentDetails.Status)
}

func TestCheckout_Validation(t *testing.T) {
	svc, _, _, order := newPaymentFixture(t)
	ctx := context.Background()

	_, err := svc.Checkout(ctx, 0, 100)
	assert.ErrorIs(t, err, ErrMissingCheckoutFields)

	_, err = svc.Checkout(ctx, order.ID, 0)
	assert.ErrorIs(t, err, ErrMissingCheckoutFields)

	_, err = svc.Checkout(ctx, 9999, 100)
	assert.ErrorIs(t, err, orderdomain.ErrOrderNotFound)
}

func TestVerify_CapturesOnValidSignature(t *testing.T) {
	svc, _, orderRepo, order := newPaymentFixture(t)
	ctx := context.Background()

	result, err := svc.Checkout(ctx, order.ID, 100)
	require.NoError(t, err)

	err = svc.Verify(ctx, ports.VerifyInput{
		PaymentID:      "pay_123",
		GatewayOrderID: result.GatewayOrderID,
		Signature:      svc.Sign(result.GatewayOrderID, "pay_123"),
	})
	require.NoError(t, err)

	stored, err := orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "captured", stored.PaymentDetails.Status)
	assert.Equal(t, "pay_123", stored.PaymentDetails.GatewayPaymentID)
	assert.Equal(t, orderdomain.PaymentCompleted, stored.PaymentStatus)
	require.NotNil(t, stored.PaymentDetails.PaidAt)
	assert.WithinDuration(t, time.Now(), *stored.PaymentDetails.PaidAt, time.Minute)
}

func TestVerify_ForgedSignatureLeavesOrderUntouched(t *testing.T) {
	svc, _, orderRepo, order := newPaymentFixture(t)
	ctx := context.Background()

	result, err := svc.Checkout(ctx, order.ID, 100)
	require.NoError(t, err)

	err = svc.Verify(ctx, ports.VerifyInput{
		PaymentID:      "pay_123",
		GatewayOrderID: result.GatewayOrderID,
		Signature:      "deadbeef" + svc.Sign(result.GatewayOrderID, "pay_123")[8:],
	})
	assert.ErrorIs(t, err, ErrSignatureMismatch)

	stored, err := orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "created", stored.PaymentDetails.Status)
	assert.Empty(t, stored.PaymentDetails.GatewayPaymentID)
	assert.Equal(t, orderdomain.PaymentPending, stored.PaymentStatus)
}

func TestVerify_MissingFieldsFailClosed(t *testing.T) {
	svc, _, _, _ := newPaymentFixture(t)
	ctx := context.Background()

	cases := []ports.VerifyInput{
		{PaymentID: "", GatewayOrderID: "order_x", Signature: "sig"},
		{PaymentID: "pay_1", GatewayOrderID: "", Signature: "sig"},
		{PaymentID: "pay_1", GatewayOrderID: "order_x", Signature: ""},
	}
	for _, input := range cases {
		assert.ErrorIs(t, svc.Verify(ctx, input), ErrMissingVerifyFields)
	}
}

func TestVerify_UnknownGatewayOrder(t *testing.T) {
	svc, _, _, _ := newPaymentFixture(t)

	err := svc.Verify(context.Background(), ports.VerifyInput{
		PaymentID:      "pay_123",
		GatewayOrderID: "order_unknown",
		Signature:      svc.Sign("order_unknown", "pay_123"),
	})
	assert.ErrorIs(t, err, orderdomain.ErrOrderNotFound)
}
