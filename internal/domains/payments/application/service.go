package application

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	orderports "github.com/streetsource/streetsource-api/internal/domains/orders/ports"
	"github.com/streetsource/streetsource-api/internal/domains/payments/ports"
)

var (
	ErrMissingCheckoutFields = errors.New("order id and amount are required")
	ErrMissingVerifyFields   = errors.New("payment verification failed - missing parameters")
	ErrSignatureMismatch     = errors.New("payment verification failed - invalid signature")
	ErrEmptySecret           = errors.New("payment secret must not be empty")
)

const currencyINR = "INR"

// Service runs the two-step checkout flow: open a gateway order, then verify
// the widget's signature before marking the payment captured.
type Service struct {
	gateway ports.Gateway
	orders  orderports.Repository
	secret  []byte
	logger  *slog.Logger
}

func NewService(gateway ports.Gateway, orders orderports.Repository, secret string, logger *slog.Logger) (*Service, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrEmptySecret
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{gateway: gateway, orders: orders, secret: []byte(secret), logger: logger}, nil
}

// Checkout opens a gateway order for the amount in minor units and stores the
// gateway order id on the order with payment status created.
func (s *Service) Checkout(ctx context.Context, orderID int64, amount float64) (*ports.CheckoutResult, error) {
	if orderID == 0 || amount <= 0 {
		return nil, ErrMissingCheckoutFields
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	gatewayOrder, err := s.gateway.CreateOrder(ctx, ports.GatewayOrderRequest{
		Amount:   int64(amount * 100),
		Currency: currencyINR,
		Receipt:  fmt.Sprintf("order_%d", order.ID),
	})
	if err != nil {
		return nil, err
	}
	if err := s.orders.SetPaymentCreated(ctx, order.ID, gatewayOrder.ID); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "gateway order created",
		slog.Int64("order_id", order.ID),
		slog.String("gateway_order_id", gatewayOrder.ID),
		slog.Int64("amount_minor", gatewayOrder.Amount))
	return &ports.CheckoutResult{
		GatewayOrderID: gatewayOrder.ID,
		Currency:       gatewayOrder.Currency,
		Amount:         gatewayOrder.Amount,
		OrderID:        order.ID,
	}, nil
}

// Verify recomputes HMAC-SHA256 over "{gatewayOrderID}|{paymentID}" under the
// shared secret and compares it against the supplied signature in constant
// time. The signature check is the sole gate for marking a payment captured;
// nothing the client claims is trusted on its own.
func (s *Service) Verify(ctx context.Context, input ports.VerifyInput) error {
	if input.PaymentID == "" || input.GatewayOrderID == "" || input.Signature == "" {
		return ErrMissingVerifyFields
	}

	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(input.GatewayOrderID + "|" + input.PaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(input.Signature)) {
		s.logger.WarnContext(ctx, "payment signature mismatch",
			slog.String("gateway_order_id", input.GatewayOrderID))
		return ErrSignatureMismatch
	}

	order, err := s.orders.GetByGatewayOrderID(ctx, input.GatewayOrderID)
	if err != nil {
		return err
	}
	if err := s.orders.CapturePayment(ctx, order.ID, input.PaymentID, input.Signature, time.Now()); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "payment captured",
		slog.Int64("order_id", order.ID),
		slog.String("gateway_payment_id", input.PaymentID))
	return nil
}

// Sign computes the signature the gateway would produce for the given pair.
// Exposed for tests and webhook tooling.
func (s *Service) Sign(gatewayOrderID, paymentID string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

var _ ports.Service = (*Service)(nil)
