package ports

import "context"

// CheckoutResult is what the client-side payment widget needs to launch.
type CheckoutResult struct {
	GatewayOrderID string
	Currency       string
	Amount         int64
	OrderID        int64
}

// VerifyInput carries the three values the payment widget returns.
type VerifyInput struct {
	PaymentID      string
	GatewayOrderID string
	Signature      string
}

// Service exposes the payment checkout flow to adapters.
type Service interface {
	// Checkout opens a gateway order for amount (major units) against an
	// existing order and records the gateway order id on it.
	Checkout(ctx context.Context, orderID int64, amount float64) (*CheckoutResult, error)
	// Verify recomputes the HMAC signature and, on a byte-for-byte
	// match, marks the order's payment captured. Any mismatch fails
	// closed and leaves the order untouched.
	Verify(ctx context.Context, input VerifyInput) error
}
