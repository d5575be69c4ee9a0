package ports

import "context"

// GatewayOrderRequest asks the payment gateway to open an order. Amount is in
// minor currency units.
type GatewayOrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
}

// GatewayOrder is the gateway's handle for a payment order.
type GatewayOrder struct {
	ID       string
	Amount   int64
	Currency string
}

// Gateway is the outbound payment-provider port.
type Gateway interface {
	CreateOrder(ctx context.Context, req GatewayOrderRequest) (*GatewayOrder, error)
}
