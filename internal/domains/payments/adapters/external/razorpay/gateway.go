package razorpay

import (
	"context"
	"errors"

	razorpayclient "github.com/streetsource/streetsource-api/internal/clients/http/razorpay"
	"github.com/streetsource/streetsource-api/internal/domains/payments/ports"
)

// Gateway implements the outbound payment-provider port over the Razorpay
// HTTP client.
type Gateway struct {
	client *razorpayclient.Client
}

// NewGateway wires a Razorpay HTTP client into a gateway adapter.
func NewGateway(client *razorpayclient.Client) *Gateway {
	return &Gateway{client: client}
}

func (g *Gateway) CreateOrder(ctx context.Context, req ports.GatewayOrderRequest) (*ports.GatewayOrder, error) {
	if g == nil || g.client == nil {
		return nil, errors.New("razorpay gateway not configured")
	}
	order, err := g.client.CreateOrder(ctx, razorpayclient.OrderRequest{
		Amount:         req.Amount,
		Currency:       req.Currency,
		Receipt:        req.Receipt,
		PaymentCapture: 1,
	})
	if err != nil {
		return nil, err
	}
	return &ports.GatewayOrder{
		ID:       order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
	}, nil
}

var _ ports.Gateway = (*Gateway)(nil)
