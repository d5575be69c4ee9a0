package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/streetsource/streetsource-api/internal/domains/payments/ports"
)

// Gateway is an in-process stand-in for the payment provider, used when no
// gateway credentials are configured and by tests.
type Gateway struct {
	mu     sync.Mutex
	nextID int64
	orders map[string]ports.GatewayOrderRequest
}

func NewGateway() *Gateway {
	return &Gateway{orders: make(map[string]ports.GatewayOrderRequest)}
}

func (g *Gateway) CreateOrder(_ context.Context, req ports.GatewayOrderRequest) (*ports.GatewayOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nextID++
	id := fmt.Sprintf("order_local_%06d", g.nextID)
	g.orders[id] = req
	return &ports.GatewayOrder{ID: id, Amount: req.Amount, Currency: req.Currency}, nil
}

// Created returns the recorded request for a gateway order id.
func (g *Gateway) Created(id string) (ports.GatewayOrderRequest, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	req, ok := g.orders[id]
	return req, ok
}

var _ ports.Gateway = (*Gateway)(nil)
