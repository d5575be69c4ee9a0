package domain

import (
	"errors"
	"time"
)

var (
	ErrMissingFields   = errors.New("supplier, items, delivery location, and payment method are required")
	ErrInvalidStatus   = errors.New("invalid status value")
	ErrTerminalState   = errors.New("order is already in a terminal state")
	ErrCannotCancel    = errors.New("order cannot be cancelled at this stage")
	ErrInvalidQuantity = errors.New("item quantity must be at least 1")
	ErrOrderNotFound   = errors.New("order not found")
)

// Status is the order lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusPacked    Status = "packed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
	StatusRejected  Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusPacked, StatusShipped,
		StatusDelivered, StatusCancelled, StatusRejected:
		return true
	default:
		return false
	}
}

// Terminal reports whether the order can no longer change state.
func (s Status) Terminal() bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusRejected:
		return true
	default:
		return false
	}
}

// PaymentStatus is the coarse payment state carried on the order.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// LineItem is a snapshot of an inventory line at order time. Name, unit, and
// price are copied at creation and never re-read, so later catalog edits
// cannot change a placed order's total.
type LineItem struct {
	ItemID       int64   `json:"itemId"`
	Name         string  `json:"itemName"`
	Unit         string  `json:"unit"`
	Quantity     float64 `json:"quantity"`
	PriceAtOrder float64 `json:"priceAtOrder"`
}

// DeliveryLocation pins where the supplier should deliver.
type DeliveryLocation struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// PaymentDetails records the gateway state attached by checkout and verify.
type PaymentDetails struct {
	GatewayOrderID   string     `json:"gatewayOrderId"`
	GatewayPaymentID string     `json:"gatewayPaymentId,omitempty"`
	Signature        string     `json:"signature,omitempty"`
	Status           string     `json:"status"`
	PaidAt           *time.Time `json:"paidAt,omitempty"`
}

// Order is a vendor's purchase from a supplier.
type Order struct {
	ID                    int64
	VendorUserID          int64
	SupplierUserID        int64
	Items                 []LineItem
	TotalAmount           float64
	Status                Status
	DeliveryLocation      DeliveryLocation
	PreferredDeliveryTime *time.Time
	EstimatedDelivery     *time.Time
	ActualDelivery        *time.Time
	PaymentMethod         string
	PaymentStatus         PaymentStatus
	SpecialInstructions   string
	PaymentDetails        *PaymentDetails
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Total recomputes the sum of line totals. It must always equal TotalAmount.
func (o *Order) Total() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.PriceAtOrder * item.Quantity
	}
	return total
}

// CanCancel reports whether the vendor may still cancel the order. Only
// pending and accepted orders can be withdrawn; beyond that the supplier has
// committed stock to packing.
func (o *Order) CanCancel() bool {
	return o.Status == StatusPending || o.Status == StatusAccepted
}

// CanTransitionTo enforces the only hard rule in the lifecycle: a terminal
// order never changes state again. Everything else is left to the parties.
func (o *Order) CanTransitionTo(target Status) error {
	if !target.Valid() {
		return ErrInvalidStatus
	}
	if o.Status.Terminal() {
		return ErrTerminalState
	}
	return nil
}
