package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrItemNotFound        = errors.New("inventory item not found")
	ErrVendorNotAuthorized = errors.New("vendor is not authorized to place orders")
)

// InsufficientStockError names the line item whose requested quantity exceeds
// current stock. Matches ErrInsufficientStock under errors.Is.
type InsufficientStockError struct {
	ItemName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item: %s", e.ItemName)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// ItemNotFoundError names the missing line item. Matches ErrItemNotFound
// under errors.Is.
type ItemNotFoundError struct {
	ItemID int64
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("inventory item not found: %d", e.ItemID)
}

func (e *ItemNotFoundError) Is(target error) bool {
	return target == ErrItemNotFound
}
