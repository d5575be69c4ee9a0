package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyItemName    = errors.New("item name is required")
	ErrInvalidUnit      = errors.New("unit must be one of kg, g, lb, pieces, liters")
	ErrNegativeQuantity = errors.New("quantity must not be negative")
	ErrNegativePrice    = errors.New("price must not be negative")
)

// Unit constrains the measure an inventory item is sold in.
type Unit string

const (
	UnitKg     Unit = "kg"
	UnitG      Unit = "g"
	UnitLb     Unit = "lb"
	UnitPieces Unit = "pieces"
	UnitLiters Unit = "liters"
)

// Valid reports whether the unit is one of the allowed values.
func (u Unit) Valid() bool {
	switch u {
	case UnitKg, UnitG, UnitLb, UnitPieces, UnitLiters:
		return true
	default:
		return false
	}
}

// InventoryItem is a supplier-owned stock line. Quantity never goes negative;
// order placement decrements it through an atomic conditional update.
type InventoryItem struct {
	ID             int64
	SupplierUserID int64
	Name           string
	Quantity       float64
	Unit           Unit
	Price          float64
	LastUpdated    time.Time
}

// NewInventoryItem validates and constructs a stock line.
func NewInventoryItem(supplierUserID int64, name string, quantity float64, unit Unit, price float64) (*InventoryItem, error) {
	item := &InventoryItem{
		SupplierUserID: supplierUserID,
		Name:           strings.TrimSpace(name),
		Quantity:       quantity,
		Unit:           unit,
		Price:          price,
		LastUpdated:    time.Now(),
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate enforces the stock-line invariants.
func (i *InventoryItem) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyItemName
	}
	if !i.Unit.Valid() {
		return ErrInvalidUnit
	}
	if i.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if i.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}
