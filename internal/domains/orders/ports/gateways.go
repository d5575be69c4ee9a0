package ports

import "context"

// ItemSnapshot is the slice of catalog state an order creation needs.
type ItemSnapshot struct {
	ItemID         int64
	SupplierUserID int64
	Name           string
	Unit           string
	Quantity       float64
	Price          float64
}

// StockSource answers catalog lookups during order creation. Implemented by a
// thin adapter over the catalog context.
type StockSource interface {
	// ItemsForSupplier returns the supplier's current stock lines, or an
	// error when the supplier has no profile.
	ItemsForSupplier(ctx context.Context, supplierUserID int64) ([]ItemSnapshot, error)
}

// Party is the display-side identity of a vendor or supplier.
type Party struct {
	UserID       int64
	BusinessName string
}

// Directory resolves vendor ordering permission and business names for order
// display. Implemented by adapters over the vendors and catalog contexts.
type Directory interface {
	// VendorCanOrder reports whether the vendor exists and is permitted
	// to place supply orders.
	VendorCanOrder(ctx context.Context, vendorUserID int64) (bool, error)
	VendorParty(ctx context.Context, vendorUserID int64) (Party, error)
	SupplierParty(ctx context.Context, supplierUserID int64) (Party, error)
}
