// Package gateways adapts the catalog and vendor contexts to the narrow
// ports the order lifecycle depends on.
package gateways

import (
	"context"
	"errors"

	catalogports "github.com/streetsource/streetsource-api/internal/domains/catalog/ports"
	"github.com/streetsource/streetsource-api/internal/domains/orders/ports"
	vendorports "github.com/streetsource/streetsource-api/internal/domains/vendors/ports"
)

// CatalogStockSource answers stock lookups from the catalog service.
type CatalogStockSource struct {
	catalog catalogports.Service
}

func NewCatalogStockSource(catalog catalogports.Service) *CatalogStockSource {
	return &CatalogStockSource{catalog: catalog}
}

func (s *CatalogStockSource) ItemsForSupplier(ctx context.Context, supplierUserID int64) ([]ports.ItemSnapshot, error) {
	items, err := s.catalog.ListInventory(ctx, supplierUserID)
	if err != nil {
		return nil, err
	}
	snapshots := make([]ports.ItemSnapshot, 0, len(items))
	for _, item := range items {
		snapshots = append(snapshots, ports.ItemSnapshot{
			ItemID:         item.ID,
			SupplierUserID: item.SupplierUserID,
			Name:           item.Name,
			Unit:           string(item.Unit),
			Quantity:       item.Quantity,
			Price:          item.Price,
		})
	}
	return snapshots, nil
}

// PartyDirectory resolves ordering permission and business names from the
// vendor repository and catalog service.
type PartyDirectory struct {
	vendors vendorports.Repository
	catalog catalogports.Service
}

func NewPartyDirectory(vendors vendorports.Repository, catalog catalogports.Service) *PartyDirectory {
	return &PartyDirectory{vendors: vendors, catalog: catalog}
}

func (d *PartyDirectory) VendorCanOrder(ctx context.Context, vendorUserID int64) (bool, error) {
	vendor, err := d.vendors.ByUserID(ctx, vendorUserID)
	if err != nil {
		if errors.Is(err, vendorports.ErrVendorNotFound) {
			return false, nil
		}
		return false, err
	}
	return vendor.CanOrderSupply, nil
}

func (d *PartyDirectory) VendorParty(ctx context.Context, vendorUserID int64) (ports.Party, error) {
	vendor, err := d.vendors.ByUserID(ctx, vendorUserID)
	if err != nil {
		return ports.Party{}, err
	}
	return ports.Party{UserID: vendor.UserID, BusinessName: vendor.BusinessName}, nil
}

func (d *PartyDirectory) SupplierParty(ctx context.Context, supplierUserID int64) (ports.Party, error) {
	supplier, err := d.catalog.GetProfile(ctx, supplierUserID)
	if err != nil {
		return ports.Party{}, err
	}
	return ports.Party{UserID: supplier.UserID, BusinessName: supplier.CompanyName}, nil
}

var (
	_ ports.StockSource = (*CatalogStockSource)(nil)
	_ ports.Directory   = (*PartyDirectory)(nil)
)
