package application

import (
	"context"
	"log/slog"
	"strings"

	"github.com/streetsource/streetsource-api/internal/domains/orders/domain"
	"github.com/streetsource/streetsource-api/internal/domains/orders/ports"
	vendorports "github.com/streetsource/streetsource-api/internal/domains/vendors/ports"
)

const defaultPageSize = 10

// Service orchestrates the order lifecycle. All stock movement happens inside
// the repository's transactions; the service validates, snapshots prices, and
// computes totals.
type Service struct {
	repo      ports.Repository
	stock     ports.StockSource
	directory ports.Directory
	logger    *slog.Logger
}

func NewService(repo ports.Repository, stock ports.StockSource, directory ports.Directory, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, stock: stock, directory: directory, logger: logger}
}

// Create validates the request against current stock, snapshots each line's
// price/name/unit, and hands the assembled order to the repository, which
// persists it together with the tracking entry and stock decrements.
func (s *Service) Create(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	if input.SupplierUserID == 0 || len(input.Items) == 0 ||
		strings.TrimSpace(input.PaymentMethod) == "" ||
		strings.TrimSpace(input.DeliveryLocation.Address) == "" {
		return nil, domain.ErrMissingFields
	}
	for _, line := range input.Items {
		if line.Quantity < 1 {
			return nil, domain.ErrInvalidQuantity
		}
	}

	canOrder, err := s.directory.VendorCanOrder(ctx, input.VendorUserID)
	if err != nil {
		return nil, err
	}
	if !canOrder {
		return nil, domain.ErrVendorNotAuthorized
	}

	stock, err := s.stock.ItemsForSupplier(ctx, input.SupplierUserID)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]ports.ItemSnapshot, len(stock))
	for _, snapshot := range stock {
		byID[snapshot.ItemID] = snapshot
	}

	order := &domain.Order{
		VendorUserID:          input.VendorUserID,
		SupplierUserID:        input.SupplierUserID,
		Status:                domain.StatusPending,
		DeliveryLocation:      input.DeliveryLocation,
		PreferredDeliveryTime: input.PreferredDeliveryTime,
		EstimatedDelivery:     input.PreferredDeliveryTime,
		PaymentMethod:         input.PaymentMethod,
		PaymentStatus:         domain.PaymentPending,
		SpecialInstructions:   input.SpecialInstructions,
	}
	for _, line := range input.Items {
		snapshot, ok := byID[line.ItemID]
		if !ok {
			return nil, &domain.ItemNotFoundError{ItemID: line.ItemID}
		}
		// The pre-check gives a named error; the transaction's
		// conditional decrement is the real guard under concurrency.
		if snapshot.Quantity < line.Quantity {
			return nil, &domain.InsufficientStockError{ItemName: snapshot.Name}
		}
		order.Items = append(order.Items, domain.LineItem{
			ItemID:       line.ItemID,
			Name:         snapshot.Name,
			Unit:         snapshot.Unit,
			Quantity:     line.Quantity,
			PriceAtOrder: snapshot.Price,
		})
	}
	order.TotalAmount = order.Total()

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "order created",
		slog.Int64("order_id", created.ID),
		slog.Int64("vendor_user_id", created.VendorUserID),
		slog.Int64("supplier_user_id", created.SupplierUserID),
		slog.Float64("total_amount", created.TotalAmount))
	return created, nil
}

func (s *Service) UpdateStatus(ctx context.Context, update ports.StatusUpdate) (*domain.Order, error) {
	if !update.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	updated, err := s.repo.UpdateStatus(ctx, update)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "order status updated",
		slog.Int64("order_id", updated.ID),
		slog.String("status", string(updated.Status)))
	return updated, nil
}

func (s *Service) Cancel(ctx context.Context, orderID, vendorUserID int64) (*domain.Order, error) {
	cancelled, err := s.repo.Cancel(ctx, orderID, vendorUserID)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "order cancelled", slog.Int64("order_id", cancelled.ID))
	return cancelled, nil
}

// Get resolves the order together with both parties' business names.
func (s *Service) Get(ctx context.Context, orderID int64) (*ports.OrderView, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	view := &ports.OrderView{Order: order}
	if vendor, err := s.directory.VendorParty(ctx, order.VendorUserID); err == nil {
		view.VendorName = vendor.BusinessName
	}
	if supplier, err := s.directory.SupplierParty(ctx, order.SupplierUserID); err == nil {
		view.SupplierName = supplier.BusinessName
	}
	return view, nil
}

func (s *Service) ListForVendor(ctx context.Context, vendorUserID int64, filter ports.ListFilter) (*ports.OrderPage, error) {
	normalizePage(&filter.Page)
	return s.repo.ListByVendor(ctx, vendorUserID, filter)
}

func (s *Service) ListForSupplier(ctx context.Context, supplierUserID int64, filter ports.ListFilter) (*ports.OrderPage, error) {
	normalizePage(&filter.Page)
	return s.repo.ListBySupplier(ctx, supplierUserID, filter)
}

// StatsForVendor satisfies the vendor dashboard's StatsSource port.
func (s *Service) StatsForVendor(ctx context.Context, vendorUserID int64) (vendorports.OrderStats, error) {
	total, pending, err := s.repo.CountByVendor(ctx, vendorUserID)
	if err != nil {
		return vendorports.OrderStats{}, err
	}
	return vendorports.OrderStats{Total: int(total), Pending: int(pending)}, nil
}

func normalizePage(page *ports.Page) {
	if page.Number < 1 {
		page.Number = 1
	}
	if page.Size < 1 {
		page.Size = defaultPageSize
	}
}

var (
	_ ports.Service           = (*Service)(nil)
	_ vendorports.StatsSource = (*Service)(nil)
)
