package postgres

import (
	"context"
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/streetsource/streetsource-api/internal/domains/orders/domain"
	"github.com/streetsource/streetsource-api/internal/domains/orders/ports"
	vendorpg "github.com/streetsource/streetsource-api/internal/domains/vendors/adapters/persistence/postgres"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. Stock movement and the
// vendor tracking row are written in the same transaction as the order, so a
// partial application can never be observed.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	ID                    int64                  `gorm:"primaryKey;column:id"`
	VendorUserID          int64                  `gorm:"column:vendor_user_id;index"`
	SupplierUserID        int64                  `gorm:"column:supplier_user_id;index"`
	TotalAmount           float64                `gorm:"column:total_amount"`
	Status                string                 `gorm:"column:status;type:varchar(16);index"`
	DeliveryLat           float64                `gorm:"column:delivery_lat"`
	DeliveryLng           float64                `gorm:"column:delivery_lng"`
	DeliveryAddress       string                 `gorm:"column:delivery_address"`
	PreferredDeliveryTime *time.Time             `gorm:"column:preferred_delivery_time"`
	EstimatedDelivery     *time.Time             `gorm:"column:estimated_delivery"`
	ActualDelivery        *time.Time             `gorm:"column:actual_delivery"`
	PaymentMethod         string                 `gorm:"column:payment_method"`
	PaymentStatus         string                 `gorm:"column:payment_status;type:varchar(16)"`
	SpecialInstructions   string                 `gorm:"column:special_instructions"`
	PaymentDetails        *domain.PaymentDetails `gorm:"column:payment_details;type:jsonb;serializer:json"`
	GatewayOrderID        *string                `gorm:"column:gateway_order_id;index"`
	CreatedAt             time.Time              `gorm:"column:created_at;index"`
	UpdatedAt             time.Time              `gorm:"column:updated_at"`

	Items []orderItemRecord `gorm:"foreignKey:OrderID"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID           int64   `gorm:"primaryKey;column:id"`
	OrderID      int64   `gorm:"column:order_id;index"`
	ItemID       int64   `gorm:"column:item_id"`
	Name         string  `gorm:"column:name"`
	Unit         string  `gorm:"column:unit;type:varchar(16)"`
	Quantity     float64 `gorm:"column:quantity"`
	PriceAtOrder float64 `gorm:"column:price_at_order"`
}

func (orderItemRecord) TableName() string { return "order_items" }

func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	record := toRecord(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Conditional decrement: zero rows affected means the stock
		// guard failed and the whole transaction rolls back.
		for _, line := range order.Items {
			result := tx.Exec(
				`UPDATE inventory_items
				 SET quantity = quantity - ?, last_updated = ?
				 WHERE id = ? AND quantity >= ?`,
				line.Quantity, time.Now(), line.ItemID, line.Quantity,
			)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return &domain.InsufficientStockError{ItemName: line.Name}
			}
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		tracking := vendorpg.TrackingRecord{
			VendorUserID:      order.VendorUserID,
			OrderID:           record.ID,
			Status:            string(order.Status),
			EstimatedDelivery: order.EstimatedDelivery,
			UpdatedAt:         time.Now(),
		}
		return tx.Create(&tracking).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) UpdateStatus(ctx context.Context, update ports.StatusUpdate) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record orderRecord
		if err := tx.Clauses(forUpdate()).First(&record, "id = ?", update.OrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrOrderNotFound
			}
			return err
		}
		if domain.Status(record.Status).Terminal() {
			return domain.ErrTerminalState
		}

		fields := map[string]any{"status": string(update.Status), "updated_at": time.Now()}
		if update.EstimatedDelivery != nil {
			fields["estimated_delivery"] = *update.EstimatedDelivery
		}
		if update.Status == domain.StatusDelivered {
			fields["actual_delivery"] = time.Now()
		}
		if err := tx.Model(&orderRecord{}).Where("id = ?", update.OrderID).Updates(fields).Error; err != nil {
			return err
		}

		trackingFields := map[string]any{"status": string(update.Status), "updated_at": time.Now()}
		if update.EstimatedDelivery != nil {
			trackingFields["estimated_delivery"] = *update.EstimatedDelivery
		}
		return tx.Model(&vendorpg.TrackingRecord{}).
			Where("vendor_user_id = ? AND order_id = ?", record.VendorUserID, update.OrderID).
			Updates(trackingFields).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, update.OrderID)
}

func (r *Repository) Cancel(ctx context.Context, orderID, vendorUserID int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The status guard in the UPDATE makes cancellation race-safe:
		// only one transaction can move pending/accepted to cancelled,
		// so the restore below can never run twice.
		result := tx.Model(&orderRecord{}).
			Where("id = ? AND vendor_user_id = ? AND status IN ?",
				orderID, vendorUserID,
				[]string{string(domain.StatusPending), string(domain.StatusAccepted)}).
			Updates(map[string]any{"status": string(domain.StatusCancelled), "updated_at": time.Now()})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&orderRecord{}).
				Where("id = ? AND vendor_user_id = ?", orderID, vendorUserID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return domain.ErrOrderNotFound
			}
			return domain.ErrCannotCancel
		}

		// Restore the originally ordered quantities from the snapshot
		// rows, not whatever the catalog says now.
		var items []orderItemRecord
		if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
			return err
		}
		for _, item := range items {
			if err := tx.Exec(
				`UPDATE inventory_items SET quantity = quantity + ?, last_updated = ? WHERE id = ?`,
				item.Quantity, time.Now(), item.ItemID,
			).Error; err != nil {
				return err
			}
		}

		return tx.Model(&vendorpg.TrackingRecord{}).
			Where("vendor_user_id = ? AND order_id = ?", vendorUserID, orderID).
			Updates(map[string]any{"status": string(domain.StatusCancelled), "updated_at": time.Now()}).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, orderID)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).Preload("Items").First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).Preload("Items").
		First(&record, "gateway_order_id = ?", gatewayOrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ListByVendor(ctx context.Context, vendorUserID int64, filter ports.ListFilter) (*ports.OrderPage, error) {
	return r.list(ctx, "vendor_user_id = ?", vendorUserID, filter)
}

func (r *Repository) ListBySupplier(ctx context.Context, supplierUserID int64, filter ports.ListFilter) (*ports.OrderPage, error) {
	return r.list(ctx, "supplier_user_id = ?", supplierUserID, filter)
}

func (r *Repository) CountByVendor(ctx context.Context, vendorUserID int64) (int64, int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, 0, err
	}
	var total, pending int64
	if err := r.db.WithContext(ctx).Model(&orderRecord{}).
		Where("vendor_user_id = ?", vendorUserID).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&orderRecord{}).
		Where("vendor_user_id = ? AND status = ?", vendorUserID, string(domain.StatusPending)).
		Count(&pending).Error; err != nil {
		return 0, 0, err
	}
	return total, pending, nil
}

func (r *Repository) SetPaymentCreated(ctx context.Context, orderID int64, gatewayOrderID string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	details := domain.PaymentDetails{GatewayOrderID: gatewayOrderID, Status: "created"}
	result := r.db.WithContext(ctx).Model(&orderRecord{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"payment_details":  jsonValue(details),
			"gateway_order_id": gatewayOrderID,
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *Repository) CapturePayment(ctx context.Context, orderID int64, paymentID, signature string, paidAt time.Time) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record orderRecord
		if err := tx.Clauses(forUpdate()).First(&record, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrOrderNotFound
			}
			return err
		}
		if record.PaymentDetails == nil {
			return domain.ErrOrderNotFound
		}
		details := *record.PaymentDetails
		details.GatewayPaymentID = paymentID
		details.Signature = signature
		details.Status = "captured"
		details.PaidAt = &paidAt
		return tx.Model(&orderRecord{}).Where("id = ?", orderID).Updates(map[string]any{
			"payment_details": jsonValue(details),
			"payment_status":  string(domain.PaymentCompleted),
			"updated_at":      time.Now(),
		}).Error
	})
}

func (r *Repository) list(ctx context.Context, where string, userID int64, filter ports.ListFilter) (*ports.OrderPage, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Model(&orderRecord{}).Where(where, userID)
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := query.Preload("Items").
		Order("created_at DESC, id DESC").
		Limit(filter.Page.Size).
		Offset(filter.Page.Offset()).
		Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	pages := 0
	if filter.Page.Size > 0 {
		pages = int(math.Ceil(float64(total) / float64(filter.Page.Size)))
	}
	return &ports.OrderPage{Orders: orders, Total: total, Page: filter.Page.Number, Pages: pages}, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(o *domain.Order) orderRecord {
	record := orderRecord{
		VendorUserID:          o.VendorUserID,
		SupplierUserID:        o.SupplierUserID,
		TotalAmount:           o.TotalAmount,
		Status:                string(o.Status),
		DeliveryLat:           o.DeliveryLocation.Lat,
		DeliveryLng:           o.DeliveryLocation.Lng,
		DeliveryAddress:       o.DeliveryLocation.Address,
		PreferredDeliveryTime: o.PreferredDeliveryTime,
		EstimatedDelivery:     o.EstimatedDelivery,
		ActualDelivery:        o.ActualDelivery,
		PaymentMethod:         o.PaymentMethod,
		PaymentStatus:         string(o.PaymentStatus),
		SpecialInstructions:   o.SpecialInstructions,
		PaymentDetails:        o.PaymentDetails,
	}
	for _, item := range o.Items {
		record.Items = append(record.Items, orderItemRecord{
			ItemID:       item.ItemID,
			Name:         item.Name,
			Unit:         item.Unit,
			Quantity:     item.Quantity,
			PriceAtOrder: item.PriceAtOrder,
		})
	}
	return record
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:             r.ID,
		VendorUserID:   r.VendorUserID,
		SupplierUserID: r.SupplierUserID,
		TotalAmount:    r.TotalAmount,
		Status:         domain.Status(r.Status),
		DeliveryLocation: domain.DeliveryLocation{
			Lat:     r.DeliveryLat,
			Lng:     r.DeliveryLng,
			Address: r.DeliveryAddress,
		},
		PreferredDeliveryTime: r.PreferredDeliveryTime,
		EstimatedDelivery:     r.EstimatedDelivery,
		ActualDelivery:        r.ActualDelivery,
		PaymentMethod:         r.PaymentMethod,
		PaymentStatus:         domain.PaymentStatus(r.PaymentStatus),
		SpecialInstructions:   r.SpecialInstructions,
		PaymentDetails:        r.PaymentDetails,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
	for _, item := range r.Items {
		order.Items = append(order.Items, domain.LineItem{
			ItemID:       item.ItemID,
			Name:         item.Name,
			Unit:         item.Unit,
			Quantity:     item.Quantity,
			PriceAtOrder: item.PriceAtOrder,
		})
	}
	return order
}
